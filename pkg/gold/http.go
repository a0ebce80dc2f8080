package gold

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// getJSON performs req and decodes a 2xx body into out, classifying failures
// into ProviderError kinds.
func getJSON(client *http.Client, req *http.Request, provider string, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return newProviderError(provider, ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return newProviderError(provider, ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || (resp.StatusCode >= 400 && mentionsQuota(string(body))) {
		return newProviderError(provider, ErrQuota, fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newProviderError(provider, ErrStatus, fmt.Errorf("status %d: %s", resp.StatusCode, snippet(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newProviderError(provider, ErrSchema, err)
	}
	return nil
}

func mentionsQuota(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "quota") || strings.Contains(s, "usage limit") || strings.Contains(s, "rate limit")
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
