package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

const DefaultTwitterBaseURL = "https://api.twitter.com"

type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

type TwitterClient struct {
	creds   TwitterCredentials
	baseURL string
}

func NewTwitterClient(creds TwitterCredentials, baseURL string) *TwitterClient {
	if baseURL == "" {
		baseURL = DefaultTwitterBaseURL
	}
	return &TwitterClient{creds: creds, baseURL: baseURL}
}

func (c *TwitterClient) Name() string {
	return "twitter"
}

func (c *TwitterClient) Configured() bool {
	return c.creds.APIKey != "" && c.creds.APISecret != "" && c.creds.AccessToken != "" && c.creds.AccessSecret != ""
}

func (c *TwitterClient) Publish(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	config := oauth1.NewConfig(c.creds.APIKey, c.creds.APISecret)
	httpClient := config.Client(ctx, oauth1.NewToken(c.creds.AccessToken, c.creds.AccessSecret))
	httpClient.Timeout = 10 * time.Second

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("twitter post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("twitter post: status %d: %s", resp.StatusCode, msg)
	}

	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("twitter decode: %w", err)
	}
	if parsed.Data.ID == "" {
		return "", fmt.Errorf("twitter post: no tweet id in response")
	}

	return parsed.Data.ID, nil
}
