package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultThreadsBaseURL = "https://graph.threads.net/v1.0"

type ThreadsClient struct {
	userID      string
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

func NewThreadsClient(userID, accessToken, baseURL string) *ThreadsClient {
	if baseURL == "" {
		baseURL = DefaultThreadsBaseURL
	}
	return &ThreadsClient{
		userID:      userID,
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *ThreadsClient) Name() string {
	return "threads"
}

func (c *ThreadsClient) Configured() bool {
	return c.userID != "" && c.accessToken != ""
}

// Publish creates a text container and then publishes it. Either step failing
// fails the post.
func (c *ThreadsClient) Publish(ctx context.Context, text string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	creationID, err := c.post(ctx, "/"+c.userID+"/threads", map[string]string{
		"media_type":   "TEXT",
		"text":         text,
		"access_token": c.accessToken,
	})
	if err != nil {
		return "", fmt.Errorf("threads create container: %w", err)
	}

	postID, err := c.post(ctx, "/"+c.userID+"/threads_publish", map[string]string{
		"creation_id":  creationID,
		"access_token": c.accessToken,
	})
	if err != nil {
		return "", fmt.Errorf("threads publish: %w", err)
	}

	return postID, nil
}

func (c *ThreadsClient) post(ctx context.Context, path string, payload map[string]string) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("no id in response")
	}
	return parsed.ID, nil
}
