package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func TestParseTimePublished(t *testing.T) {
	input := "20260226T075324"
	got, err := time.Parse("20060102T150405", input)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.February, got.Month())
	assert.Equal(t, 26, got.Day())
	assert.Equal(t, 7, got.Hour())
}

func TestAlphaVantageFetch(t *testing.T) {
	payload := map[string]interface{}{
		"feed": []map[string]interface{}{
			{
				"title":          "Gold Rises As Fed Holds Rates",
				"summary":        "Bullion gained after the Federal Reserve kept interest rates unchanged.",
				"url":            "https://example.com/gold-fed?id=123&x=y",
				"source":         "Reuters",
				"time_published": "20260226T120000",
			},
			{
				"title":          "Second story",
				"url":            "https://example.com/second",
				"time_published": "bad",
			},
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NEWS_SENTIMENT", r.URL.Query().Get("function"))
		assert.Equal(t, alphaVantageTopics, r.URL.Query().Get("topics"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := &AlphaVantageClient{
		apiKey:     "test-key",
		httpClient: srv.Client(),
	}
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	items, err := client.Fetch(context.Background(), 5)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))

	a := items[0]
	assert.Equal(t, "Gold Rises As Fed Holds Rates", a.Title)
	assert.Equal(t, "https://example.com/gold-fed?id=123&x=y", a.URL)
	assert.Equal(t, "AlphaVantage", a.Source)
	assert.NotEqual(t, time.Time{}, a.PublishedAt)
	assert.Equal(t, time.Time{}, items[1].PublishedAt)
}

func TestAlphaVantageInformationNote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Information":"rate limit is 25 requests per day"}`))
	}))
	defer srv.Close()

	client := &AlphaVantageClient{apiKey: "test-key", httpClient: srv.Client()}
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	items, err := client.Fetch(context.Background(), 3)

	assert.NotEqual(t, nil, err)
	assert.Equal(t, 0, len(items))
}

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}
