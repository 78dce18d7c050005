package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds every outbound lookup.
	DefaultTimeout = 5 * time.Second

	toolUserAgent = "nexithium/1.0"
	maxErrorBody  = 200
)

// apiClient performs the single JSON request each tool issues. It never retries.
type apiClient struct {
	httpClient *http.Client
}

func newAPIClient(timeout time.Duration) *apiClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &apiClient{httpClient: &http.Client{Timeout: timeout}}
}

// getJSON issues GET base+path?query and decodes the JSON body into out.
func (c *apiClient) getJSON(ctx context.Context, rawURL string, query url.Values, headers map[string]string, out any) error {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	return c.do(req, headers, out)
}

// postJSON issues POST with a JSON body and decodes the JSON reply into out.
func (c *apiClient) postJSON(ctx context.Context, rawURL string, body any, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, headers, out)
}

func (c *apiClient) do(req *http.Request, headers map[string]string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", toolUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPStatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted(), Body: string(snippet)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// HTTPStatusError reports a 4xx/5xx reply from an upstream API.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}
