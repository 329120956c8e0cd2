package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the warden API
type Client struct {
	baseURL     string
	adminSecret string
	httpClient  *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, adminSecret string) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		adminSecret: adminSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// apiError matches the server's failure envelope
type apiError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Do performs an HTTP request against the API. A non-2xx response is
// surfaced as an error carrying the server's code and message.
func (c *Client) Do(method, path string, body, result any) error {
	var raw []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		raw = data
	}
	return c.DoRaw(method, path, raw, result)
}

// DoRaw performs a request with a pre-encoded JSON body
func (c *Client) DoRaw(method, path string, body []byte, result any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminSecret != "" {
		req.Header.Set("x-admin-auth", c.adminSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%s)", apiErr.Error, apiErr.Code)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
