package matchdex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to a matchdex API server over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	obs     *observer
}

// New creates a matchdex Client for the given base URL
// (e.g. "http://localhost:8000").
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("matchdex: base URL required")
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	httpc := cfg.httpClient
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		httpc:   httpc,
		obs:     obs,
	}, nil
}

// do executes one JSON round trip. A nil body sends no payload; a nil
// out discards the response body. Non-2xx responses decode into APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("matchdex: decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("matchdex: marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return nil, fmt.Errorf("matchdex: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matchdex: request failed: %w", err)
	}
	return resp, nil
}

// decodeAPIError turns a non-2xx response into an APIError. Responses
// that are not the service's JSON error shape keep the raw body as the
// message.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if jsonErr := json.Unmarshal(data, &wire); jsonErr == nil && wire.Code != "" {
		apiErr.Code = wire.Code
		apiErr.Message = wire.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(data))
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// drain consumes and closes a response body so the connection can be
// reused.
func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4<<10))
	_ = body.Close()
}
