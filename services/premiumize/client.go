// Package premiumize is a minimal Premiumize.me API client covering
// account info and direct-download generation.
package premiumize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// AccountInfo is the Premiumize account record.
type AccountInfo struct {
	CustomerID   string  `json:"customer_id"`
	PremiumUntil int64   `json:"premium_until"`
	LimitUsed    float64 `json:"limit_used"`
	SpaceUsed    float64 `json:"space_used"`
}

// DirectDLItem is one generated download link.
type DirectDLItem struct {
	Path            string `json:"path"`
	Size            int64  `json:"size"`
	Link            string `json:"link"`
	StreamLink      string `json:"stream_link"`
	TranscodeStatus string `json:"transcode_status"`
}

type accountInfoResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	AccountInfo
}

type directDLResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Content []DirectDLItem `json:"content"`
	Location string        `json:"location"`
}

// Client is a Premiumize API client. Authentication uses an apikey query
// parameter on every call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates a new Premiumize client.
func New(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// GetAccountInfo returns the current account state.
func (c *Client) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	data, err := c.get(ctx, "/account/info", nil)
	if err != nil {
		return nil, err
	}
	var resp accountInfoResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account info: %w", err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("API error: %s", resp.Message)
	}
	return &resp.AccountInfo, nil
}

// DirectDL generates direct download links for a hoster link or magnet.
func (c *Client) DirectDL(ctx context.Context, src string) ([]DirectDLItem, error) {
	params := url.Values{}
	params.Set("src", src)
	data, err := c.post(ctx, "/transfer/directdl", params)
	if err != nil {
		return nil, err
	}
	var resp directDLResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal directdl response: %w", err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("API error: %s", resp.Message)
	}
	if len(resp.Content) == 0 && resp.Location != "" {
		return []DirectDLItem{{Link: resp.Location}}, nil
	}
	return resp.Content, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.doRequest(req)
}

func (c *Client) post(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path + "?" + url.Values{"apikey": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, "POST", u, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doRequest(req)
}

func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
	return body, nil
}
