// Package realdebrid is a minimal Real-Debrid REST API client covering
// account info and link unrestriction.
package realdebrid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is a Real-Debrid API client. Authentication uses a bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

// New creates a new Real-Debrid client with the provided HTTP client,
// base URL and API token.
func New(httpClient *http.Client, baseURL, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiToken:   token,
	}
}

// GetUser returns information about the current user.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	data, err := c.get(ctx, "/user", nil)
	if err != nil {
		return nil, err
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// CheckLink checks if a link is supported and returns information about it.
func (c *Client) CheckLink(ctx context.Context, link string) (*CheckLinkResponse, error) {
	params := url.Values{}
	params.Set("link", link)
	data, err := c.post(ctx, "/unrestrict/check", params)
	if err != nil {
		return nil, err
	}
	var resp CheckLinkResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal check link response: %w", err)
	}
	return &resp, nil
}

// UnrestrictLink unrestricts a hoster link into a direct download.
func (c *Client) UnrestrictLink(ctx context.Context, link string) (*Download, error) {
	params := url.Values{}
	params.Set("link", link)
	data, err := c.post(ctx, "/unrestrict/link", params)
	if err != nil {
		return nil, err
	}
	var download Download
	if err := json.Unmarshal(data, &download); err != nil {
		return nil, fmt.Errorf("failed to unmarshal download: %w", err)
	}
	return &download, nil
}

// GetHostDomains returns the domains of supported hosters.
func (c *Client) GetHostDomains(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "/hosts/domains", nil)
	if err != nil {
		return nil, err
	}
	var domains []string
	if err := json.Unmarshal(data, &domains); err != nil {
		return nil, fmt.Errorf("failed to unmarshal host domains: %w", err)
	}
	return domains, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	urlStr := c.baseURL + path
	if len(params) > 0 {
		urlStr += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.doRequest(req)
}

func (c *Client) post(ctx context.Context, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doRequest(req)
}

func (c *Client) doRequest(req *http.Request) ([]byte, error) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
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
		var apiError struct {
			Error     string `json:"error"`
			ErrorCode int    `json:"error_code"`
		}
		if err := json.Unmarshal(body, &apiError); err == nil && apiError.Error != "" {
			return nil, fmt.Errorf("API error (code %d): %s", resp.StatusCode, apiError.Error)
		}
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
	return body, nil
}
