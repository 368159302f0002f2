// Package alldebrid is a minimal AllDebrid v4 API client covering account
// info and link unlocking.
package alldebrid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// User is the AllDebrid account record.
type User struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsPremium      bool   `json:"isPremium"`
	PremiumUntil   int64  `json:"premiumUntil"`
	FidelityPoints int    `json:"fidelityPoints"`
}

// UnlockedLink is an unlocked download link.
type UnlockedLink struct {
	Link     string `json:"link"`
	Host     string `json:"host"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Streams  []struct {
		ID   string `json:"id"`
		Link string `json:"link"`
	} `json:"streams,omitempty"`
}

// envelope is the common AllDebrid response wrapper.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client is an AllDebrid API client. Authentication uses apikey and agent
// query parameters on every call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	agent      string
}

// New creates a new AllDebrid client. The agent identifies the calling
// application, as required by the API.
func New(httpClient *http.Client, baseURL, apiKey, agent string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		agent:      agent,
	}
}

// GetUser returns information about the current user.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	data, err := c.get(ctx, "/user", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		User User `json:"user"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &resp.User, nil
}

// UnlockLink unlocks a hoster link into a direct download.
func (c *Client) UnlockLink(ctx context.Context, link string) (*UnlockedLink, error) {
	params := url.Values{}
	params.Set("link", link)
	data, err := c.get(ctx, "/link/unlock", params)
	if err != nil {
		return nil, err
	}
	var unlocked UnlockedLink
	if err := json.Unmarshal(data, &unlocked); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unlocked link: %w", err)
	}
	return &unlocked, nil
}

// GetHostDomains returns the domains of supported hosters.
func (c *Client) GetHostDomains(ctx context.Context) ([]string, error) {
	data, err := c.get(ctx, "/hosts/domains", nil)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Hosts []string `json:"hosts"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal host domains: %w", err)
	}
	return resp.Hosts, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	params.Set("agent", c.agent)

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
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
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}
	if env.Status != "success" {
		if env.Error != nil {
			return nil, fmt.Errorf("API error (%s): %s", env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("API error: status %q", env.Status)
	}
	return env.Data, nil
}
