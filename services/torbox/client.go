// Package torbox is a client for the TorBox torrent-cloud API. It backs
// magnet resolution: cached torrents are added to the user's cloud and
// served as direct download links.
package torbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://api.torbox.app"

// Client holds the API token and base URL. Every response travels in the
// success/detail/data envelope.
type Client struct {
	cl      *http.Client
	baseURL string
	token   string
}

func NewClient(cl *http.Client, baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{cl: cl, baseURL: strings.TrimSuffix(baseURL, "/"), token: token}
}

// HasKey reports whether an API token is configured.
func (c *Client) HasKey() bool {
	return c.token != ""
}

// GetUser fetches the account record.
func (c *Client) GetUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.get(ctx, "/v1/api/user/me", nil, &u); err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return &u, nil
}

// CheckCached reports instant availability for the given info hashes,
// keyed by hash.
func (c *Client) CheckCached(ctx context.Context, hashes []string) (map[string]CachedTorrent, error) {
	if len(hashes) == 0 {
		return nil, errors.New("at least one hash is required")
	}
	params := url.Values{}
	for _, h := range hashes {
		params.Add("hash", h)
	}
	params.Set("format", "object")
	var out map[string]CachedTorrent
	if err := c.get(ctx, "/v1/api/torrents/checkcached", params, &out); err != nil {
		return nil, errors.Wrap(err, "failed to check cached torrents")
	}
	return out, nil
}

// CreateTorrent adds a magnet to the user's cloud.
func (c *Client) CreateTorrent(ctx context.Context, magnet string) (*CreatedTorrent, error) {
	params := url.Values{}
	params.Set("magnet", magnet)
	var created CreatedTorrent
	if err := c.post(ctx, "/v1/api/torrents/createtorrent", params, &created); err != nil {
		return nil, errors.Wrap(err, "failed to create torrent")
	}
	return &created, nil
}

// ListTorrents fetches the user's torrents.
func (c *Client) ListTorrents(ctx context.Context) ([]Torrent, error) {
	var out []Torrent
	if err := c.get(ctx, "/v1/api/torrents/mylist", nil, &out); err != nil {
		return nil, errors.Wrap(err, "failed to list torrents")
	}
	return out, nil
}

// RequestDownloadLink produces a direct URL for one file of a torrent.
func (c *Client) RequestDownloadLink(ctx context.Context, torrentID, fileID int) (string, error) {
	params := url.Values{}
	params.Set("torrent_id", strconv.Itoa(torrentID))
	params.Set("file_id", strconv.Itoa(fileID))
	var link string
	if err := c.get(ctx, "/v1/api/torrents/requestdl", params, &link); err != nil {
		return "", errors.Wrap(err, "failed to request download link")
	}
	return link, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.cl.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
		}
		return errors.Wrap(err, "failed to unmarshal response")
	}
	if !env.Success {
		return fmt.Errorf("API error: %s", env.Detail)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "failed to unmarshal response data")
		}
	}
	return nil
}
