// Package catalog fetches the auxiliary JSON catalog: flat files of movie
// and show records hosted on a code-hosting platform.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazymap"

	"github.com/kinohive-io/kino-addon/services/media"
)

const (
	baseURLFlag = "catalog-base-url"
)

const callTimeout = 10 * time.Second

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   baseURLFlag,
			Usage:  "json catalog base url",
			EnvVar: "CATALOG_BASE_URL",
			Value:  "https://raw.githubusercontent.com/kinohive-io/catalog/main",
		},
	)
}

// Record is one catalog entry. Field names are fixed by the hosted files.
type Record struct {
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	PosterURL string `json:"poster_url,omitempty"`
	VideoURL  string `json:"video_url,omitempty"`
	M3u8URL   string `json:"m3u8_url,omitempty"`
	Plot      string `json:"plot,omitempty"`
	TmdbID    int    `json:"tmdb_id,omitempty"`
}

// TitleRef converts the record into an addressable ref of the given kind,
// carrying the embedded direct URLs along as playback fallbacks.
func (r *Record) TitleRef(kind media.Kind) *media.TitleRef {
	return &media.TitleRef{
		Kind:      kind,
		Title:     r.Title,
		Year:      r.Year,
		TmdbID:    r.TmdbID,
		Plot:      r.Plot,
		PosterURL: r.PosterURL,
		HlsURL:    r.M3u8URL,
		VideoURL:  r.VideoURL,
	}
}

// Client fetches catalog files over HTTP with a short-lived cache per file.
type Client struct {
	baseURL string
	cl      *http.Client
	cache   *lazymap.LazyMap[[]Record]
}

// New builds the client from CLI flags.
func New(c *cli.Context, cl *http.Client) *Client {
	u := strings.TrimSuffix(c.String(baseURLFlag), "/")
	log.Infof("json catalog base url %v", u)
	return NewWithBaseURL(cl, u)
}

// NewWithBaseURL builds the client against an explicit base URL.
func NewWithBaseURL(cl *http.Client, baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cl:      cl,
		cache: lazymap.New[[]Record](&lazymap.Config{
			Expire:      5 * time.Minute,
			ErrorExpire: 30 * time.Second,
		}),
	}
}

// Movies fetches movies.json.
func (c *Client) Movies(ctx context.Context) ([]Record, error) {
	return c.fetch(ctx, "movies.json")
}

// TVShows fetches tvshows.json.
func (c *Client) TVShows(ctx context.Context) ([]Record, error) {
	return c.fetch(ctx, "tvshows.json")
}

// Featured fetches featured.json.
func (c *Client) Featured(ctx context.Context) ([]Record, error) {
	return c.fetch(ctx, "featured.json")
}

// Genre fetches genres/<g>.json.
func (c *Client) Genre(ctx context.Context, genre string) ([]Record, error) {
	return c.fetch(ctx, fmt.Sprintf("genres/%s.json", genre))
}

// Year fetches years/<y>.json.
func (c *Client) Year(ctx context.Context, year int) ([]Record, error) {
	return c.fetch(ctx, fmt.Sprintf("years/%d.json", year))
}

func (c *Client) fetch(ctx context.Context, file string) ([]Record, error) {
	return c.cache.Get(file, func() ([]Record, error) {
		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/"+file, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create request")
		}
		resp, err := c.cl.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "request failed")
		}
		defer func(body io.ReadCloser) {
			_ = body.Close()
		}(resp.Body)

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read response body")
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
		}

		var records []Record
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal catalog file")
		}

		// Malformed entries are dropped, not fatal.
		valid := records[:0]
		for _, r := range records {
			if r.Title == "" {
				log.WithField("file", file).Warn("dropping catalog record without title")
				continue
			}
			valid = append(valid, r)
		}
		return valid, nil
	})
}
