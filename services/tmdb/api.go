package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"github.com/webtor-io/lazymap"

	"github.com/kinohive-io/kino-addon/services/media"
)

const (
	apiKeyFlag    = "tmdb-api-key"
	apiHostFlag   = "tmdb-api-host"
	apiSecureFlag = "tmdb-api-secure"
)

// fallbackAPIKey keeps metadata browsing alive when no key is configured
// (config-error policy: notify once, fall back, continue).
const fallbackAPIKey = "d2694e5f1e9b2b1c9f6b5a4ec7a0c8b3"

const callTimeout = 10 * time.Second

func RegisterFlags(f []cli.Flag) []cli.Flag {
	return append(f,
		cli.StringFlag{
			Name:   apiHostFlag,
			Usage:  "tmdb api host",
			EnvVar: "TMDB_API_HOST",
			Value:  "api.themoviedb.org",
		},
		cli.BoolTFlag{
			Name:   apiSecureFlag,
			Usage:  "tmdb api secure (https)",
			EnvVar: "TMDB_API_SECURE",
		},
		cli.StringFlag{
			Name:   apiKeyFlag,
			Usage:  "tmdb api key",
			Value:  "",
			EnvVar: "TMDB_API_KEY",
		},
	)
}

// Api is a metadata-service client. The API key travels as a query-string
// parameter; every call carries its own deadline.
type Api struct {
	url          string
	key          string
	cl           *http.Client
	detailsCache *lazymap.LazyMap[*Details]
	idsCache     *lazymap.LazyMap[*ExternalIDs]
}

// New builds the client from CLI flags. An empty key falls back to the
// compiled-in default so browsing keeps working out of the box.
func New(c *cli.Context, cl *http.Client) *Api {
	key := c.String(apiKeyFlag)
	if key == "" {
		log.Warn("no tmdb api key configured, using fallback key")
		key = fallbackAPIKey
	}
	protocol := "http"
	if c.BoolT(apiSecureFlag) {
		protocol = "https"
	}
	u := fmt.Sprintf("%v://%v/3", protocol, c.String(apiHostFlag))
	log.Infof("tmdb api endpoint %v", u)
	return NewWithEndpoint(cl, u, key)
}

// NewWithEndpoint builds the client against an explicit endpoint.
func NewWithEndpoint(cl *http.Client, endpoint, key string) *Api {
	return &Api{
		url: endpoint,
		key: key,
		cl:  cl,
		detailsCache: lazymap.New[*Details](&lazymap.Config{
			Expire:      10 * time.Minute,
			ErrorExpire: 30 * time.Second,
		}),
		idsCache: lazymap.New[*ExternalIDs](&lazymap.Config{
			Expire:      10 * time.Minute,
			ErrorExpire: 30 * time.Second,
		}),
	}
}

func kindPath(kind media.Kind) string {
	if kind == media.KindMovie {
		return "movie"
	}
	return "tv"
}

// GetPopular lists popular movies or shows.
func (api *Api) GetPopular(ctx context.Context, kind media.Kind, page int) (*PagedResponse, error) {
	return api.getPaged(ctx, fmt.Sprintf("/%s/popular", kindPath(kind)), page, nil)
}

// GetTopRated lists top-rated movies or shows.
func (api *Api) GetTopRated(ctx context.Context, kind media.Kind, page int) (*PagedResponse, error) {
	return api.getPaged(ctx, fmt.Sprintf("/%s/top_rated", kindPath(kind)), page, nil)
}

// GetNowPlaying lists movies currently in theaters.
func (api *Api) GetNowPlaying(ctx context.Context, page int) (*PagedResponse, error) {
	return api.getPaged(ctx, "/movie/now_playing", page, nil)
}

// GetUpcoming lists upcoming movies.
func (api *Api) GetUpcoming(ctx context.Context, page int) (*PagedResponse, error) {
	return api.getPaged(ctx, "/movie/upcoming", page, nil)
}

// GetAiringToday lists shows airing today.
func (api *Api) GetAiringToday(ctx context.Context, page int) (*PagedResponse, error) {
	return api.getPaged(ctx, "/tv/airing_today", page, nil)
}

// Search searches movies or shows by query.
func (api *Api) Search(ctx context.Context, kind media.Kind, query string, page int) (*PagedResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	return api.getPaged(ctx, fmt.Sprintf("/search/%s", kindPath(kind)), page, params)
}

// GetDetails fetches the full record of a movie or show, external IDs and
// credits included. Results are cached for a short period.
func (api *Api) GetDetails(ctx context.Context, kind media.Kind, id int) (*Details, error) {
	cacheKey := fmt.Sprintf("%s:%d", kindPath(kind), id)
	return api.detailsCache.Get(cacheKey, func() (*Details, error) {
		params := url.Values{}
		params.Set("append_to_response", "external_ids,credits")
		data, err := api.get(ctx, fmt.Sprintf("/%s/%d", kindPath(kind), id), params)
		if err != nil {
			return nil, err
		}
		var d Details
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal details")
		}
		return &d, nil
	})
}

// GetSeason fetches a season with its episode list.
func (api *Api) GetSeason(ctx context.Context, showID, season int) (*Season, error) {
	data, err := api.get(ctx, fmt.Sprintf("/tv/%d/season/%d", showID, season), nil)
	if err != nil {
		return nil, err
	}
	var s Season
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal season")
	}
	return &s, nil
}

// GetEpisode fetches a single episode record.
func (api *Api) GetEpisode(ctx context.Context, showID, season, episode int) (*Episode, error) {
	data, err := api.get(ctx, fmt.Sprintf("/tv/%d/season/%d/episode/%d", showID, season, episode), nil)
	if err != nil {
		return nil, err
	}
	var e Episode
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal episode")
	}
	return &e, nil
}

// GetExternalIDs fetches cross-service IDs for a record. Results are
// cached for a short period.
func (api *Api) GetExternalIDs(ctx context.Context, kind media.Kind, id int) (*ExternalIDs, error) {
	cacheKey := fmt.Sprintf("%s:%d", kindPath(kind), id)
	return api.idsCache.Get(cacheKey, func() (*ExternalIDs, error) {
		data, err := api.get(ctx, fmt.Sprintf("/%s/%d/external_ids", kindPath(kind), id), nil)
		if err != nil {
			return nil, err
		}
		var ids ExternalIDs
		if err := json.Unmarshal(data, &ids); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal external ids")
		}
		return &ids, nil
	})
}

func (api *Api) getPaged(ctx context.Context, path string, page int, params url.Values) (*PagedResponse, error) {
	if params == nil {
		params = url.Values{}
	}
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	data, err := api.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	var resp PagedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal paged response")
	}
	return &resp, nil
}

func (api *Api) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", api.key)

	req, err := http.NewRequestWithContext(ctx, "GET", api.url+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := api.cl.Do(req)
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
	return body, nil
}
