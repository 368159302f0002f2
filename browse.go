package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/kinohive-io/kino-addon/services/catalog"
	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/tmdb"
)

func makeCatalogCMD() cli.Command {
	catalogCMD := cli.Command{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "Lists catalog and metadata-service surfaces",
		Action:  browse,
	}
	configureCatalog(&catalogCMD)
	return catalogCMD
}

func configureCatalog(c *cli.Command) {
	c.Flags = tmdb.RegisterFlags(c.Flags)
	c.Flags = catalog.RegisterFlags(c.Flags)
	c.Flags = registerSettingsFlags(c.Flags)
	c.Flags = append(c.Flags,
		cli.StringFlag{
			Name:  "source",
			Usage: "listing source (movies, tvshows, featured, popular, top-rated, now-playing, upcoming, airing-today, search, genre, year)",
			Value: "popular",
		},
		cli.StringFlag{
			Name:  "kind",
			Usage: "content kind (movie, tvshow)",
			Value: "movie",
		},
		cli.StringFlag{
			Name:  "query",
			Usage: "search query or genre name",
		},
		cli.IntFlag{
			Name:  "page",
			Usage: "listing page",
			Value: 1,
		},
		cli.IntFlag{
			Name:  "year-filter",
			Usage: "catalog year file",
		},
	)
}

func browse(c *cli.Context) error {
	ctx := context.Background()
	cl := http.DefaultClient
	runtime := newTerminalHost(settingsFromContext(c), profileDir(c))
	sink := runtime.Directory()

	kind := media.KindMovie
	if c.String("kind") == "tvshow" {
		kind = media.KindShow
	}

	switch c.String("source") {
	case "movies", "tvshows", "featured", "genre", "year":
		records, err := catalogRecords(ctx, c, catalog.New(c, cl))
		if err != nil {
			sink.End(false)
			return err
		}
		for _, r := range records {
			sink.Add(catalogListItem(&r))
		}
	default:
		resp, err := pagedListing(ctx, c, tmdb.New(c, cl), kind)
		if err != nil {
			sink.End(false)
			return err
		}
		for i := range resp.Results {
			sink.Add(metadataListItem(&resp.Results[i]))
		}
	}
	sink.End(true)
	return nil
}

func catalogRecords(ctx context.Context, c *cli.Context, cat *catalog.Client) ([]catalog.Record, error) {
	switch c.String("source") {
	case "movies":
		return cat.Movies(ctx)
	case "tvshows":
		return cat.TVShows(ctx)
	case "featured":
		return cat.Featured(ctx)
	case "genre":
		if c.String("query") == "" {
			return nil, errors.New("--query is required for genre listings")
		}
		return cat.Genre(ctx, c.String("query"))
	default:
		if c.Int("year-filter") == 0 {
			return nil, errors.New("--year-filter is required for year listings")
		}
		return cat.Year(ctx, c.Int("year-filter"))
	}
}

func pagedListing(ctx context.Context, c *cli.Context, api *tmdb.Api, kind media.Kind) (*tmdb.PagedResponse, error) {
	page := c.Int("page")
	switch c.String("source") {
	case "popular":
		return api.GetPopular(ctx, kind, page)
	case "top-rated":
		return api.GetTopRated(ctx, kind, page)
	case "now-playing":
		return api.GetNowPlaying(ctx, page)
	case "upcoming":
		return api.GetUpcoming(ctx, page)
	case "airing-today":
		return api.GetAiringToday(ctx, page)
	case "search":
		if c.String("query") == "" {
			return nil, errors.New("--query is required for search")
		}
		return api.Search(ctx, kind, c.String("query"), page)
	default:
		return nil, errors.Errorf("unknown source %q", c.String("source"))
	}
}

func catalogListItem(r *catalog.Record) *host.ListItem {
	return &host.ListItem{
		Label:     r.Title,
		Year:      r.Year,
		Plot:      r.Plot,
		PosterURL: r.PosterURL,
	}
}

func metadataListItem(it *tmdb.Item) *host.ListItem {
	year := 0
	date := it.ReleaseDate
	if date == "" {
		date = it.FirstAirDate
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			year = y
		}
	}
	return &host.ListItem{
		Label:     it.DisplayTitle(),
		Year:      year,
		Plot:      it.Overview,
		PosterURL: it.PosterPath,
	}
}
