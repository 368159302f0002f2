package main

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/kinohive-io/kino-addon/services/debrid"
	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/identity"
	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/playback"
	"github.com/kinohive-io/kino-addon/services/resolve"
	"github.com/kinohive-io/kino-addon/services/scraper"
	"github.com/kinohive-io/kino-addon/services/state"
	"github.com/kinohive-io/kino-addon/services/tmdb"
	"github.com/kinohive-io/kino-addon/services/torbox"
)

func makePlayCMD() cli.Command {
	playCMD := cli.Command{
		Name:    "play",
		Aliases: []string{"p"},
		Usage:   "Resolves a title and dispatches playback",
		Action:  play,
	}
	configurePlay(&playCMD)
	return playCMD
}

func configurePlay(c *cli.Command) {
	c.Flags = tmdb.RegisterFlags(c.Flags)
	c.Flags = registerSettingsFlags(c.Flags)
	c.Flags = append(c.Flags,
		cli.StringFlag{
			Name:  "title",
			Usage: "title to play",
		},
		cli.IntFlag{
			Name:  "year",
			Usage: "release year",
		},
		cli.IntFlag{
			Name:  "tmdb-id",
			Usage: "metadata-service id",
		},
		cli.IntFlag{
			Name:  "show-tmdb-id",
			Usage: "show metadata-service id (episode playback)",
		},
		cli.IntFlag{
			Name:  "season",
			Usage: "season number (episode playback)",
		},
		cli.IntFlag{
			Name:  "episode",
			Usage: "episode number (episode playback)",
		},
		cli.StringFlag{
			Name:  "hls-url",
			Usage: "embedded hls manifest url fallback",
		},
		cli.StringFlag{
			Name:  "video-url",
			Usage: "embedded direct video url fallback",
		},
	)
}

func play(c *cli.Context) error {
	ref, err := refFromContext(c)
	if err != nil {
		return err
	}

	cl := http.DefaultClient
	settings := settingsFromContext(c)
	runtime := newTerminalHost(settings, profileDir(c))

	api := tmdb.New(c, cl)
	gate := debrid.NewGate(debrid.NewServices(settings, cl)...)

	var bridge resolve.TorrentBridge
	if key := settings.GetString(host.DebridKeySetting("torbox")); key != "" {
		bridge = torbox.NewBridge(torbox.NewClient(cl, torbox.DefaultBaseURL, key))
	}
	chain := resolve.NewChain(gate, bridge, nil)
	store := state.NewStore(runtime.ProfileDir())

	// Scraper plugins register here; none ship with the harness.
	var plugins []scraper.Plugin

	orchestrator := playback.NewOrchestrator(runtime, identity.New(api), plugins, gate, chain, store)
	orchestrator.Play(context.Background(), ref)
	return nil
}

func refFromContext(c *cli.Context) (*media.TitleRef, error) {
	if c.Int("show-tmdb-id") != 0 || c.Int("season") != 0 {
		ref := &media.TitleRef{
			Kind: media.KindEpisode,
			Show: &media.TitleRef{
				Kind:   media.KindShow,
				Title:  c.String("title"),
				TmdbID: c.Int("show-tmdb-id"),
			},
			Season:   c.Int("season"),
			Episode:  c.Int("episode"),
			HlsURL:   c.String("hls-url"),
			VideoURL: c.String("video-url"),
		}
		if !ref.Valid() {
			return nil, errors.New("episode playback needs a show id or title plus season and episode")
		}
		return ref, nil
	}
	ref := &media.TitleRef{
		Kind:     media.KindMovie,
		Title:    c.String("title"),
		Year:     c.Int("year"),
		TmdbID:   c.Int("tmdb-id"),
		HlsURL:   c.String("hls-url"),
		VideoURL: c.String("video-url"),
	}
	if !ref.Valid() {
		return nil, errors.New("either --title or --tmdb-id is required")
	}
	return ref, nil
}
