package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/state"
)

func makeLibraryCMD() cli.Command {
	libraryCMD := cli.Command{
		Name:    "library",
		Aliases: []string{"l"},
		Usage:   "Manages watchlist, favorites, history and resume points",
		Subcommands: []cli.Command{
			makeListCMD("watchlist"),
			makeListCMD("favorites"),
			{
				Name:   "history",
				Usage:  "Shows watch history, most recent first",
				Flags:  registerSettingsFlags(nil),
				Action: showHistory,
			},
			{
				Name:   "resume",
				Usage:  "Shows saved resume points",
				Flags:  registerSettingsFlags(nil),
				Action: showResume,
			},
		},
	}
	return libraryCMD
}

func makeListCMD(list string) cli.Command {
	flags := registerSettingsFlags(nil)
	refFlags := append(flags,
		cli.StringFlag{Name: "title", Usage: "title"},
		cli.IntFlag{Name: "year", Usage: "release year"},
		cli.IntFlag{Name: "tmdb-id", Usage: "metadata-service id"},
	)
	return cli.Command{
		Name:  list,
		Usage: fmt.Sprintf("Manages the %s", list),
		Subcommands: []cli.Command{
			{
				Name:  "show",
				Flags: flags,
				Action: func(c *cli.Context) error {
					return showList(c, list)
				},
			},
			{
				Name:  "add",
				Flags: refFlags,
				Action: func(c *cli.Context) error {
					return mutateList(c, list, true)
				},
			},
			{
				Name:  "remove",
				Flags: refFlags,
				Action: func(c *cli.Context) error {
					return mutateList(c, list, false)
				},
			},
		},
	}
}

func openStore(c *cli.Context) *state.Store {
	return state.NewStore(profileDir(c))
}

func listRef(c *cli.Context) (*media.TitleRef, error) {
	ref := &media.TitleRef{
		Kind:   media.KindMovie,
		Title:  c.String("title"),
		Year:   c.Int("year"),
		TmdbID: c.Int("tmdb-id"),
	}
	if !ref.Valid() {
		return nil, errors.New("either --title or --tmdb-id is required")
	}
	return ref, nil
}

func showList(c *cli.Context, list string) error {
	store := openStore(c)
	items := store.Watchlist()
	if list == "favorites" {
		items = store.Favorites()
	}
	printItems(items)
	return nil
}

func mutateList(c *cli.Context, list string, add bool) error {
	ref, err := listRef(c)
	if err != nil {
		return err
	}
	store := openStore(c)
	switch {
	case list == "favorites" && add:
		return store.AddToFavorites(ref)
	case list == "favorites":
		return store.RemoveFromFavorites(ref)
	case add:
		return store.AddToWatchlist(ref)
	default:
		return store.RemoveFromWatchlist(ref)
	}
}

func showHistory(c *cli.Context) error {
	printItems(openStore(c).History())
	return nil
}

func showResume(c *cli.Context) error {
	for _, it := range openStore(c).ResumePoints() {
		fmt.Printf("%s  %.1f%% (%.0fs of %.0fs)\n", it.Title, it.Percentage, it.Position, it.TotalTime)
	}
	return nil
}

func printItems(items []state.PersonalItem) {
	for _, it := range items {
		line := it.Title
		if it.Year != 0 {
			line = fmt.Sprintf("%s (%d)", line, it.Year)
		}
		if it.Season != 0 {
			line = fmt.Sprintf("%s S%02dE%02d", line, it.Season, it.Episode)
		}
		fmt.Println(line)
	}
}
