// Package scraper discovers candidate stream sources for a title by
// fanning out over registered provider plugins under a wall-clock budget.
package scraper

import (
	"context"

	"github.com/kinohive-io/kino-addon/services/media"
)

// RawSource is the loose record a plugin returns before normalization.
// Only URL is required; everything else is best-effort metadata.
type RawSource struct {
	URL          string
	Title        string
	Provider     string
	Quality      string
	Size         string
	Kind         string
	Seeders      int
	Premium      bool
	DebridCached bool
}

// Plugin is a single stream provider. Implementations are expected to
// honor the context deadline; the runner abandons them if they do not.
type Plugin interface {
	Name() string
	Supports(kind media.Kind) bool
	Scrape(ctx context.Context, ref *media.TitleRef) ([]RawSource, error)
}

// CancelToken is polled by the runner to detect user cancellation.
type CancelToken interface {
	Cancelled() bool
}
