package scraper

import (
	"strings"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/media"
)

const minURLLength = 10

var directExtensions = []string{".mp4", ".mkv", ".avi", ".webm", ".mov", ".m3u8", ".ts"}

// Normalizer turns raw plugin records into canonical SourceDescriptors,
// rejecting records that are unusable or below the quality floor.
type Normalizer struct {
	// QualityFloor drops sources strictly below it. Empty or unknown
	// means everything passes.
	QualityFloor media.Quality
}

// Normalize validates and coerces a raw record. The second return value is
// false when the record is rejected.
func (n *Normalizer) Normalize(raw RawSource) (*media.SourceDescriptor, bool) {
	u := strings.TrimSpace(raw.URL)
	if len(u) < minURLLength {
		return nil, false
	}

	provider := strings.TrimSpace(raw.Provider)
	if provider == "" {
		provider = "unknown"
	}

	quality := media.ParseQuality(raw.Quality)
	if quality == media.QualityUnknown {
		quality = media.ParseQuality(raw.Title + " " + raw.Provider)
	}
	if !quality.AtLeast(n.QualityFloor) {
		return nil, false
	}

	kind := sourceKind(raw, u)
	seeders := raw.Seeders
	if kind != media.SourceTorrent || seeders < 0 {
		seeders = 0
	}

	var size int64
	if raw.Size != "" {
		if bytes, err := humanize.ParseBytes(raw.Size); err == nil {
			size = int64(bytes)
		} else {
			log.WithField("size", raw.Size).Debug("unparsable source size")
		}
	}

	return &media.SourceDescriptor{
		URL:          u,
		Provider:     provider,
		Quality:      quality,
		Size:         size,
		Kind:         kind,
		Seeders:      seeders,
		Premium:      raw.Premium,
		DebridCached: raw.DebridCached,
	}, true
}

func sourceKind(raw RawSource, u string) media.SourceKind {
	switch media.SourceKind(raw.Kind) {
	case media.SourceDirect, media.SourceHoster, media.SourceTorrent:
		return media.SourceKind(raw.Kind)
	}
	if strings.HasPrefix(u, "magnet:") {
		return media.SourceTorrent
	}
	lower := strings.ToLower(u)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range directExtensions {
		if strings.HasSuffix(lower, ext) {
			return media.SourceDirect
		}
	}
	return media.SourceHoster
}
