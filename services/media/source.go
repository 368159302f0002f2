package media

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Quality is the closed stream-quality enum.
type Quality string

const (
	Quality4K      Quality = "4K"
	Quality1080p   Quality = "1080p"
	Quality720p    Quality = "720p"
	Quality480p    Quality = "480p"
	QualitySD      Quality = "SD"
	QualityUnknown Quality = "unknown"
)

// qualityTokens is checked in fixed order so that a label carrying
// conflicting tokens ("HDCAM 1080p") resolves to the highest match.
var qualityTokens = []struct {
	quality Quality
	re      *regexp.Regexp
}{
	{Quality4K, regexp.MustCompile(`(?i)\b(4k|2160p|uhd)\b`)},
	{Quality1080p, regexp.MustCompile(`(?i)\b(1080p|fhd|fullhd)\b`)},
	{Quality720p, regexp.MustCompile(`(?i)\b(720p|hd)\b`)},
	{Quality480p, regexp.MustCompile(`(?i)\b(480p|sd)\b`)},
}

// ParseQuality coerces an arbitrary quality label to the closed enum.
// Unrecognized non-empty labels map to SD, empty to unknown.
func ParseQuality(s string) Quality {
	if strings.TrimSpace(s) == "" {
		return QualityUnknown
	}
	for _, t := range qualityTokens {
		if t.re.MatchString(s) {
			return t.quality
		}
	}
	return QualitySD
}

// Score returns the ranking contribution of the quality.
func (q Quality) Score() int {
	switch q {
	case Quality4K:
		return 100
	case Quality1080p:
		return 80
	case Quality720p:
		return 60
	case Quality480p:
		return 40
	default:
		return 20
	}
}

// AtLeast reports whether q is at or above the floor. SD and unknown pass
// only when no floor is set.
func (q Quality) AtLeast(floor Quality) bool {
	if floor == "" || floor == QualityUnknown {
		return true
	}
	if q == QualitySD || q == QualityUnknown {
		return false
	}
	return q.Score() >= floor.Score()
}

// SourceKind discriminates how a source URL must be handled downstream.
type SourceKind string

const (
	SourceDirect  SourceKind = "direct"
	SourceHoster  SourceKind = "hoster"
	SourceTorrent SourceKind = "torrent"
)

// SourceDescriptor is one candidate stream produced by a scraper plugin
// after normalization.
type SourceDescriptor struct {
	URL          string     `json:"url"`
	Provider     string     `json:"provider"`
	Quality      Quality    `json:"quality"`
	Size         int64      `json:"size,omitempty"`
	Kind         SourceKind `json:"kind"`
	Seeders      int        `json:"seeders,omitempty"`
	Premium      bool       `json:"premium,omitempty"`
	DebridCached bool       `json:"debrid_cached,omitempty"`
}

// Label renders the chooser line: [<quality>] <provider> (<size>) [tags].
func (s *SourceDescriptor) Label() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", s.Quality, s.Provider)
	if s.Size > 0 {
		fmt.Fprintf(&b, " (%s)", humanize.IBytes(uint64(s.Size)))
	}
	if s.DebridCached {
		b.WriteString(" [cached]")
	} else if s.Premium {
		b.WriteString(" [premium]")
	}
	if s.Kind == SourceTorrent && s.Seeders > 0 {
		fmt.Fprintf(&b, " [%d seeders]", s.Seeders)
	}
	return b.String()
}
