package scraper

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/kinohive-io/kino-addon/services/media"
)

const (
	premiumBonus    = 50
	directnessBonus = 30
	seederBonusCap  = 50
)

// Score computes the deterministic ranking score of a source.
func Score(s *media.SourceDescriptor) int {
	score := s.Quality.Score()
	if isPremium(s) {
		score += premiumBonus
	}
	if s.Kind == media.SourceDirect {
		score += directnessBonus
	}
	if s.Kind == media.SourceTorrent {
		score += lo.Min([]int{s.Seeders, seederBonusCap})
	}
	return score
}

func isPremium(s *media.SourceDescriptor) bool {
	if s.Premium || s.DebridCached {
		return true
	}
	p := strings.ToLower(s.Provider)
	return strings.Contains(p, "premium") || strings.Contains(p, "debrid") || strings.Contains(p, "cached")
}

// Dedup removes sources sharing a URL, keeping the first occurrence.
func Dedup(sources []media.SourceDescriptor) []media.SourceDescriptor {
	return lo.UniqBy(sources, func(s media.SourceDescriptor) string {
		return s.URL
	})
}

// Rank orders sources by descending score, stable for equal scores, and
// truncates to max when max > 0.
func Rank(sources []media.SourceDescriptor, max int) []media.SourceDescriptor {
	out := make([]media.SourceDescriptor, len(sources))
	copy(out, sources)
	sort.SliceStable(out, func(i, j int) bool {
		return Score(&out[i]) > Score(&out[j])
	})
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
