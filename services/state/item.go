package state

import (
	"fmt"
	"strings"

	"github.com/kinohive-io/kino-addon/services/media"
)

// PersonalItem is one record of the personal stores. Field names are part
// of the on-disk format and must stay stable across versions.
type PersonalItem struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Year      int    `json:"year,omitempty"`
	Plot      string `json:"plot,omitempty"`
	PosterURL string `json:"poster_url,omitempty"`
	TmdbID    int    `json:"tmdb_id,omitempty"`
	ImdbID    string `json:"imdb_id,omitempty"`

	AddedDate   string `json:"added_date,omitempty"`
	WatchedDate string `json:"watched_date,omitempty"`

	// Resume fields, seconds
	Position   float64 `json:"position,omitempty"`
	TotalTime  float64 `json:"total_time,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
	Timestamp  int64   `json:"timestamp,omitempty"`

	// Episode fields
	ShowTmdbID int `json:"show_tmdb_id,omitempty"`
	Season     int `json:"season,omitempty"`
	Episode    int `json:"episode,omitempty"`
}

// ItemID derives the deterministic store id of a ref.
func ItemID(ref *media.TitleRef) string {
	switch ref.Kind {
	case media.KindEpisode:
		showID := 0
		if ref.Show != nil {
			showID = ref.Show.TmdbID
		}
		return fmt.Sprintf("episode_%d_%d_%d", showID, ref.Season, ref.Episode)
	case media.KindShow:
		return "show_" + refSlug(ref)
	default:
		return "movie_" + refSlug(ref)
	}
}

func refSlug(ref *media.TitleRef) string {
	if ref.TmdbID != 0 {
		return fmt.Sprintf("%d", ref.TmdbID)
	}
	return strings.ReplaceAll(ref.Title, " ", "_")
}

// ItemFromRef builds a store record kernel from a ref.
func ItemFromRef(ref *media.TitleRef) PersonalItem {
	item := PersonalItem{
		ID:        ItemID(ref),
		Type:      ref.Kind.String(),
		Title:     ref.Title,
		Year:      ref.Year,
		Plot:      ref.Plot,
		PosterURL: ref.PosterURL,
		TmdbID:    ref.TmdbID,
		ImdbID:    ref.ImdbID,
	}
	if ref.Kind == media.KindEpisode {
		if ref.Show != nil {
			item.ShowTmdbID = ref.Show.TmdbID
			if item.Title == "" {
				item.Title = ref.Show.Title
			}
		}
		item.Season = ref.Season
		item.Episode = ref.Episode
	}
	return item
}
