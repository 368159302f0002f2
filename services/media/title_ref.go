package media

// Kind discriminates addressable content types.
type Kind string

const (
	KindMovie   Kind = "movie"
	KindShow    Kind = "tvshow"
	KindEpisode Kind = "episode"
)

func (k Kind) String() string {
	return string(k)
}

// TitleRef is the canonical identity of a movie, show or episode. It is
// constructed at play-intent and treated as read-only downstream.
type TitleRef struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	Year   int    `json:"year,omitempty"`
	TmdbID int    `json:"tmdb_id,omitempty"`
	ImdbID string `json:"imdb_id,omitempty"`
	TvdbID int    `json:"tvdb_id,omitempty"`

	// Episode only
	Show    *TitleRef `json:"show,omitempty"`
	Season  int       `json:"season,omitempty"`
	Episode int       `json:"episode,omitempty"`

	// Display fields carried through to the host list item
	Plot      string `json:"plot,omitempty"`
	PosterURL string `json:"poster_url,omitempty"`

	// Direct URLs embedded in catalog records, used as a last resort
	// when scraping produces nothing
	HlsURL   string `json:"m3u8_url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

// Valid reports whether the ref is addressable: either a title (with or
// without year) or a metadata-service ID must be present.
func (r *TitleRef) Valid() bool {
	if r == nil {
		return false
	}
	if r.Kind == KindEpisode {
		return r.Show != nil && r.Show.Valid() && r.Season >= 1 && r.Episode >= 1
	}
	return r.Title != "" || r.TmdbID != 0
}
