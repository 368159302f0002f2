package tmdb

// Item is a single movie or show record inside a paged listing.
type Item struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
}

// DisplayTitle returns the movie title or show name, whichever is set.
func (i *Item) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return i.Name
}

// PagedResponse is the common paged listing envelope.
type PagedResponse struct {
	Page         int    `json:"page"`
	Results      []Item `json:"results"`
	TotalPages   int    `json:"total_pages"`
	TotalResults int    `json:"total_results"`
}

// ExternalIDs cross-references a record in other metadata services.
type ExternalIDs struct {
	ImdbID string `json:"imdb_id,omitempty"`
	TvdbID int    `json:"tvdb_id,omitempty"`
}

// SeasonSummary appears inside show details.
type SeasonSummary struct {
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	Name         string `json:"name,omitempty"`
	PosterPath   string `json:"poster_path,omitempty"`
	AirDate      string `json:"air_date,omitempty"`
}

// CastMember is one entry of the credits block.
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
}

// Details is the full record of a movie or a show.
type Details struct {
	Item
	Runtime          int             `json:"runtime,omitempty"`
	EpisodeRunTime   []int           `json:"episode_run_time,omitempty"`
	Genres           []Genre         `json:"genres,omitempty"`
	Seasons          []SeasonSummary `json:"seasons,omitempty"`
	NumberOfSeasons  int             `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int             `json:"number_of_episodes,omitempty"`
	ExternalIDs      *ExternalIDs    `json:"external_ids,omitempty"`
	Credits          *Credits        `json:"credits,omitempty"`
}

// Genre is a named genre tag.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Credits is the cast block of a details record.
type Credits struct {
	Cast []CastMember `json:"cast,omitempty"`
}

// Episode is a single episode record.
type Episode struct {
	ID            int    `json:"id"`
	Name          string `json:"name,omitempty"`
	Overview      string `json:"overview,omitempty"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date,omitempty"`
	StillPath     string `json:"still_path,omitempty"`
}

// Season is a full season record with its episodes.
type Season struct {
	ID           int       `json:"id"`
	Name         string    `json:"name,omitempty"`
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes,omitempty"`
}
