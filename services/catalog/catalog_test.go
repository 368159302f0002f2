package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kinohive-io/kino-addon/services/media"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewWithBaseURL(srv.Client(), srv.URL)
}

func TestMoviesFetch(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[
			{"title":"Inception","year":2010,"tmdb_id":27205,"m3u8_url":"https://cdn.example/inception/manifest.m3u8"},
			{"title":"Heat","year":1995,"video_url":"https://cdn.example/heat.mp4"}
		]`))
	})

	records, err := c.Movies(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/movies.json" {
		t.Errorf("path = %q", gotPath)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Title != "Inception" || records[0].M3u8URL == "" {
		t.Errorf("first record = %+v", records[0])
	}
}

func TestTitlelessRecordsDropped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"title":"Heat","year":1995},{"year":2001},{"title":""}]`))
	})

	records, err := c.Movies(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Title != "Heat" {
		t.Errorf("records = %+v, want only the titled one", records)
	}
}

func TestGenrePath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[]`))
	})

	if _, err := c.Genre(context.Background(), "thriller"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/genres/thriller.json" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestHTTPErrorSurfaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	if _, err := c.Movies(context.Background()); err == nil {
		t.Fatal("expected error on 404 response")
	}
}

func TestMalformedJSONSurfaces(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	})
	if _, err := c.TVShows(context.Background()); err == nil {
		t.Fatal("expected error on malformed payload")
	}
}

func TestRecordTitleRefCarriesPlaybackURLs(t *testing.T) {
	r := Record{
		Title:    "Inception",
		Year:     2010,
		TmdbID:   27205,
		M3u8URL:  "https://cdn.example/inception/manifest.m3u8",
		VideoURL: "https://cdn.example/inception.mp4",
	}
	ref := r.TitleRef(media.KindMovie)
	if ref.Kind != media.KindMovie || ref.Title != "Inception" {
		t.Errorf("ref = %+v", ref)
	}
	if ref.HlsURL != r.M3u8URL || ref.VideoURL != r.VideoURL {
		t.Errorf("playback URLs lost: %+v", ref)
	}
	if !ref.Valid() {
		t.Error("catalog ref should be addressable")
	}
}
