package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/tmdb"
)

func newResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(tmdb.NewWithEndpoint(srv.Client(), srv.URL, "test-key"))
}

func TestEnrichMovie(t *testing.T) {
	var gotPath string
	r := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.Write([]byte(`{"imdb_id":"tt1375666"}`))
	})

	ref := &media.TitleRef{Kind: media.KindMovie, Title: "Inception", TmdbID: 27205}
	got := r.Enrich(context.Background(), ref)

	if gotPath != "/movie/27205/external_ids" {
		t.Errorf("path = %q", gotPath)
	}
	if got.ImdbID != "tt1375666" {
		t.Errorf("ImdbID = %q", got.ImdbID)
	}
	if ref.ImdbID != "" {
		t.Error("input ref mutated")
	}
}

func TestEnrichEpisodeThroughShow(t *testing.T) {
	var gotPath string
	r := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		gotPath = req.URL.Path
		w.Write([]byte(`{"imdb_id":"tt0903747","tvdb_id":81189}`))
	})

	ref := &media.TitleRef{
		Kind:    media.KindEpisode,
		Season:  5,
		Episode: 14,
		Show:    &media.TitleRef{Kind: media.KindShow, Title: "Breaking Bad", TmdbID: 1396},
	}
	got := r.Enrich(context.Background(), ref)

	if gotPath != "/tv/1396/external_ids" {
		t.Errorf("path = %q", gotPath)
	}
	if got.Show == nil || got.Show.ImdbID != "tt0903747" || got.Show.TvdbID != 81189 {
		t.Errorf("show = %+v", got.Show)
	}
}

func TestEnrichSkipsWhenAlreadyComplete(t *testing.T) {
	called := false
	r := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		called = true
	})

	ref := &media.TitleRef{Kind: media.KindMovie, Title: "Heat", TmdbID: 949, ImdbID: "tt0113277", TvdbID: 1}
	r.Enrich(context.Background(), ref)

	if called {
		t.Error("metadata service called although IDs are complete")
	}
}

func TestEnrichNeverFails(t *testing.T) {
	r := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	ref := &media.TitleRef{Kind: media.KindMovie, Title: "Heat", TmdbID: 949}
	got := r.Enrich(context.Background(), ref)
	if got != ref {
		t.Error("Enrich should return the original ref on upstream failure")
	}
}

func TestEnrichNoMetadataID(t *testing.T) {
	called := false
	r := newResolver(t, func(w http.ResponseWriter, req *http.Request) {
		called = true
	})
	ref := &media.TitleRef{Kind: media.KindMovie, Title: "Obscure Film"}
	if got := r.Enrich(context.Background(), ref); got != ref {
		t.Error("ref without a metadata ID should pass through")
	}
	if called {
		t.Error("metadata service called without an ID")
	}
}
