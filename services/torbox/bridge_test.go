package torbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testMagnet = "magnet:?xt=urn:btih:C9E15763F722F23E98A29DECDFAE341B98D53056&dn=test"

func TestInfoHash(t *testing.T) {
	hash, err := infoHash(testMagnet)
	if err != nil {
		t.Fatal(err)
	}
	if hash != "c9e15763f722f23e98a29decdfae341b98d53056" {
		t.Errorf("hash = %q", hash)
	}
	if _, err := infoHash("https://example.com/file.torrent"); err == nil {
		t.Error("expected error for non-magnet link")
	}
	if _, err := infoHash("magnet:?dn=nohash"); err == nil {
		t.Error("expected error for magnet without info hash")
	}
}

func TestLargestVideoFile(t *testing.T) {
	files := []File{
		{ID: 1, Name: "sample.mp4", Size: 50},
		{ID: 2, Name: "movie.mkv", Size: 5000},
		{ID: 3, Name: "readme.txt", Size: 9000},
	}
	file, ok := largestVideoFile(files)
	if !ok || file.ID != 2 {
		t.Errorf("file = %+v ok = %v, want the large mkv", file, ok)
	}
	if _, ok := largestVideoFile([]File{{Name: "notes.nfo"}}); ok {
		t.Error("non-video files should not match")
	}
}

func TestResolveMagnetCachedFlow(t *testing.T) {
	hash := "c9e15763f722f23e98a29decdfae341b98d53056"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		write := func(data any) {
			raw, _ := json.Marshal(data)
			json.NewEncoder(w).Encode(map[string]any{"success": true, "data": json.RawMessage(raw)})
		}
		switch r.URL.Path {
		case "/v1/api/torrents/checkcached":
			write(map[string]CachedTorrent{hash: {Hash: hash, Name: "test"}})
		case "/v1/api/torrents/createtorrent":
			write(CreatedTorrent{TorrentID: 7, Hash: hash})
		case "/v1/api/torrents/mylist":
			write([]Torrent{{
				ID:              7,
				Hash:            hash,
				DownloadPresent: true,
				Files: []File{
					{ID: 1, Name: "movie.mkv", Size: 5000},
					{ID: 2, Name: "sample.mp4", Size: 50},
				},
			}})
		case "/v1/api/torrents/requestdl":
			if r.URL.Query().Get("torrent_id") != "7" || r.URL.Query().Get("file_id") != "1" {
				t.Errorf("requestdl params = %v", r.URL.Query())
			}
			write("https://store.torbox.app/dl/movie.mkv")
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	b := NewBridge(NewClient(srv.Client(), srv.URL, "token"))
	link, err := b.ResolveMagnet(context.Background(), testMagnet)
	if err != nil {
		t.Fatal(err)
	}
	if link != "https://store.torbox.app/dl/movie.mkv" {
		t.Errorf("link = %q", link)
	}
}

func TestResolveMagnetNotCached(t *testing.T) {
	created := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/api/torrents/createtorrent" {
			created = true
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]CachedTorrent{}})
	}))
	defer srv.Close()

	b := NewBridge(NewClient(srv.Client(), srv.URL, "token"))
	if _, err := b.ResolveMagnet(context.Background(), testMagnet); err == nil {
		t.Fatal("expected error for uncached torrent")
	}
	if created {
		t.Error("uncached torrent should not be added to the cloud")
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "detail": "invalid token"})
	}))
	defer srv.Close()

	cl := NewClient(srv.Client(), srv.URL, "bad")
	if _, err := cl.GetUser(context.Background()); err == nil {
		t.Fatal("expected API error")
	}
}
