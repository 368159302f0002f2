package torbox

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/samber/lo"
)

const (
	readyTimeout = 30 * time.Second
	readyPoll    = 2 * time.Second
)

var videoExtensions = []string{".mp4", ".mkv", ".avi", ".webm", ".mov", ".ts"}

// Bridge turns a magnet link into a direct download URL. Only instantly
// available torrents are served; anything needing a real download is
// rejected so playback never blocks on a transfer.
type Bridge struct {
	cl *Client
}

func NewBridge(cl *Client) *Bridge {
	return &Bridge{cl: cl}
}

// ResolveMagnet resolves a cached magnet into a direct URL for its
// largest video file.
func (b *Bridge) ResolveMagnet(ctx context.Context, magnet string) (string, error) {
	hash, err := infoHash(magnet)
	if err != nil {
		return "", err
	}

	cached, err := b.cl.CheckCached(ctx, []string{hash})
	if err != nil {
		return "", err
	}
	if _, ok := cached[hash]; !ok {
		return "", errors.Errorf("torrent %s is not cached", hash)
	}

	created, err := b.cl.CreateTorrent(ctx, magnet)
	if err != nil {
		return "", err
	}

	torrent, err := b.waitReady(ctx, created.TorrentID)
	if err != nil {
		return "", err
	}

	file, ok := largestVideoFile(torrent.Files)
	if !ok {
		return "", errors.Errorf("torrent %s has no video files", hash)
	}
	return b.cl.RequestDownloadLink(ctx, torrent.ID, file.ID)
}

// waitReady polls the torrent list until the cached torrent is served.
func (b *Bridge) waitReady(ctx context.Context, torrentID int) (*Torrent, error) {
	deadline := time.Now().Add(readyTimeout)
	for {
		torrents, err := b.cl.ListTorrents(ctx)
		if err != nil {
			return nil, err
		}
		for i := range torrents {
			t := &torrents[i]
			if t.ID != torrentID {
				continue
			}
			if t.DownloadPresent || t.DownloadFinished {
				return t, nil
			}
			log.WithFields(log.Fields{
				"torrent_id": torrentID,
				"status":     t.Status,
			}).Debug("waiting for cached torrent")
		}
		if time.Now().After(deadline) {
			return nil, errors.Errorf("torrent %d not ready within %v", torrentID, readyTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(readyPoll):
		}
	}
}

func largestVideoFile(files []File) (File, bool) {
	videos := lo.Filter(files, func(f File, _ int) bool {
		ext := strings.ToLower(filepath.Ext(f.Name))
		return lo.Contains(videoExtensions, ext)
	})
	if len(videos) == 0 {
		return File{}, false
	}
	return lo.MaxBy(videos, func(a, b File) bool {
		return a.Size > b.Size
	}), true
}

// infoHash extracts the btih hash from a magnet link.
func infoHash(magnet string) (string, error) {
	u, err := url.Parse(magnet)
	if err != nil || u.Scheme != "magnet" {
		return "", errors.New("not a magnet link")
	}
	for _, xt := range u.Query()["xt"] {
		if strings.HasPrefix(xt, "urn:btih:") {
			return strings.ToLower(strings.TrimPrefix(xt, "urn:btih:")), nil
		}
	}
	return "", errors.New("magnet link carries no info hash")
}
