package playback

import (
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/state"
)

const hlsMimeType = "application/vnd.apple.mpegurl"

// Dispatcher hands the terminal URL to the host as the single resolved
// result of the play request. One instance serves one play-intent; the
// host sink is invoked at most once.
type Dispatcher struct {
	sink    host.ResolvedSink
	dialogs host.Dialogs
	store   *state.Store
	done    bool
}

func NewDispatcher(sink host.ResolvedSink, dialogs host.Dialogs, store *state.Store) *Dispatcher {
	return &Dispatcher{sink: sink, dialogs: dialogs, store: store}
}

// Done reports whether the request was already resolved either way.
func (d *Dispatcher) Done() bool {
	return d.done
}

// Dispatch emits the successful resolution with manifest hints and resume
// metadata, then records the title in watch history.
func (d *Dispatcher) Dispatch(terminalURL string, ref *media.TitleRef, resume *state.PersonalItem) {
	if d.done {
		log.Error("duplicate dispatch attempt ignored")
		return
	}
	d.done = true

	item := listItem(ref)
	item.Path = terminalURL
	item.IsPlayable = true
	if isHLS(terminalURL) {
		item.MimeType = hlsMimeType
		item.Adaptive = true
	}
	if resume != nil && resume.Position > 0 {
		item.ResumePosition = resume.Position
		item.TotalDuration = resume.TotalTime
	}

	d.sink.SetResolved(item, true)

	if err := d.store.AddToHistory(ref); err != nil {
		log.WithError(err).Warn("failed to record watch history")
	}
}

// Fail emits the failed resolution. The notification is suppressed for
// user cancellation.
func (d *Dispatcher) Fail(notify bool, message string) {
	if d.done {
		return
	}
	d.done = true
	d.sink.SetResolved(nil, false)
	if notify {
		if message == "" {
			message = "No playable sources found"
		}
		d.dialogs.Notify("Playback", message)
	}
}

func listItem(ref *media.TitleRef) *host.ListItem {
	label := ref.Title
	mediaType := "movie"
	if ref.Kind == media.KindEpisode {
		mediaType = "episode"
		show := ""
		if ref.Show != nil {
			show = ref.Show.Title
		}
		if label == "" {
			label = fmt.Sprintf("%s S%02dE%02d", show, ref.Season, ref.Episode)
		} else {
			label = fmt.Sprintf("%s S%02dE%02d - %s", show, ref.Season, ref.Episode, ref.Title)
		}
	}
	return &host.ListItem{
		Label:     label,
		Plot:      ref.Plot,
		Year:      ref.Year,
		MediaType: mediaType,
		PosterURL: ref.PosterURL,
	}
}

// isHLS reports whether the URL points at an HLS manifest: the path ends
// with .m3u8 or the URL carries a manifest/playlist m3u8 marker.
func isHLS(rawURL string) bool {
	if strings.Contains(rawURL, "manifest.m3u8") || strings.Contains(rawURL, "/playlist.m3u8") {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(rawURL, ".m3u8")
	}
	return strings.HasSuffix(u.Path, ".m3u8")
}
