// Package host defines the narrow interfaces through which the addon core
// talks to the media-center runtime. The core never imports a concrete
// host; adapters implement these interfaces on the outside.
package host

// Settings reads typed addon options from the host settings store.
type Settings interface {
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
}

// Recognized settings keys.
const (
	SettingScraperEnabled  = "scraper.enabled"
	SettingScraperTimeout  = "scraper.timeout_s"
	SettingMaxSources      = "scraper.max_sources"
	SettingQualityFilter   = "scraper.quality_filter"
	SettingAutoPlayBest    = "scraper.auto_play_best"
	SettingDedupSources    = "scraper.dedup_sources"
	SettingWatchedPercent  = "playback.watched_percent"
	settingDebridKeyPrefix = "debrid."
)

// DebridKeySetting returns the settings key holding the API key for the
// named debrid service.
func DebridKeySetting(service string) string {
	return settingDebridKeyPrefix + service + ".key"
}

// Dialogs is the host dialog shell.
type Dialogs interface {
	// Notify shows a transient notification.
	Notify(title, message string)
	// Confirm shows a yes/no dialog and reports the choice.
	Confirm(title, message string) bool
	// Select shows a blocking selection dialog and returns the chosen
	// index, or -1 when the user cancels.
	Select(title string, options []string) int
	// Progress opens a cancellable progress dialog.
	Progress(title string) ProgressDialog
}

// ProgressDialog is a host progress dialog opened by Dialogs.Progress.
type ProgressDialog interface {
	// Update refreshes the dialog message.
	Update(message string)
	// IsCancelled reports whether the user dismissed the dialog.
	IsCancelled() bool
	// Close dismisses the dialog.
	Close()
}

// ListItem is the host-side playable item handed to the resolved-URL sink
// or the directory sink.
type ListItem struct {
	Label     string
	Path      string
	Plot      string
	Year      int
	MediaType string
	PosterURL string

	// Streaming-manifest hints
	MimeType string
	Adaptive bool

	// Resume metadata, seconds; zero when absent
	ResumePosition float64
	TotalDuration  float64

	IsPlayable bool
}

// ResolvedSink receives the single resolved result of a play request.
// The host contract allows at most one invocation per request.
type ResolvedSink interface {
	SetResolved(item *ListItem, ok bool)
}

// DirectorySink receives browse listing items.
type DirectorySink interface {
	Add(item *ListItem)
	End(ok bool)
}

// Runtime aggregates the host capabilities the core consumes.
type Runtime interface {
	Settings() Settings
	Dialogs() Dialogs
	Resolved() ResolvedSink
	Directory() DirectorySink
	// ProfileDir is the addon's private writable directory.
	ProfileDir() string
}
