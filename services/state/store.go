// Package state is the file-backed personal store: watchlist, favorites,
// watch history and resume points, four JSON files under the addon
// profile directory.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/media"
)

const (
	watchlistFile = "watchlist.json"
	favoritesFile = "favorites.json"
	historyFile   = "watch_history.json"
	resumeFile    = "resume_points.json"

	historyMax = 1000
	resumeMax  = 100

	defaultWatchedThreshold = 0.9

	dateFormat = "2006-01-02 15:04:05"
)

// envelope wraps items on disk so the schema can evolve. Loaders also
// accept the legacy bare-array form.
type envelope struct {
	Version int            `json:"version"`
	Items   []PersonalItem `json:"items"`
}

// Store owns the four state files. It is driven from the single foreground
// request; no locking. Every write rewrites the file atomically.
type Store struct {
	dir              string
	watchedThreshold float64
	now              func() time.Time
}

// NewStore creates a store rooted at the addon profile directory.
func NewStore(dir string) *Store {
	return &Store{
		dir:              dir,
		watchedThreshold: defaultWatchedThreshold,
		now:              time.Now,
	}
}

// WithWatchedThreshold overrides the watched promotion threshold, a
// fraction in (0, 1].
func (s *Store) WithWatchedThreshold(t float64) *Store {
	if t > 0 && t <= 1 {
		s.watchedThreshold = t
	}
	return s
}

// Watchlist returns the watchlist records in order.
func (s *Store) Watchlist() []PersonalItem { return s.load(watchlistFile) }

// Favorites returns the favorites records in order.
func (s *Store) Favorites() []PersonalItem { return s.load(favoritesFile) }

// History returns the watch history, most recent first.
func (s *Store) History() []PersonalItem { return s.load(historyFile) }

// ResumePoints returns the saved resume records, most recent first.
func (s *Store) ResumePoints() []PersonalItem { return s.load(resumeFile) }

// AddToWatchlist appends the ref unless it is already present.
func (s *Store) AddToWatchlist(ref *media.TitleRef) error {
	return s.addUnique(watchlistFile, ref)
}

// RemoveFromWatchlist drops the ref by id.
func (s *Store) RemoveFromWatchlist(ref *media.TitleRef) error {
	return s.removeByID(watchlistFile, ItemID(ref))
}

// IsInWatchlist reports watchlist membership by id.
func (s *Store) IsInWatchlist(ref *media.TitleRef) bool {
	return s.contains(watchlistFile, ItemID(ref))
}

// AddToFavorites appends the ref unless it is already present.
func (s *Store) AddToFavorites(ref *media.TitleRef) error {
	return s.addUnique(favoritesFile, ref)
}

// RemoveFromFavorites drops the ref by id.
func (s *Store) RemoveFromFavorites(ref *media.TitleRef) error {
	return s.removeByID(favoritesFile, ItemID(ref))
}

// IsFavorite reports favorites membership by id.
func (s *Store) IsFavorite(ref *media.TitleRef) bool {
	return s.contains(favoritesFile, ItemID(ref))
}

// AddToHistory prepends the ref, removing any earlier entry with the same
// id and keeping at most historyMax records.
func (s *Store) AddToHistory(ref *media.TitleRef) error {
	items := s.load(historyFile)
	item := ItemFromRef(ref)
	item.WatchedDate = s.now().UTC().Format(dateFormat)

	out := make([]PersonalItem, 0, len(items)+1)
	out = append(out, item)
	for _, it := range items {
		if it.ID != item.ID {
			out = append(out, it)
		}
	}
	if len(out) > historyMax {
		out = out[:historyMax]
	}
	return s.save(historyFile, out)
}

// IsWatched reports history membership by id.
func (s *Store) IsWatched(ref *media.TitleRef) bool {
	return s.contains(historyFile, ItemID(ref))
}

// SaveResumePoint records playback position. Past the watched threshold
// the resume record is removed and the item promoted to history instead.
func (s *Store) SaveResumePoint(ref *media.TitleRef, position, total float64) error {
	if total <= 0 {
		return errors.New("total duration must be positive")
	}
	id := ItemID(ref)
	if position/total >= s.watchedThreshold {
		if err := s.removeByID(resumeFile, id); err != nil {
			return err
		}
		return s.AddToHistory(ref)
	}

	items := s.load(resumeFile)
	item := ItemFromRef(ref)
	item.Position = position
	item.TotalTime = total
	item.Percentage = position / total * 100
	item.Timestamp = s.now().Unix()

	out := make([]PersonalItem, 0, len(items)+1)
	out = append(out, item)
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	if len(out) > resumeMax {
		out = out[:resumeMax]
	}
	return s.save(resumeFile, out)
}

// GetResumePoint returns the resume record for the ref, or nil.
func (s *Store) GetResumePoint(ref *media.TitleRef) *PersonalItem {
	id := ItemID(ref)
	for _, it := range s.load(resumeFile) {
		if it.ID == id {
			item := it
			return &item
		}
	}
	return nil
}

// DeleteResumePoint drops the resume record for the ref.
func (s *Store) DeleteResumePoint(ref *media.TitleRef) error {
	return s.removeByID(resumeFile, ItemID(ref))
}

func (s *Store) addUnique(file string, ref *media.TitleRef) error {
	items := s.load(file)
	id := ItemID(ref)
	for _, it := range items {
		if it.ID == id {
			return nil
		}
	}
	item := ItemFromRef(ref)
	item.AddedDate = s.now().UTC().Format(dateFormat)
	return s.save(file, append(items, item))
}

func (s *Store) removeByID(file, id string) error {
	items := s.load(file)
	out := items[:0]
	removed := false
	for _, it := range items {
		if it.ID == id {
			removed = true
			continue
		}
		out = append(out, it)
	}
	if !removed {
		return nil
	}
	return s.save(file, out)
}

func (s *Store) contains(file, id string) bool {
	for _, it := range s.load(file) {
		if it.ID == id {
			return true
		}
	}
	return false
}

// load reads a state file. A missing file is an empty store; malformed
// content is logged and treated as empty rather than failing the request.
func (s *Store) load(file string) []PersonalItem {
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("file", file).Warn("failed to read state file")
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Version >= 1 {
		return env.Items
	}

	// Legacy bare-array form.
	var items []PersonalItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.WithError(err).WithField("file", file).Warn("malformed state file, ignoring")
		return nil
	}
	return items
}

// save rewrites a state file atomically (write-to-temp then rename).
func (s *Store) save(file string, items []PersonalItem) error {
	if items == nil {
		items = []PersonalItem{}
	}
	data, err := json.MarshalIndent(envelope{Version: 1, Items: items}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal state")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create profile dir")
	}
	if err := renameio.WriteFile(filepath.Join(s.dir, file), data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", file)
	}
	return nil
}
