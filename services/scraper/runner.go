package scraper

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/media"
)

// Outcome reports how a scrape run terminated.
type Outcome string

const (
	DoneFull      Outcome = "full"
	DoneTimeout   Outcome = "timeout"
	DoneCancelled Outcome = "cancelled"
)

// pollInterval bounds how often the runner checks the cancel token and
// fires the progress callback.
const pollInterval = 250 * time.Millisecond

// Options configure a single scrape run.
type Options struct {
	// Timeout is the overall wall-clock budget.
	Timeout time.Duration
	// Cancel is polled during the run; nil means not cancellable.
	Cancel CancelToken
	// Progress, when set, receives the accumulated source count.
	Progress func(count int)
}

// Runner fans a title out over every registered plugin concurrently,
// normalizes arriving records, and returns whatever accumulated when all
// plugins finish, the budget expires or the user cancels.
type Runner struct {
	plugins []Plugin
	norm    *Normalizer
}

func NewRunner(plugins []Plugin, norm *Normalizer) *Runner {
	if norm == nil {
		norm = &Normalizer{}
	}
	return &Runner{plugins: plugins, norm: norm}
}

// Plugins returns the registered plugin count.
func (r *Runner) Plugins() int {
	return len(r.plugins)
}

// Scrape runs the fan-out. It never returns an error: misbehaving plugins
// are dropped and the accumulated result is returned regardless.
func (r *Runner) Scrape(ctx context.Context, ref *media.TitleRef, opts Options) ([]media.SourceDescriptor, Outcome) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	active := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		if p.Supports(ref.Kind) {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return nil, DoneFull
	}

	// Workers inherit the run deadline so well-behaved plugins unblock
	// on their own; the buffered channel lets abandoned ones finish
	// without wedging anything.
	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	results := make(chan []media.SourceDescriptor, len(active))
	for _, p := range active {
		go r.runPlugin(runCtx, p, ref, results)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(opts.Timeout)
	defer deadline.Stop()

	report := func(n int) {
		if opts.Progress != nil {
			opts.Progress(n)
		}
	}

	var acc []media.SourceDescriptor
	pending := len(active)
	for pending > 0 {
		select {
		case batch := <-results:
			pending--
			acc = append(acc, batch...)
			report(len(acc))
		case <-ticker.C:
			if opts.Cancel != nil && opts.Cancel.Cancelled() {
				log.WithField("accumulated", len(acc)).Debug("scrape cancelled by user")
				return acc, DoneCancelled
			}
			report(len(acc))
		case <-deadline.C:
			log.WithFields(log.Fields{
				"accumulated": len(acc),
				"pending":     pending,
			}).Debug("scrape budget expired")
			return acc, DoneTimeout
		case <-ctx.Done():
			return acc, DoneCancelled
		}
	}
	return acc, DoneFull
}

// runPlugin executes one plugin, normalizes its records and reports the
// batch. A panicking plugin is dropped like a failing one.
func (r *Runner) runPlugin(ctx context.Context, p Plugin, ref *media.TitleRef, results chan<- []media.SourceDescriptor) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithFields(log.Fields{
				"plugin": p.Name(),
				"panic":  rec,
			}).Warn("scraper plugin panicked, dropping results")
			results <- nil
		}
	}()

	raw, err := p.Scrape(ctx, ref)
	if err != nil {
		log.WithError(err).
			WithField("plugin", p.Name()).
			Warn("scraper plugin failed, dropping results")
		results <- nil
		return
	}

	out := make([]media.SourceDescriptor, 0, len(raw))
	for _, rs := range raw {
		sd, ok := r.norm.Normalize(rs)
		if !ok {
			continue
		}
		if sd.Provider == "unknown" {
			sd.Provider = p.Name()
		}
		out = append(out, *sd)
	}
	results <- out
}
