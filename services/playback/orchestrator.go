// Package playback binds the pipeline together: identity enrichment,
// scraping, filtering, ranking, selection, resolution and dispatch.
package playback

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/debrid"
	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/identity"
	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/resolve"
	"github.com/kinohive-io/kino-addon/services/scraper"
	"github.com/kinohive-io/kino-addon/services/state"
)

const (
	defaultScrapeTimeout = 30
	defaultMaxSources    = 25
)

// Orchestrator owns pipeline policy. It is constructed once at startup
// and drives each play request serially on the request goroutine.
type Orchestrator struct {
	runtime  host.Runtime
	identity *identity.Resolver
	plugins  []scraper.Plugin
	gate     *debrid.Gate
	chain    *resolve.Chain
	store    *state.Store
}

func NewOrchestrator(
	runtime host.Runtime,
	identityResolver *identity.Resolver,
	plugins []scraper.Plugin,
	gate *debrid.Gate,
	chain *resolve.Chain,
	store *state.Store,
) *Orchestrator {
	return &Orchestrator{
		runtime:  runtime,
		identity: identityResolver,
		plugins:  plugins,
		gate:     gate,
		chain:    chain,
		store:    store,
	}
}

// Play resolves and dispatches a play intent. It never propagates a
// failure into the host: every outcome ends in exactly one sink call.
func (o *Orchestrator) Play(ctx context.Context, ref *media.TitleRef) {
	logger := log.WithField("request_id", uuid.NewV4().String())
	dispatcher := NewDispatcher(o.runtime.Resolved(), o.runtime.Dialogs(), o.store)

	defer func() {
		if rec := recover(); rec != nil {
			logger.WithField("panic", rec).Error("play pipeline panicked")
			dispatcher.Fail(true, "Playback failed")
		}
	}()

	if !ref.Valid() {
		logger.Warn("play intent with unaddressable title ref")
		dispatcher.Fail(true, "Title cannot be played")
		return
	}
	logger.WithFields(log.Fields{
		"kind":  ref.Kind,
		"title": ref.Title,
	}).Info("play intent")

	ref = o.identity.Enrich(ctx, ref)

	resume, cancelled := o.resolveResume(ref)
	if cancelled {
		dispatcher.Fail(false, "")
		return
	}

	settings := o.runtime.Settings()
	if settings.GetBool(host.SettingScraperEnabled) && len(o.plugins) > 0 {
		sources, outcome := o.scrape(ctx, ref, logger)
		if outcome == scraper.DoneCancelled {
			dispatcher.Fail(false, "")
			return
		}
		if dedupEnabled(settings) {
			sources = scraper.Dedup(sources)
		}
		if o.gate.Enabled() {
			sources = o.gate.Filter(sources)
		}
		ranked := scraper.Rank(sources, maxSources(settings))

		if len(ranked) > 0 {
			chooser := NewChooser(o.runtime.Dialogs(), settings.GetBool(host.SettingAutoPlayBest))
			pick := chooser.Choose(ranked)
			if pick == nil {
				dispatcher.Fail(false, "")
				return
			}
			if terminal := o.chain.Resolve(ctx, pick); terminal != "" {
				dispatcher.Dispatch(terminal, ref, resume)
				return
			}
			logger.WithField("url", pick.URL).Warn("selected source did not resolve")
		}
	}

	// Embedded catalog URLs are the last resort.
	for _, direct := range []string{ref.HlsURL, ref.VideoURL} {
		if direct != "" {
			dispatcher.Dispatch(direct, ref, resume)
			return
		}
	}

	logger.Info("no playable sources")
	dispatcher.Fail(true, "No sources found")
}

// resolveResume loads the resume point and prompts the user. The second
// return value reports user cancellation of the prompt.
func (o *Orchestrator) resolveResume(ref *media.TitleRef) (*state.PersonalItem, bool) {
	resume := o.store.GetResumePoint(ref)
	if resume == nil {
		return nil, false
	}
	options := []string{
		fmt.Sprintf("Resume from %s", formatPosition(resume.Position)),
		"Start over",
	}
	switch o.runtime.Dialogs().Select("Resume playback", options) {
	case 0:
		return resume, false
	case 1:
		if err := o.store.DeleteResumePoint(ref); err != nil {
			log.WithError(err).Warn("failed to delete resume point")
		}
		return nil, false
	default:
		return nil, true
	}
}

func (o *Orchestrator) scrape(ctx context.Context, ref *media.TitleRef, logger *log.Entry) ([]media.SourceDescriptor, scraper.Outcome) {
	settings := o.runtime.Settings()
	runner := scraper.NewRunner(o.plugins, &scraper.Normalizer{
		QualityFloor: qualityFloor(settings),
	})

	progress := o.runtime.Dialogs().Progress("Searching for sources")
	defer progress.Close()

	timeout := settings.GetInt(host.SettingScraperTimeout)
	if timeout <= 0 {
		timeout = defaultScrapeTimeout
	}
	sources, outcome := runner.Scrape(ctx, ref, scraper.Options{
		Timeout: time.Duration(timeout) * time.Second,
		Cancel:  progressToken{progress},
		Progress: func(count int) {
			progress.Update(fmt.Sprintf("%d sources found", count))
		},
	})
	logger.WithFields(log.Fields{
		"sources": len(sources),
		"outcome": string(outcome),
	}).Info("scrape finished")
	return sources, outcome
}

// progressToken adapts the host progress dialog to the runner's cancel
// token.
type progressToken struct {
	p host.ProgressDialog
}

func (t progressToken) Cancelled() bool {
	return t.p.IsCancelled()
}

func qualityFloor(settings host.Settings) media.Quality {
	switch settings.GetString(host.SettingQualityFilter) {
	case "1080p":
		return media.Quality1080p
	case "720p":
		return media.Quality720p
	case "480p":
		return media.Quality480p
	default:
		return media.QualityUnknown
	}
}

func maxSources(settings host.Settings) int {
	if n := settings.GetInt(host.SettingMaxSources); n > 0 {
		return n
	}
	return defaultMaxSources
}

// dedupEnabled defaults to on; only an explicit "false" disables it.
func dedupEnabled(settings host.Settings) bool {
	return settings.GetString(host.SettingDedupSources) != "false"
}

func formatPosition(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
