package debrid

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/media"
)

// serviceTimeout bounds every outgoing debrid call.
const serviceTimeout = 10 * time.Second

// Gate filters sources against supported hosts and unrestricts links by
// trying configured services in registration order.
type Gate struct {
	services []Service
}

func NewGate(services ...Service) *Gate {
	return &Gate{services: services}
}

// Enabled reports whether at least one service has an API key.
func (g *Gate) Enabled() bool {
	for _, s := range g.services {
		if s.HasKey() {
			return true
		}
	}
	return false
}

// Services returns the configured services in priority order.
func (g *Gate) Services() []Service {
	out := make([]Service, 0, len(g.services))
	for _, s := range g.services {
		if s.HasKey() {
			out = append(out, s)
		}
	}
	return out
}

// CheckHost reports whether any configured service serves the URL's host.
func (g *Gate) CheckHost(rawURL string) bool {
	for _, s := range g.Services() {
		if s.CheckHost(rawURL) {
			return true
		}
	}
	return false
}

// Filter retains hoster sources whose host any configured service serves.
// Direct and torrent sources are not host-gated and pass through. When the
// gate is disabled the input is returned unchanged.
func (g *Gate) Filter(sources []media.SourceDescriptor) []media.SourceDescriptor {
	if !g.Enabled() {
		return sources
	}
	out := make([]media.SourceDescriptor, 0, len(sources))
	for _, src := range sources {
		if src.Kind != media.SourceHoster || g.CheckHost(src.URL) {
			out = append(out, src)
		}
	}
	return out
}

// Unrestrict tries every configured service in priority order and returns
// the first terminal URL. An empty string means no service could serve the
// link; network errors count as a miss for that service.
func (g *Gate) Unrestrict(ctx context.Context, rawURL string) string {
	for _, s := range g.Services() {
		if !s.CheckHost(rawURL) {
			continue
		}
		svcCtx, cancel := context.WithTimeout(ctx, serviceTimeout)
		terminal, err := s.Unrestrict(svcCtx, rawURL)
		cancel()
		if err != nil {
			log.WithError(err).
				WithField("service", s.Name()).
				Warn("debrid unrestrict failed, trying next service")
			continue
		}
		if terminal != "" {
			log.WithFields(log.Fields{
				"service": s.Name(),
				"url":     rawURL,
			}).Debug("unrestricted link")
			return terminal
		}
	}
	return ""
}
