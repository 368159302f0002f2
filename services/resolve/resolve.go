// Package resolve turns a chosen source descriptor into a terminal
// playable URL.
package resolve

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/kinohive-io/kino-addon/services/debrid"
	"github.com/kinohive-io/kino-addon/services/media"
)

// TorrentBridge converts a magnet link into a playable handle. It is an
// optional external collaborator; without one, magnets do not resolve.
type TorrentBridge interface {
	ResolveMagnet(ctx context.Context, magnet string) (string, error)
}

// HostResolver extracts a direct URL from a hoster landing page. It is an
// optional external collaborator.
type HostResolver interface {
	ResolveHost(ctx context.Context, rawURL string) (string, error)
}

// Chain resolves descriptors in fixed order: torrent bridge for magnets,
// then debrid, then the generic host resolver, then direct passthrough.
// Every step is failure-isolated; an unresolvable source yields "".
type Chain struct {
	gate   *debrid.Gate
	bridge TorrentBridge
	hosts  HostResolver
}

func NewChain(gate *debrid.Gate, bridge TorrentBridge, hosts HostResolver) *Chain {
	return &Chain{gate: gate, bridge: bridge, hosts: hosts}
}

// Resolve produces the terminal URL for a source, or "" when no branch
// can serve it. It never panics into the caller.
func (c *Chain) Resolve(ctx context.Context, src *media.SourceDescriptor) (terminal string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("resolver panicked")
			terminal = ""
		}
	}()

	if strings.HasPrefix(src.URL, "magnet:") {
		if c.bridge == nil {
			log.Debug("magnet source but no torrent bridge registered")
			return ""
		}
		handle, err := c.bridge.ResolveMagnet(ctx, src.URL)
		if err != nil {
			log.WithError(err).Warn("torrent bridge failed to resolve magnet")
			return ""
		}
		return handle
	}

	if c.gate != nil && c.gate.Enabled() && c.gate.CheckHost(src.URL) {
		if terminal := c.gate.Unrestrict(ctx, src.URL); terminal != "" {
			return terminal
		}
	}

	if c.hosts != nil {
		resolved, err := c.hosts.ResolveHost(ctx, src.URL)
		if err != nil {
			log.WithError(err).
				WithField("url", src.URL).
				Debug("host resolver failed")
		} else if resolved != "" {
			return resolved
		}
	}

	if src.Kind == media.SourceDirect {
		return src.URL
	}
	return ""
}
