// Package debrid gates sources through premium link-unrestricting
// services: a supported-host predicate plus unrestriction in fixed
// priority order.
package debrid

import (
	"context"
	"net/url"
	"strings"
)

// Account is the normalized account record across services.
type Account struct {
	Service    string
	Username   string
	Premium    bool
	Expiration string
}

// Service is one link-unrestricting provider.
type Service interface {
	Name() string
	// HasKey reports whether the service is configured with an API key.
	HasKey() bool
	// CheckHost reports whether the URL's host is served by this service.
	CheckHost(rawURL string) bool
	// Unrestrict resolves a hoster link into a terminal URL. An empty
	// string with nil error means the service could not serve the link.
	Unrestrict(ctx context.Context, rawURL string) (string, error)
	// AccountInfo fetches the current account state.
	AccountInfo(ctx context.Context) (*Account, error)
}

// hostSupported does a suffix match of the URL's hostname against a known
// domain list, so subdomains of a supported hoster pass.
func hostSupported(rawURL string, domains []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	h := strings.ToLower(u.Hostname())
	if h == "" {
		return false
	}
	for _, d := range domains {
		if h == d || strings.HasSuffix(h, "."+d) {
			return true
		}
	}
	return false
}
