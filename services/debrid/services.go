package debrid

import (
	"context"
	"net/http"
	"time"

	"github.com/kinohive-io/kino-addon/services/alldebrid"
	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/premiumize"
	"github.com/kinohive-io/kino-addon/services/realdebrid"
)

const (
	realDebridBaseURL = "https://api.real-debrid.com/rest/1.0"
	premiumizeBaseURL = "https://www.premiumize.me/api"
	allDebridBaseURL  = "https://api.alldebrid.com/v4"

	allDebridAgent = "kino-addon"
)

// Known hoster domains per service, matched by suffix.
var (
	realDebridHosts = []string{
		"rapidgator.net", "1fichier.com", "uptobox.com", "turbobit.net",
		"nitroflare.com", "mega.nz", "filefactory.com", "hitfile.net",
	}
	premiumizeHosts = []string{
		"rapidgator.net", "1fichier.com", "turbobit.net", "nitroflare.com",
		"vidoza.net", "ddownload.com",
	}
	allDebridHosts = []string{
		"rapidgator.net", "1fichier.com", "uptobox.com", "mega.nz",
		"ddownload.com", "flashbit.cc",
	}
)

// NewServices builds the registered services in fixed priority order,
// keyed from host settings. Services without a key stay registered but
// report HasKey() == false.
func NewServices(settings host.Settings, cl *http.Client) []Service {
	return []Service{
		NewRealDebrid(cl, settings.GetString(host.DebridKeySetting("realdebrid"))),
		NewPremiumize(cl, settings.GetString(host.DebridKeySetting("premiumize"))),
		NewAllDebrid(cl, settings.GetString(host.DebridKeySetting("alldebrid"))),
	}
}

// RealDebrid adapts the Real-Debrid client to the Service interface.
type RealDebrid struct {
	key    string
	client *realdebrid.Client
}

var _ Service = (*RealDebrid)(nil)

func NewRealDebrid(cl *http.Client, key string) *RealDebrid {
	return &RealDebrid{
		key:    key,
		client: realdebrid.New(cl, realDebridBaseURL, key),
	}
}

func (s *RealDebrid) Name() string { return "realdebrid" }

func (s *RealDebrid) HasKey() bool { return s.key != "" }

func (s *RealDebrid) CheckHost(rawURL string) bool {
	return hostSupported(rawURL, realDebridHosts)
}

func (s *RealDebrid) Unrestrict(ctx context.Context, rawURL string) (string, error) {
	download, err := s.client.UnrestrictLink(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return download.Download, nil
}

func (s *RealDebrid) AccountInfo(ctx context.Context) (*Account, error) {
	user, err := s.client.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	return &Account{
		Service:    s.Name(),
		Username:   user.Username,
		Premium:    user.Type == "premium",
		Expiration: user.Expiration,
	}, nil
}

// Premiumize adapts the Premiumize client to the Service interface.
type Premiumize struct {
	key    string
	client *premiumize.Client
}

var _ Service = (*Premiumize)(nil)

func NewPremiumize(cl *http.Client, key string) *Premiumize {
	return &Premiumize{
		key:    key,
		client: premiumize.New(cl, premiumizeBaseURL, key),
	}
}

func (s *Premiumize) Name() string { return "premiumize" }

func (s *Premiumize) HasKey() bool { return s.key != "" }

func (s *Premiumize) CheckHost(rawURL string) bool {
	return hostSupported(rawURL, premiumizeHosts)
}

func (s *Premiumize) Unrestrict(ctx context.Context, rawURL string) (string, error) {
	items, err := s.client.DirectDL(ctx, rawURL)
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item.StreamLink != "" {
			return item.StreamLink, nil
		}
		if item.Link != "" {
			return item.Link, nil
		}
	}
	return "", nil
}

func (s *Premiumize) AccountInfo(ctx context.Context) (*Account, error) {
	info, err := s.client.GetAccountInfo(ctx)
	if err != nil {
		return nil, err
	}
	return &Account{
		Service:    s.Name(),
		Username:   info.CustomerID,
		Premium:    info.PremiumUntil > time.Now().Unix(),
		Expiration: time.Unix(info.PremiumUntil, 0).UTC().Format(time.RFC3339),
	}, nil
}

// AllDebrid adapts the AllDebrid client to the Service interface.
type AllDebrid struct {
	key    string
	client *alldebrid.Client
}

var _ Service = (*AllDebrid)(nil)

func NewAllDebrid(cl *http.Client, key string) *AllDebrid {
	return &AllDebrid{
		key:    key,
		client: alldebrid.New(cl, allDebridBaseURL, key, allDebridAgent),
	}
}

func (s *AllDebrid) Name() string { return "alldebrid" }

func (s *AllDebrid) HasKey() bool { return s.key != "" }

func (s *AllDebrid) CheckHost(rawURL string) bool {
	return hostSupported(rawURL, allDebridHosts)
}

func (s *AllDebrid) Unrestrict(ctx context.Context, rawURL string) (string, error) {
	unlocked, err := s.client.UnlockLink(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return unlocked.Link, nil
}

func (s *AllDebrid) AccountInfo(ctx context.Context) (*Account, error) {
	user, err := s.client.GetUser(ctx)
	if err != nil {
		return nil, err
	}
	return &Account{
		Service:    s.Name(),
		Username:   user.Username,
		Premium:    user.IsPremium,
		Expiration: time.Unix(user.PremiumUntil, 0).UTC().Format(time.RFC3339),
	}, nil
}
