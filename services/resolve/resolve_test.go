package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kinohive-io/kino-addon/services/debrid"
	"github.com/kinohive-io/kino-addon/services/media"
)

type mockBridge struct {
	handle string
	err    error
	panics bool
	calls  int
}

func (m *mockBridge) ResolveMagnet(ctx context.Context, magnet string) (string, error) {
	m.calls++
	if m.panics {
		panic("bridge blew up")
	}
	return m.handle, m.err
}

type mockHosts struct {
	resolved string
	err      error
	calls    int
}

func (m *mockHosts) ResolveHost(ctx context.Context, rawURL string) (string, error) {
	m.calls++
	return m.resolved, m.err
}

type mockDebrid struct {
	hosts    []string
	terminal string
}

func (m *mockDebrid) Name() string { return "mock" }

func (m *mockDebrid) HasKey() bool { return true }

func (m *mockDebrid) CheckHost(rawURL string) bool {
	for _, h := range m.hosts {
		if strings.Contains(rawURL, h) {
			return true
		}
	}
	return false
}

func (m *mockDebrid) Unrestrict(ctx context.Context, rawURL string) (string, error) {
	return m.terminal, nil
}

func (m *mockDebrid) AccountInfo(ctx context.Context) (*debrid.Account, error) {
	return nil, errors.New("not implemented")
}

func TestResolveMagnetWithoutBridge(t *testing.T) {
	chain := NewChain(nil, nil, nil)
	src := &media.SourceDescriptor{URL: "magnet:?xt=urn:btih:abc", Kind: media.SourceTorrent}
	if got := chain.Resolve(context.Background(), src); got != "" {
		t.Errorf("Resolve() = %q, want empty without a bridge", got)
	}
}

func TestResolveMagnetViaBridge(t *testing.T) {
	bridge := &mockBridge{handle: "https://bridge.local/stream/abc"}
	chain := NewChain(nil, bridge, nil)
	src := &media.SourceDescriptor{URL: "magnet:?xt=urn:btih:abc", Kind: media.SourceTorrent}

	if got := chain.Resolve(context.Background(), src); got != bridge.handle {
		t.Errorf("Resolve() = %q, want bridge handle", got)
	}
	if bridge.calls != 1 {
		t.Errorf("bridge calls = %d, want 1", bridge.calls)
	}
}

func TestResolveMagnetBridgeError(t *testing.T) {
	bridge := &mockBridge{err: errors.New("tracker down")}
	chain := NewChain(nil, bridge, nil)
	src := &media.SourceDescriptor{URL: "magnet:?xt=urn:btih:abc", Kind: media.SourceTorrent}
	if got := chain.Resolve(context.Background(), src); got != "" {
		t.Errorf("Resolve() = %q, want empty on bridge error", got)
	}
}

func TestResolveHosterViaDebrid(t *testing.T) {
	gate := debrid.NewGate(&mockDebrid{
		hosts:    []string{"rapidgator.net"},
		terminal: "https://direct.rd/stream.mp4",
	})
	hosts := &mockHosts{resolved: "https://generic/stream.mp4"}
	chain := NewChain(gate, nil, hosts)
	src := &media.SourceDescriptor{URL: "https://rapidgator.net/x", Kind: media.SourceHoster}

	if got := chain.Resolve(context.Background(), src); got != "https://direct.rd/stream.mp4" {
		t.Errorf("Resolve() = %q, want debrid terminal URL", got)
	}
	if hosts.calls != 0 {
		t.Error("host resolver called although debrid succeeded")
	}
}

func TestResolveHosterFallsBackToHostResolver(t *testing.T) {
	hosts := &mockHosts{resolved: "https://generic/stream.mp4"}
	chain := NewChain(nil, nil, hosts)
	src := &media.SourceDescriptor{URL: "https://somehost.example/x", Kind: media.SourceHoster}

	if got := chain.Resolve(context.Background(), src); got != hosts.resolved {
		t.Errorf("Resolve() = %q, want host resolver result", got)
	}
}

func TestResolveDirectPassthrough(t *testing.T) {
	chain := NewChain(nil, nil, nil)
	src := &media.SourceDescriptor{URL: "https://cdn.example/movie.mp4", Kind: media.SourceDirect}
	if got := chain.Resolve(context.Background(), src); got != src.URL {
		t.Errorf("Resolve() = %q, want direct URL passthrough", got)
	}
}

func TestResolveDirectNotShadowedByHostResolver(t *testing.T) {
	hosts := &mockHosts{err: errors.New("not a hoster page")}
	chain := NewChain(nil, nil, hosts)
	src := &media.SourceDescriptor{URL: "https://cdn.example/movie.mp4", Kind: media.SourceDirect}
	if got := chain.Resolve(context.Background(), src); got != src.URL {
		t.Errorf("Resolve() = %q, want direct URL after host resolver miss", got)
	}
}

func TestResolveUnresolvableHoster(t *testing.T) {
	chain := NewChain(nil, nil, nil)
	src := &media.SourceDescriptor{URL: "https://unknown.example/x", Kind: media.SourceHoster}
	if got := chain.Resolve(context.Background(), src); got != "" {
		t.Errorf("Resolve() = %q, want empty for unresolvable hoster", got)
	}
}

func TestResolveRecoversFromPanic(t *testing.T) {
	bridge := &mockBridge{panics: true}
	chain := NewChain(nil, bridge, nil)
	src := &media.SourceDescriptor{URL: "magnet:?xt=urn:btih:abc", Kind: media.SourceTorrent}
	if got := chain.Resolve(context.Background(), src); got != "" {
		t.Errorf("Resolve() = %q, want empty after panic recovery", got)
	}
}
