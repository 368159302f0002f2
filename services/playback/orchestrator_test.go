package playback

import (
	"context"
	"testing"
	"time"

	"github.com/kinohive-io/kino-addon/services/debrid"
	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/identity"
	"github.com/kinohive-io/kino-addon/services/media"
	"github.com/kinohive-io/kino-addon/services/resolve"
	"github.com/kinohive-io/kino-addon/services/scraper"
	"github.com/kinohive-io/kino-addon/services/state"
)

type fakeRuntime struct {
	settings host.MapSettings
	dialogs  *fakeDialogs
	sink     *fakeSink
	dir      string
}

func (f *fakeRuntime) Settings() host.Settings       { return f.settings }
func (f *fakeRuntime) Dialogs() host.Dialogs         { return f.dialogs }
func (f *fakeRuntime) Resolved() host.ResolvedSink   { return f.sink }
func (f *fakeRuntime) Directory() host.DirectorySink { return nil }
func (f *fakeRuntime) ProfileDir() string            { return f.dir }

var _ host.Runtime = (*fakeRuntime)(nil)

type stubPlugin struct {
	name    string
	delay   time.Duration
	sources []scraper.RawSource
}

func (p *stubPlugin) Name() string { return p.name }

func (p *stubPlugin) Supports(kind media.Kind) bool { return true }

func (p *stubPlugin) Scrape(ctx context.Context, ref *media.TitleRef) ([]scraper.RawSource, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.sources, nil
}

func newTestOrchestrator(t *testing.T, rt *fakeRuntime, plugins []scraper.Plugin) *Orchestrator {
	t.Helper()
	if rt.dir == "" {
		rt.dir = t.TempDir()
	}
	gate := debrid.NewGate()
	return NewOrchestrator(
		rt,
		identity.New(nil),
		plugins,
		gate,
		resolve.NewChain(gate, nil, nil),
		state.NewStore(rt.dir),
	)
}

func scrapeSettings(extra map[string]string) host.MapSettings {
	s := host.MapSettings{
		host.SettingScraperEnabled: "true",
		host.SettingAutoPlayBest:   "true",
		host.SettingScraperTimeout: "2",
	}
	for k, v := range extra {
		s[k] = v
	}
	return s
}

func TestPlayKeepsFastResultsWhenOthersTimeOut(t *testing.T) {
	rt := &fakeRuntime{
		settings: scrapeSettings(nil),
		dialogs:  &fakeDialogs{},
		sink:     &fakeSink{},
	}
	plugins := []scraper.Plugin{
		&stubPlugin{name: "slow-a", delay: time.Minute},
		&stubPlugin{name: "slow-b", delay: time.Minute},
		&stubPlugin{name: "fast", sources: []scraper.RawSource{
			{URL: "https://cdn.example/fast-1080p.mp4", Quality: "1080p"},
		}},
	}
	o := newTestOrchestrator(t, rt, plugins)

	start := time.Now()
	o.Play(context.Background(), movieRef())

	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Play took %v, want the 2s scrape budget to hold", elapsed)
	}
	if rt.sink.calls != 1 || !rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one successful resolution", rt.sink.calls, rt.sink.ok)
	}
	if rt.sink.item.Path != "https://cdn.example/fast-1080p.mp4" {
		t.Errorf("played %q, want the fast plugin's source", rt.sink.item.Path)
	}
}

func TestPlayUserCancelIsSilent(t *testing.T) {
	rt := &fakeRuntime{
		settings: scrapeSettings(nil),
		dialogs:  &fakeDialogs{progress: &fakeProgress{cancelled: true}},
		sink:     &fakeSink{},
	}
	plugins := []scraper.Plugin{
		&stubPlugin{name: "slow", delay: time.Minute},
	}
	o := newTestOrchestrator(t, rt, plugins)

	o.Play(context.Background(), movieRef())

	if rt.sink.calls != 1 || rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one failed resolution", rt.sink.calls, rt.sink.ok)
	}
	if len(rt.dialogs.notifications) != 0 {
		t.Errorf("notifications = %v, want none on user cancel", rt.dialogs.notifications)
	}
}

func TestPlayFallsBackToEmbeddedManifest(t *testing.T) {
	rt := &fakeRuntime{
		settings: host.MapSettings{},
		dialogs:  &fakeDialogs{},
		sink:     &fakeSink{},
	}
	o := newTestOrchestrator(t, rt, nil)

	ref := movieRef()
	ref.HlsURL = "https://cdn.example/foo/manifest.m3u8"
	o.Play(context.Background(), ref)

	if rt.sink.calls != 1 || !rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one successful resolution", rt.sink.calls, rt.sink.ok)
	}
	if rt.sink.item.Path != ref.HlsURL {
		t.Errorf("played %q, want embedded manifest", rt.sink.item.Path)
	}
	if rt.sink.item.MimeType != "application/vnd.apple.mpegurl" || !rt.sink.item.Adaptive {
		t.Errorf("manifest hints missing: mime=%q adaptive=%v", rt.sink.item.MimeType, rt.sink.item.Adaptive)
	}
}

func TestPlayNoSourcesNotifies(t *testing.T) {
	rt := &fakeRuntime{
		settings: host.MapSettings{},
		dialogs:  &fakeDialogs{},
		sink:     &fakeSink{},
	}
	o := newTestOrchestrator(t, rt, nil)

	o.Play(context.Background(), movieRef())

	if rt.sink.calls != 1 || rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one failed resolution", rt.sink.calls, rt.sink.ok)
	}
	if len(rt.dialogs.notifications) != 1 {
		t.Fatalf("notifications = %v, want one", rt.dialogs.notifications)
	}
}

func TestPlayInvalidRef(t *testing.T) {
	rt := &fakeRuntime{
		settings: host.MapSettings{},
		dialogs:  &fakeDialogs{},
		sink:     &fakeSink{},
	}
	o := newTestOrchestrator(t, rt, nil)

	o.Play(context.Background(), &media.TitleRef{Kind: media.KindMovie})

	if rt.sink.calls != 1 || rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one failed resolution", rt.sink.calls, rt.sink.ok)
	}
}

func TestPlayResumePromptStartOver(t *testing.T) {
	dir := t.TempDir()
	store := state.NewStore(dir)
	ref := movieRef()
	ref.HlsURL = "https://cdn.example/foo/manifest.m3u8"
	if err := store.SaveResumePoint(ref, 300, 6000); err != nil {
		t.Fatal(err)
	}

	rt := &fakeRuntime{
		settings: host.MapSettings{},
		dialogs:  &fakeDialogs{selections: []int{1}}, // Start over
		sink:     &fakeSink{},
		dir:      dir,
	}
	o := newTestOrchestrator(t, rt, nil)

	o.Play(context.Background(), ref)

	if rt.sink.calls != 1 || !rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one successful resolution", rt.sink.calls, rt.sink.ok)
	}
	if rt.sink.item.ResumePosition != 0 {
		t.Errorf("ResumePosition = %v, want 0 after start over", rt.sink.item.ResumePosition)
	}
	if store.GetResumePoint(ref) != nil {
		t.Error("resume point survived start over")
	}
}

func TestPlayResumePromptResume(t *testing.T) {
	dir := t.TempDir()
	store := state.NewStore(dir)
	ref := movieRef()
	ref.HlsURL = "https://cdn.example/foo/manifest.m3u8"
	if err := store.SaveResumePoint(ref, 300, 6000); err != nil {
		t.Fatal(err)
	}

	rt := &fakeRuntime{
		settings: host.MapSettings{},
		dialogs:  &fakeDialogs{selections: []int{0}}, // Resume
		sink:     &fakeSink{},
		dir:      dir,
	}
	o := newTestOrchestrator(t, rt, nil)

	o.Play(context.Background(), ref)

	if rt.sink.calls != 1 || !rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one successful resolution", rt.sink.calls, rt.sink.ok)
	}
	if rt.sink.item.ResumePosition != 300 {
		t.Errorf("ResumePosition = %v, want 300", rt.sink.item.ResumePosition)
	}
}

func TestPlayResumePromptCancelled(t *testing.T) {
	dir := t.TempDir()
	store := state.NewStore(dir)
	ref := movieRef()
	ref.HlsURL = "https://cdn.example/foo/manifest.m3u8"
	if err := store.SaveResumePoint(ref, 300, 6000); err != nil {
		t.Fatal(err)
	}

	rt := &fakeRuntime{
		settings: host.MapSettings{},
		dialogs:  &fakeDialogs{}, // no scripted answer, Select returns -1
		sink:     &fakeSink{},
		dir:      dir,
	}
	o := newTestOrchestrator(t, rt, nil)

	o.Play(context.Background(), ref)

	if rt.sink.calls != 1 || rt.sink.ok {
		t.Fatalf("sink calls=%d ok=%v, want one silent failure", rt.sink.calls, rt.sink.ok)
	}
	if len(rt.dialogs.notifications) != 0 {
		t.Errorf("notifications = %v, want none", rt.dialogs.notifications)
	}
}

func TestFormatPosition(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{45, "0:45"},
		{300, "5:00"},
		{3725, "1:02:05"},
	}
	for _, c := range cases {
		if got := formatPosition(c.seconds); got != c.want {
			t.Errorf("formatPosition(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}
