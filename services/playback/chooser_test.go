package playback

import (
	"testing"

	"github.com/kinohive-io/kino-addon/services/media"
)

func TestChooseEmptyList(t *testing.T) {
	c := NewChooser(&fakeDialogs{}, true)
	if got := c.Choose(nil); got != nil {
		t.Errorf("Choose(nil) = %v, want nil", got)
	}
}

func TestChooseAutoPlayPicksHead(t *testing.T) {
	c := NewChooser(&fakeDialogs{}, true)
	sources := []media.SourceDescriptor{
		{URL: "https://a", Quality: media.Quality4K},
		{URL: "https://b", Quality: media.Quality1080p},
	}
	got := c.Choose(sources)
	if got == nil || got.URL != "https://a" {
		t.Errorf("Choose() = %v, want head of the list", got)
	}
}

func TestChooseDialogSelection(t *testing.T) {
	dialogs := &fakeDialogs{selections: []int{1}}
	c := NewChooser(dialogs, false)
	sources := []media.SourceDescriptor{
		{URL: "https://a", Quality: media.Quality4K},
		{URL: "https://b", Quality: media.Quality1080p},
	}
	got := c.Choose(sources)
	if got == nil || got.URL != "https://b" {
		t.Errorf("Choose() = %v, want second entry", got)
	}
	if dialogs.selectCalls != 1 {
		t.Errorf("select calls = %d, want 1", dialogs.selectCalls)
	}
}

func TestChooseDialogCancelled(t *testing.T) {
	c := NewChooser(&fakeDialogs{}, false)
	sources := []media.SourceDescriptor{{URL: "https://a"}}
	if got := c.Choose(sources); got != nil {
		t.Errorf("Choose() = %v, want nil on cancel", got)
	}
}
