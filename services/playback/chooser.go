package playback

import (
	"github.com/kinohive-io/kino-addon/services/host"
	"github.com/kinohive-io/kino-addon/services/media"
)

// Chooser selects the source to play: head of the ranked list when
// auto-play is on, otherwise a blocking host selection dialog.
type Chooser struct {
	dialogs      host.Dialogs
	autoPlayBest bool
}

func NewChooser(dialogs host.Dialogs, autoPlayBest bool) *Chooser {
	return &Chooser{dialogs: dialogs, autoPlayBest: autoPlayBest}
}

// Choose returns the selected source, or nil when the list is empty or
// the user cancels the dialog.
func (c *Chooser) Choose(sources []media.SourceDescriptor) *media.SourceDescriptor {
	if len(sources) == 0 {
		return nil
	}
	if c.autoPlayBest {
		return &sources[0]
	}
	labels := make([]string, len(sources))
	for i := range sources {
		labels[i] = sources[i].Label()
	}
	idx := c.dialogs.Select("Select source", labels)
	if idx < 0 || idx >= len(sources) {
		return nil
	}
	return &sources[idx]
}
