// Package prefs persists the part of the playback session that survives a restart:
// volume, repeat mode and shuffle. Nothing else of the session is ever restored.
package prefs

import (
	"github.com/metafates/gache"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/where"
)

// Preferences is the persisted projection of playback.State.
type Preferences struct {
	Volume     float64             `json:"volume"`
	RepeatMode playback.RepeatMode `json:"repeat_mode"`
	Shuffled   bool                `json:"shuffled"`
}

var cacher = gache.New[*Preferences](
	&gache.Options{
		Path:       where.State(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// FromState projects the persisted fields out of a session snapshot.
func FromState(s playback.State) Preferences {
	return Preferences{
		Volume:     s.Volume,
		RepeatMode: s.RepeatMode,
		Shuffled:   s.IsShuffled,
	}
}

// Changed reports whether a transition touched any persisted field.
func Changed(prev, next playback.State) bool {
	return FromState(prev) != FromState(next)
}

// Apply restores p onto a session. Mute is not persisted, so the session
// stays unmuted even for a saved volume of 0. The queue is empty at startup,
// so turning shuffle on only sets the flag.
func (p Preferences) Apply(s *playback.Session) {
	s.RestoreVolume(p.Volume)
	s.SetRepeatMode(p.RepeatMode)
	if p.Shuffled != s.Snapshot().IsShuffled {
		s.ToggleShuffle()
	}
}

// Load returns the stored preferences, or false when none were saved.
func Load() (Preferences, bool, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return Preferences{}, false, err
	}
	if expired || cached == nil {
		return Preferences{}, false, nil
	}
	return *cached, true, nil
}

// Save writes p.
func Save(p Preferences) error {
	return cacher.Set(&p)
}
