// Package playback holds the authoritative playback session: current track, queue,
// transport flags, progress and modes, together with the transport operations that
// mutate it.
//
// A Session is not safe for concurrent use. It is owned by a single event loop
// (engine.Engine or a Bubble Tea Update) and every caller, including the widget
// adapter and the progress poller, mutates it through Session methods on that loop.
package playback

import (
	"slices"

	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/track"
)

// DefaultVolume is the volume of a fresh session.
const DefaultVolume = 0.8

// State is a snapshot of the session.
type State struct {
	CurrentTrack  mo.Option[track.Track]
	Queue         []track.Track
	OriginalQueue []track.Track

	IsPlaying bool
	Volume    float64
	IsMuted   bool

	CurrentTime float64
	Duration    float64

	RepeatMode RepeatMode
	IsShuffled bool
	PlayerMode PlayerMode
}

// clone deep-copies the queues so snapshots never alias session storage.
func (s State) clone() State {
	s.Queue = slices.Clone(s.Queue)
	s.OriginalQueue = slices.Clone(s.OriginalQueue)
	return s
}

// CurrentIndex is the queue position of the current track, or -1.
func (s State) CurrentIndex() int {
	current, ok := s.CurrentTrack.Get()
	if !ok {
		return -1
	}
	return track.IndexOf(s.Queue, current.ID)
}

// MediaKey of the current track, empty when there is none.
func (s State) MediaKey() string {
	current, ok := s.CurrentTrack.Get()
	if !ok {
		return ""
	}
	return current.MediaKey
}

// EffectiveVolume is what the widget should play at, 0 when muted.
func (s State) EffectiveVolume() float64 {
	if s.IsMuted {
		return 0
	}
	return s.Volume
}

// Progress is CurrentTime/Duration in [0,1], 0 when the duration is unknown.
func (s State) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	p := s.CurrentTime / s.Duration
	if p > 1 {
		return 1
	}
	return p
}
