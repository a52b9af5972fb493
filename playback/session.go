package playback

import (
	"math"
	"slices"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/ytfree-cli/ytfree/shuffle"
	"github.com/ytfree-cli/ytfree/track"
)

// Listener observes every state change. prev and next are independent copies.
type Listener func(prev, next State)

// Session is the single writer of playback state.
type Session struct {
	state State

	random           shuffle.Source
	restartThreshold float64

	listeners map[int]Listener
	nextID    int
}

// Option configures a Session at construction.
type Option func(*Session)

// WithRandom injects the shuffle source.
func WithRandom(r shuffle.Source) Option {
	return func(s *Session) { s.random = r }
}

// WithRestartThreshold sets how many seconds into a track Previous restarts it.
func WithRestartThreshold(seconds float64) Option {
	return func(s *Session) { s.restartThreshold = seconds }
}

// WithVolume overrides the initial volume.
func WithVolume(v float64) Option {
	return func(s *Session) { s.state.Volume = clampVolume(v) }
}

// WithPlayerMode overrides the initial player mode.
func WithPlayerMode(m PlayerMode) Option {
	return func(s *Session) { s.state.PlayerMode = m }
}

// New creates a session with volume 0.8, unmuted, no track and an empty queue.
func New(options ...Option) *Session {
	s := &Session{
		state: State{
			Volume:     DefaultVolume,
			RepeatMode: RepeatNone,
			PlayerMode: ModeAudio,
		},
		random:           shuffle.Default(),
		restartThreshold: 3,
		listeners:        make(map[int]Listener),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	return s.state.clone()
}

// Subscribe registers fn for change notifications and returns its cancel function.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		delete(s.listeners, id)
	}
}

// mutate applies fn and notifies listeners when fn reports a change.
func (s *Session) mutate(fn func(st *State) bool) {
	prev := s.state.clone()
	if !fn(&s.state) {
		return
	}

	// Listeners may re-enter the session, so iterate over a stable copy.
	ids := lo.Keys(s.listeners)
	slices.Sort(ids)
	for _, id := range ids {
		if l, ok := s.listeners[id]; ok {
			l(prev, s.state.clone())
		}
	}
}

// startTrack makes t current from its beginning.
func (st *State) startTrack(t track.Track) {
	st.CurrentTrack = mo.Some(t)
	st.CurrentTime = 0
	st.Duration = float64(t.Duration)
	st.IsPlaying = true
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// PlayTrack makes t current and starts it. The queue is not touched.
func (s *Session) PlayTrack(t track.Track) {
	s.mutate(func(st *State) bool {
		st.startTrack(t)
		return true
	})
}

// SetCurrentTrack replaces the current track without touching the playing flag or position.
func (s *Session) SetCurrentTrack(t track.Track) {
	s.mutate(func(st *State) bool {
		st.CurrentTrack = mo.Some(t)
		return true
	})
}

// SetQueue replaces the queue and the original order with tracks.
func (s *Session) SetQueue(tracks []track.Track) {
	s.mutate(func(st *State) bool {
		st.Queue = slices.Clone(tracks)
		st.OriginalQueue = slices.Clone(tracks)
		return true
	})
}

// AddToQueue appends t to the queue and to the original order.
func (s *Session) AddToQueue(t track.Track) {
	s.mutate(func(st *State) bool {
		st.Queue = append(st.Queue, t)
		st.OriginalQueue = append(st.OriginalQueue, t)
		return true
	})
}

// RemoveFromQueue drops every entry with the given id.
func (s *Session) RemoveFromQueue(id string) {
	s.mutate(func(st *State) bool {
		keep := func(t track.Track, _ int) bool { return t.ID != id }
		queue := lo.Filter(st.Queue, keep)
		original := lo.Filter(st.OriginalQueue, keep)
		if len(queue) == len(st.Queue) && len(original) == len(st.OriginalQueue) {
			return false
		}
		st.Queue, st.OriginalQueue = queue, original
		return true
	})
}

// RemoveFromQueueByIndex drops queue[index] and the matching entry of the original order.
func (s *Session) RemoveFromQueueByIndex(index int) {
	s.mutate(func(st *State) bool {
		if index < 0 || index >= len(st.Queue) {
			return false
		}

		removed := st.Queue[index]
		st.Queue = slices.Delete(st.Queue, index, index+1)
		if i := track.IndexOf(st.OriginalQueue, removed.ID); i >= 0 {
			st.OriginalQueue = slices.Delete(st.OriginalQueue, i, i+1)
		}
		return true
	})
}

// ClearQueue empties both queues and stops playback.
func (s *Session) ClearQueue() {
	s.mutate(func(st *State) bool {
		st.Queue = nil
		st.OriginalQueue = nil
		st.CurrentTrack = mo.None[track.Track]()
		st.IsPlaying = false
		st.CurrentTime = 0
		st.Duration = 0
		return true
	})
}

// MoveTrackUp swaps queue[index] with the entry before it.
func (s *Session) MoveTrackUp(index int) {
	s.swap(index, index-1)
}

// MoveTrackDown swaps queue[index] with the entry after it.
func (s *Session) MoveTrackDown(index int) {
	s.swap(index, index+1)
}

// swap exchanges two queue entries. An unshuffled queue is its own original
// order, so the swap is mirrored there.
func (s *Session) swap(i, j int) {
	s.mutate(func(st *State) bool {
		if i < 0 || j < 0 || i >= len(st.Queue) || j >= len(st.Queue) {
			return false
		}

		st.Queue = slices.Clone(st.Queue)
		st.Queue[i], st.Queue[j] = st.Queue[j], st.Queue[i]

		if !st.IsShuffled && len(st.OriginalQueue) == len(st.Queue) {
			st.OriginalQueue = slices.Clone(st.Queue)
		}
		return true
	})
}

// Play resumes playback of the current track. Without one it does nothing.
func (s *Session) Play() {
	s.mutate(func(st *State) bool {
		if st.CurrentTrack.IsAbsent() || st.IsPlaying {
			return false
		}
		st.IsPlaying = true
		return true
	})
}

// Pause stops playback, keeping the position.
func (s *Session) Pause() {
	s.mutate(func(st *State) bool {
		if !st.IsPlaying {
			return false
		}
		st.IsPlaying = false
		return true
	})
}

// TogglePlay flips between Play and Pause.
func (s *Session) TogglePlay() {
	if s.state.IsPlaying {
		s.Pause()
	} else {
		s.Play()
	}
}

// Next advances to the following queue entry. Past the end it wraps under
// RepeatAll and otherwise stops, leaving the current track in place.
func (s *Session) Next() {
	s.mutate(func(st *State) bool {
		if st.CurrentTrack.IsAbsent() || len(st.Queue) == 0 {
			return false
		}

		next := st.CurrentIndex() + 1
		if next >= len(st.Queue) {
			if st.RepeatMode != RepeatAll {
				st.IsPlaying = false
				return true
			}
			next = 0
		}

		st.startTrack(st.Queue[next])
		return true
	})
}

// Previous restarts the current track when it has played past the restart
// threshold, and otherwise moves to the prior entry, wrapping to the last.
func (s *Session) Previous() {
	s.mutate(func(st *State) bool {
		if st.CurrentTrack.IsAbsent() || len(st.Queue) == 0 {
			return false
		}

		if st.CurrentTime > s.restartThreshold {
			st.CurrentTime = 0
			return true
		}

		prev := st.CurrentIndex() - 1
		if prev < 0 {
			prev = len(st.Queue) - 1
		}

		st.startTrack(st.Queue[prev])
		return true
	})
}

// SetCurrentTime sets the playback position in seconds.
func (s *Session) SetCurrentTime(t float64) {
	s.mutate(func(st *State) bool {
		t = math.Max(0, t)
		if math.IsNaN(t) || st.CurrentTime == t {
			return false
		}
		st.CurrentTime = t
		return true
	})
}

// SetDuration sets the length of the current media in seconds.
func (s *Session) SetDuration(d float64) {
	s.mutate(func(st *State) bool {
		d = math.Max(0, d)
		if math.IsNaN(d) || st.Duration == d {
			return false
		}
		st.Duration = d
		return true
	})
}

// SetVolume clamps v to [0,1]. Volume 0 mutes, anything else unmutes.
func (s *Session) SetVolume(v float64) {
	s.mutate(func(st *State) bool {
		st.Volume = clampVolume(v)
		st.IsMuted = st.Volume == 0
		return true
	})
}

// RestoreVolume clamps v to [0,1] and leaves the mute flag alone, so a saved
// volume of 0 comes back unmuted.
func (s *Session) RestoreVolume(v float64) {
	s.mutate(func(st *State) bool {
		v = clampVolume(v)
		if st.Volume == v {
			return false
		}
		st.Volume = v
		return true
	})
}

// ToggleMute flips the mute flag. The stored volume is kept.
func (s *Session) ToggleMute() {
	s.mutate(func(st *State) bool {
		st.IsMuted = !st.IsMuted
		return true
	})
}

// SetRepeatMode sets the repeat mode; unknown modes are ignored.
func (s *Session) SetRepeatMode(m RepeatMode) {
	s.mutate(func(st *State) bool {
		if !m.Valid() || st.RepeatMode == m {
			return false
		}
		st.RepeatMode = m
		return true
	})
}

// CycleRepeatMode advances none -> all -> one -> none.
func (s *Session) CycleRepeatMode() {
	s.SetRepeatMode(s.state.RepeatMode.Next())
}

// ToggleShuffle turns shuffling off by restoring the original order, or on by
// putting the current track at the front and shuffling the rest. A current
// track missing from the queue is placed at the front too. The original order
// is never modified here.
func (s *Session) ToggleShuffle() {
	s.mutate(func(st *State) bool {
		if st.IsShuffled {
			st.Queue = slices.Clone(st.OriginalQueue)
			st.IsShuffled = false
			return true
		}

		current, ok := st.CurrentTrack.Get()
		if i := st.CurrentIndex(); ok && i < 0 {
			st.Queue = append([]track.Track{current}, shuffle.Slice(st.Queue, s.random)...)
		} else {
			st.Queue = pinAndShuffle(st.Queue, i, s.random)
		}
		st.IsShuffled = true
		return true
	})
}

// PlayPlaylist loads tracks as the new original order and starts tracks[start].
// With shuffle on, the started track leads a shuffled queue.
func (s *Session) PlayPlaylist(tracks []track.Track, start int) {
	s.mutate(func(st *State) bool {
		if start < 0 || start >= len(tracks) {
			return false
		}

		st.OriginalQueue = slices.Clone(tracks)
		if st.IsShuffled {
			st.Queue = pinAndShuffle(tracks, start, s.random)
		} else {
			st.Queue = slices.Clone(tracks)
		}

		st.startTrack(tracks[start])
		return true
	})
}

// SetPlayerMode sets the audio/video hint.
func (s *Session) SetPlayerMode(m PlayerMode) {
	s.mutate(func(st *State) bool {
		if st.PlayerMode == m {
			return false
		}
		st.PlayerMode = m
		return true
	})
}

// TogglePlayerMode flips between audio and video.
func (s *Session) TogglePlayerMode() {
	s.SetPlayerMode(s.state.PlayerMode.Toggle())
}

// pinAndShuffle returns [tracks[pin], shuffle(rest)...], or a plain shuffle when pin is -1.
func pinAndShuffle(tracks []track.Track, pin int, r shuffle.Source) []track.Track {
	if pin < 0 || pin >= len(tracks) {
		return shuffle.Slice(tracks, r)
	}

	rest := slices.Concat(tracks[:pin], tracks[pin+1:])
	return append([]track.Track{tracks[pin]}, shuffle.Slice(rest, r)...)
}
