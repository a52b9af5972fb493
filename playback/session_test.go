package playback

import (
	"math/rand/v2"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/track"
)

func tracks(ids ...string) []track.Track {
	return lo.Map(ids, func(id string, _ int) track.Track {
		return track.Track{ID: id, Title: "Track " + id, MediaKey: "key-" + id, Duration: 180}
	})
}

func ids(ts []track.Track) []string {
	return lo.Map(ts, func(t track.Track, _ int) string { return t.ID })
}

func currentID(s *Session) string {
	return s.Snapshot().CurrentTrack.OrEmpty().ID
}

func newSession() *Session {
	return New(WithRandom(rand.New(rand.NewPCG(1, 2))))
}

func TestNew(t *testing.T) {
	Convey("A fresh session", t, func() {
		st := newSession().Snapshot()

		So(st.Volume, ShouldEqual, DefaultVolume)
		So(st.IsMuted, ShouldBeFalse)
		So(st.IsPlaying, ShouldBeFalse)
		So(st.CurrentTrack.IsAbsent(), ShouldBeTrue)
		So(st.Queue, ShouldBeEmpty)
		So(st.RepeatMode, ShouldEqual, RepeatNone)
		So(st.PlayerMode, ShouldEqual, ModeAudio)
	})

	Convey("Options override the defaults", t, func() {
		st := New(WithVolume(1.7), WithPlayerMode(ModeVideo)).Snapshot()
		So(st.Volume, ShouldEqual, 1)
		So(st.PlayerMode, ShouldEqual, ModeVideo)
	})
}

func TestNext(t *testing.T) {
	Convey("Given queue [A,B,C] with C current", t, func() {
		s := newSession()
		s.PlayPlaylist(tracks("A", "B", "C"), 2)

		Convey("Repeat all wraps to A", func() {
			s.SetRepeatMode(RepeatAll)
			s.Next()

			So(currentID(s), ShouldEqual, "A")
			So(s.Snapshot().IsPlaying, ShouldBeTrue)
			So(s.Snapshot().CurrentTime, ShouldEqual, 0)
		})

		Convey("Repeat none stops on C", func() {
			s.Next()

			So(currentID(s), ShouldEqual, "C")
			So(s.Snapshot().IsPlaying, ShouldBeFalse)
		})
	})

	Convey("Given queue [A,B] with A current", t, func() {
		s := newSession()
		s.PlayPlaylist(tracks("A", "B"), 0)
		s.SetCurrentTime(42)
		s.Next()

		Convey("Next advances and resets the position", func() {
			st := s.Snapshot()
			So(currentID(s), ShouldEqual, "B")
			So(st.CurrentTime, ShouldEqual, 0)
			So(st.IsPlaying, ShouldBeTrue)
		})
	})

	Convey("Next is a no-op without a current track or queue", t, func() {
		s := newSession()
		calls := 0
		s.Subscribe(func(_, _ State) { calls++ })

		s.Next()
		s.SetQueue(tracks("A"))
		calls = 0
		s.Next()

		So(calls, ShouldEqual, 0)
		So(s.Snapshot().CurrentTrack.IsAbsent(), ShouldBeTrue)
	})

	Convey("A current track outside the queue is followed by the head", t, func() {
		s := newSession()
		s.SetQueue(tracks("A", "B"))
		s.PlayTrack(tracks("X")[0])
		s.Next()

		So(currentID(s), ShouldEqual, "A")
	})
}

func TestPrevious(t *testing.T) {
	Convey("Given queue [A,B,C] with B current", t, func() {
		s := newSession()
		s.PlayPlaylist(tracks("A", "B", "C"), 1)

		Convey("Past the threshold it restarts the track", func() {
			s.SetCurrentTime(5)
			s.Previous()

			So(currentID(s), ShouldEqual, "B")
			So(s.Snapshot().CurrentTime, ShouldEqual, 0)
		})

		Convey("Before the threshold it moves back", func() {
			s.SetCurrentTime(1)
			s.Previous()

			So(currentID(s), ShouldEqual, "A")
			So(s.Snapshot().CurrentTime, ShouldEqual, 0)
			So(s.Snapshot().IsPlaying, ShouldBeTrue)
		})

		Convey("From the head it wraps to the last entry", func() {
			s.Previous()
			s.Previous()

			So(currentID(s), ShouldEqual, "C")
		})
	})

	Convey("The threshold is configurable", t, func() {
		s := New(WithRestartThreshold(10))
		s.PlayPlaylist(tracks("A", "B"), 1)
		s.SetCurrentTime(5)
		s.Previous()

		So(currentID(s), ShouldEqual, "A")
	})
}

func TestShuffle(t *testing.T) {
	Convey("Given a queue with a current track", t, func() {
		s := newSession()
		queue := tracks("A", "B", "C", "D", "E", "F", "G", "H")
		s.PlayPlaylist(queue, 3)

		Convey("Shuffling pins the current track at the front", func() {
			s.ToggleShuffle()
			st := s.Snapshot()

			So(st.IsShuffled, ShouldBeTrue)
			So(st.Queue[0].ID, ShouldEqual, "D")
			So(ids(st.Queue), ShouldHaveLength, len(queue))
			So(ids(st.Queue), ShouldContain, "A")
			So(ids(st.Queue), ShouldContain, "H")
			So(ids(st.OriginalQueue), ShouldResemble, ids(queue))
		})

		Convey("Shuffling twice restores the exact order", func() {
			s.ToggleShuffle()
			s.ToggleShuffle()
			st := s.Snapshot()

			So(st.IsShuffled, ShouldBeFalse)
			So(ids(st.Queue), ShouldResemble, ids(queue))
		})
	})

	Convey("Shuffling without a current track shuffles everything", t, func() {
		s := newSession()
		s.SetQueue(tracks("A", "B", "C"))
		s.ToggleShuffle()
		st := s.Snapshot()

		So(st.IsShuffled, ShouldBeTrue)
		So(ids(st.Queue), ShouldHaveLength, 3)
	})

	Convey("Shuffling puts a current track missing from the queue at the front", t, func() {
		s := newSession()
		queue := tracks("A", "B", "C", "D", "E")
		s.SetQueue(queue)
		s.PlayTrack(tracks("X")[0])
		s.ToggleShuffle()
		st := s.Snapshot()

		So(st.IsShuffled, ShouldBeTrue)
		So(st.Queue[0].ID, ShouldEqual, "X")
		So(ids(st.Queue), ShouldHaveLength, len(queue)+1)
		So(ids(st.Queue[1:]), ShouldNotContain, "X")
		So(ids(st.OriginalQueue), ShouldResemble, ids(queue))

		Convey("And unshuffling restores the original order", func() {
			s.ToggleShuffle()
			So(ids(s.Snapshot().Queue), ShouldResemble, ids(queue))
			So(currentID(s), ShouldEqual, "X")
		})
	})

	Convey("PlayPlaylist while shuffled leads with the started track", t, func() {
		s := newSession()
		s.ToggleShuffle()

		list := tracks("A", "B", "C", "D", "E")
		s.PlayPlaylist(list, 2)
		st := s.Snapshot()

		So(st.Queue[0].ID, ShouldEqual, "C")
		So(currentID(s), ShouldEqual, "C")
		So(ids(st.OriginalQueue), ShouldResemble, ids(list))
		So(st.IsPlaying, ShouldBeTrue)
	})
}

func TestVolume(t *testing.T) {
	Convey("Given a session", t, func() {
		s := newSession()

		Convey("Volume 0 mutes and mute toggles leave the volume alone", func() {
			s.SetVolume(0)
			So(s.Snapshot().IsMuted, ShouldBeTrue)

			s.ToggleMute()
			So(s.Snapshot().IsMuted, ShouldBeFalse)
			So(s.Snapshot().Volume, ShouldEqual, 0)

			s.ToggleMute()
			So(s.Snapshot().IsMuted, ShouldBeTrue)
			So(s.Snapshot().Volume, ShouldEqual, 0)
		})

		Convey("Volume is clamped", func() {
			s.SetVolume(3)
			So(s.Snapshot().Volume, ShouldEqual, 1)
			s.SetVolume(-1)
			So(s.Snapshot().Volume, ShouldEqual, 0)
		})

		Convey("Restoring a volume leaves the mute flag alone", func() {
			s.RestoreVolume(0)
			So(s.Snapshot().Volume, ShouldEqual, 0)
			So(s.Snapshot().IsMuted, ShouldBeFalse)

			s.ToggleMute()
			s.RestoreVolume(2)
			So(s.Snapshot().Volume, ShouldEqual, 1)
			So(s.Snapshot().IsMuted, ShouldBeTrue)
		})

		Convey("Muting keeps the stored volume and zeroes the effective one", func() {
			s.SetVolume(0.5)
			s.ToggleMute()
			st := s.Snapshot()

			So(st.Volume, ShouldEqual, 0.5)
			So(st.EffectiveVolume(), ShouldEqual, 0)
		})
	})
}

func TestQueueEditing(t *testing.T) {
	Convey("Given queue [A,B,C]", t, func() {
		s := newSession()
		s.SetQueue(tracks("A", "B", "C"))

		Convey("AddToQueue appends to both orders", func() {
			s.AddToQueue(tracks("D")[0])
			st := s.Snapshot()
			So(ids(st.Queue), ShouldResemble, []string{"A", "B", "C", "D"})
			So(ids(st.OriginalQueue), ShouldResemble, []string{"A", "B", "C", "D"})
		})

		Convey("RemoveFromQueue drops by id", func() {
			s.RemoveFromQueue("B")
			So(ids(s.Snapshot().Queue), ShouldResemble, []string{"A", "C"})
			So(ids(s.Snapshot().OriginalQueue), ShouldResemble, []string{"A", "C"})
		})

		Convey("RemoveFromQueueByIndex ignores bad indexes", func() {
			s.RemoveFromQueueByIndex(7)
			s.RemoveFromQueueByIndex(-1)
			So(ids(s.Snapshot().Queue), ShouldResemble, []string{"A", "B", "C"})

			s.RemoveFromQueueByIndex(0)
			So(ids(s.Snapshot().Queue), ShouldResemble, []string{"B", "C"})
			So(ids(s.Snapshot().OriginalQueue), ShouldResemble, []string{"B", "C"})
		})

		Convey("Moves swap neighbours and stop at the edges", func() {
			s.MoveTrackUp(0)
			s.MoveTrackDown(2)
			So(ids(s.Snapshot().Queue), ShouldResemble, []string{"A", "B", "C"})

			s.MoveTrackDown(0)
			So(ids(s.Snapshot().Queue), ShouldResemble, []string{"B", "A", "C"})
			So(ids(s.Snapshot().OriginalQueue), ShouldResemble, []string{"B", "A", "C"})

			s.MoveTrackUp(2)
			So(ids(s.Snapshot().Queue), ShouldResemble, []string{"B", "C", "A"})
		})

		Convey("ClearQueue stops playback", func() {
			s.PlayTrack(tracks("A")[0])
			s.ClearQueue()
			st := s.Snapshot()

			So(st.Queue, ShouldBeEmpty)
			So(st.IsPlaying, ShouldBeFalse)
			So(st.CurrentTrack.IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestTransport(t *testing.T) {
	Convey("Play without a current track is ignored", t, func() {
		s := newSession()
		s.Play()
		So(s.Snapshot().IsPlaying, ShouldBeFalse)
	})

	Convey("TogglePlay flips the flag", t, func() {
		s := newSession()
		s.PlayTrack(tracks("A")[0])
		So(s.Snapshot().IsPlaying, ShouldBeTrue)
		So(s.Snapshot().Duration, ShouldEqual, 180)

		s.TogglePlay()
		So(s.Snapshot().IsPlaying, ShouldBeFalse)
		s.TogglePlay()
		So(s.Snapshot().IsPlaying, ShouldBeTrue)
	})

	Convey("Setters clamp negative positions", t, func() {
		s := newSession()
		s.SetCurrentTime(-4)
		s.SetDuration(-1)
		So(s.Snapshot().CurrentTime, ShouldEqual, 0)
		So(s.Snapshot().Duration, ShouldEqual, 0)
	})

	Convey("Repeat mode cycles none, all, one", t, func() {
		s := newSession()
		s.CycleRepeatMode()
		So(s.Snapshot().RepeatMode, ShouldEqual, RepeatAll)
		s.CycleRepeatMode()
		So(s.Snapshot().RepeatMode, ShouldEqual, RepeatOne)
		s.CycleRepeatMode()
		So(s.Snapshot().RepeatMode, ShouldEqual, RepeatNone)

		s.SetRepeatMode(RepeatMode(9))
		So(s.Snapshot().RepeatMode, ShouldEqual, RepeatNone)
	})

	Convey("Player mode toggles", t, func() {
		s := newSession()
		s.TogglePlayerMode()
		So(s.Snapshot().PlayerMode, ShouldEqual, ModeVideo)
	})
}

func TestSubscribe(t *testing.T) {
	Convey("Given a subscriber", t, func() {
		s := newSession()

		var got []State
		unsubscribe := s.Subscribe(func(prev, next State) {
			got = append(got, prev, next)
		})

		Convey("It sees the state before and after a change", func() {
			s.SetVolume(0.3)
			So(got, ShouldHaveLength, 2)
			So(got[0].Volume, ShouldEqual, DefaultVolume)
			So(got[1].Volume, ShouldEqual, 0.3)
		})

		Convey("Snapshots do not alias the session queue", func() {
			s.SetQueue(tracks("A", "B"))
			got[1].Queue[0].ID = "Z"
			So(s.Snapshot().Queue[0].ID, ShouldEqual, "A")
		})

		Convey("Unsubscribing stops notifications", func() {
			unsubscribe()
			s.SetVolume(0.3)
			So(got, ShouldBeEmpty)
		})

		Convey("A listener may call back into the session", func() {
			s.Subscribe(func(_, next State) {
				if next.IsPlaying && next.Volume != 1 {
					s.SetVolume(1)
				}
			})
			s.PlayTrack(tracks("A")[0])
			So(s.Snapshot().Volume, ShouldEqual, 1)
		})
	})
}

func TestModes(t *testing.T) {
	Convey("Repeat modes parse and print", t, func() {
		m, err := ParseRepeatMode(" ALL ")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, RepeatAll)
		So(m.String(), ShouldEqual, "all")

		_, err = ParseRepeatMode("twice")
		So(err, ShouldNotBeNil)

		var out RepeatMode
		So(out.UnmarshalText([]byte("one")), ShouldBeNil)
		So(out, ShouldEqual, RepeatOne)
	})

	Convey("Player modes parse", t, func() {
		m, err := ParsePlayerMode("video")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, ModeVideo)
		So(m.Toggle(), ShouldEqual, ModeAudio)
	})
}
