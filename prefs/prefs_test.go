package prefs

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/filesystem"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/track"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPreferences(t *testing.T) {
	Convey("Given a session with changed preferences", t, func() {
		s := playback.New()
		s.SetQueue([]track.Track{{ID: "a"}, {ID: "b"}})
		s.SetVolume(0.35)
		s.SetRepeatMode(playback.RepeatOne)
		s.ToggleShuffle()

		p := FromState(s.Snapshot())

		Convey("The projection holds only the three fields", func() {
			So(p, ShouldResemble, Preferences{Volume: 0.35, RepeatMode: playback.RepeatOne, Shuffled: true})
		})

		Convey("It survives a save and load", func() {
			So(Save(p), ShouldBeNil)

			loaded, ok, err := Load()
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(loaded, ShouldResemble, p)

			Convey("And restores onto a fresh session", func() {
				fresh := playback.New()
				loaded.Apply(fresh)
				st := fresh.Snapshot()

				So(st.Volume, ShouldEqual, 0.35)
				So(st.RepeatMode, ShouldEqual, playback.RepeatOne)
				So(st.IsShuffled, ShouldBeTrue)
				So(st.Queue, ShouldBeEmpty)
				So(st.CurrentTrack.IsAbsent(), ShouldBeTrue)
			})
		})
	})

	Convey("A saved volume of 0 restores unmuted", t, func() {
		fresh := playback.New()
		Preferences{Volume: 0, RepeatMode: playback.RepeatNone}.Apply(fresh)
		st := fresh.Snapshot()

		So(st.Volume, ShouldEqual, 0)
		So(st.IsMuted, ShouldBeFalse)
	})

	Convey("Changed ignores fields outside the projection", t, func() {
		s := playback.New()
		before := s.Snapshot()
		s.SetCurrentTime(12)
		s.ToggleMute()
		So(Changed(before, s.Snapshot()), ShouldBeFalse)

		s.SetVolume(0.1)
		So(Changed(before, s.Snapshot()), ShouldBeTrue)
	})
}
