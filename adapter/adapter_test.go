package adapter

import (
	"fmt"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/track"
	"github.com/ytfree-cli/ytfree/widget"
)

type fakeWidget struct {
	commands []string
	state    widget.State
	events   chan widget.Event

	// media keys LoadMedia refuses
	rejected map[string]bool
}

func newFakeWidget() *fakeWidget {
	return &fakeWidget{events: make(chan widget.Event)}
}

func (f *fakeWidget) record(format string, args ...any) error {
	f.commands = append(f.commands, fmt.Sprintf(format, args...))
	return nil
}

func (f *fakeWidget) LoadMedia(key string) error {
	if f.rejected[key] {
		f.record("reject:%s", key)
		return fmt.Errorf("cannot load %s", key)
	}
	return f.record("load:%s", key)
}

func (f *fakeWidget) Play() error { return f.record("play") }
func (f *fakeWidget) Pause() error { return f.record("pause") }
func (f *fakeWidget) Seek(seconds float64) error { return f.record("seek:%g", seconds) }
func (f *fakeWidget) SetVolume(percent int) error { return f.record("volume:%d", percent) }
func (f *fakeWidget) Mute() error { return f.record("mute") }
func (f *fakeWidget) Unmute() error { return f.record("unmute") }
func (f *fakeWidget) CurrentTime() (float64, error) { return 0, nil }
func (f *fakeWidget) Duration() (float64, error) { return 0, nil }
func (f *fakeWidget) State() widget.State { return f.state }
func (f *fakeWidget) Destroy() error { return f.record("destroy") }
func (f *fakeWidget) Events() <-chan widget.Event { return f.events }
func (f *fakeWidget) SetVideo(enabled bool) error { return f.record("video:%t", enabled) }

func (f *fakeWidget) count(command string) int {
	return lo.Count(f.commands, command)
}

func (f *fakeWidget) reset() {
	f.commands = nil
}

type fakePoller struct {
	running bool
	starts  int
}

func (p *fakePoller) Start() { p.running = true; p.starts++ }
func (p *fakePoller) Stop()  { p.running = false }

func tracks(ids ...string) []track.Track {
	return lo.Map(ids, func(id string, _ int) track.Track {
		return track.Track{ID: id, Title: id, MediaKey: "key-" + id, Duration: 100}
	})
}

func stateChanged(s widget.State) widget.Event {
	return widget.Event{Kind: widget.EventStateChanged, State: s}
}

func failed() widget.Event {
	return widget.Event{Kind: widget.EventError, Code: "loading failed", Err: fmt.Errorf("loading failed")}
}

type fixture struct {
	session *playback.Session
	widget  *fakeWidget
	poller  *fakePoller
	adapter *Adapter
}

func newFixture() fixture {
	f := fixture{
		session: playback.New(),
		widget:  newFakeWidget(),
		poller:  &fakePoller{},
	}
	f.adapter = New(f.session, f.widget, f.poller)
	return f
}

// started readies the widget and reports the current media as playing.
func (f fixture) started() {
	f.adapter.HandleEvent(widget.Event{Kind: widget.EventReady})
	f.adapter.HandleEvent(stateChanged(widget.StatePlaying))
}

func currentID(s *playback.Session) string {
	return s.Snapshot().CurrentTrack.OrEmpty().ID
}

func TestLifecycle(t *testing.T) {
	Convey("Given a new adapter", t, func() {
		f := newFixture()
		So(f.adapter.State(), ShouldEqual, Loading)

		Convey("Nothing is sent before the widget is ready", func() {
			f.session.PlayPlaylist(tracks("A", "B"), 0)
			f.session.SetVolume(0.4)
			f.adapter.Seeker().Seek(20)

			So(f.widget.commands, ShouldBeEmpty)
			So(f.session.Snapshot().CurrentTime, ShouldEqual, 0)

			Convey("Ready reconciles everything that accumulated", func() {
				f.adapter.HandleEvent(widget.Event{Kind: widget.EventReady})

				So(f.adapter.State(), ShouldEqual, Ready)
				So(f.widget.commands, ShouldContain, "volume:40")
				So(f.widget.commands, ShouldContain, "unmute")
				So(f.widget.commands, ShouldContain, "video:false")
				So(f.widget.commands, ShouldContain, "load:key-A")
				So(f.widget.commands, ShouldContain, "play")
				So(f.poller.running, ShouldBeTrue)
			})
		})

		Convey("Triggers with no transition are ignored", func() {
			f.adapter.HandleEvent(stateChanged(widget.StatePlaying))
			So(f.adapter.State(), ShouldEqual, Loading)
			So(f.poller.running, ShouldBeFalse)
		})

		Convey("A muted session readies the widget muted", func() {
			f.session.SetVolume(0.7)
			f.session.ToggleMute()
			f.adapter.HandleEvent(widget.Event{Kind: widget.EventReady})

			So(f.widget.commands, ShouldContain, "volume:0")
			So(f.widget.commands, ShouldContain, "mute")
			So(f.session.Snapshot().Volume, ShouldEqual, 0.7)
		})

		Convey("Destroy releases the widget once", func() {
			f.started()
			f.adapter.Destroy()
			f.adapter.Destroy()

			So(f.adapter.State(), ShouldEqual, Destroyed)
			So(f.widget.count("destroy"), ShouldEqual, 1)
			So(f.poller.running, ShouldBeFalse)

			f.widget.reset()
			f.session.PlayTrack(tracks("Z")[0])
			So(f.widget.commands, ShouldBeEmpty)
		})
	})
}

func TestEnded(t *testing.T) {
	Convey("Given queue [A,B] playing A with repeat none", t, func() {
		f := newFixture()
		f.session.PlayPlaylist(tracks("A", "B"), 0)
		f.started()
		f.session.SetCurrentTime(99)

		Convey("The first end advances to B", func() {
			f.widget.reset()
			f.adapter.HandleEvent(stateChanged(widget.StateEnded))

			st := f.session.Snapshot()
			So(currentID(f.session), ShouldEqual, "B")
			So(st.CurrentTime, ShouldEqual, 0)
			So(st.IsPlaying, ShouldBeTrue)
			So(f.widget.commands, ShouldContain, "load:key-B")

			Convey("The second end exhausts the queue", func() {
				f.adapter.HandleEvent(stateChanged(widget.StatePlaying))
				f.widget.reset()
				f.adapter.HandleEvent(stateChanged(widget.StateEnded))

				st := f.session.Snapshot()
				So(currentID(f.session), ShouldEqual, "B")
				So(st.IsPlaying, ShouldBeFalse)
				So(f.widget.commands, ShouldNotContain, "load:key-B")
				So(f.poller.running, ShouldBeFalse)

				Convey("Pressing play again restarts the finished media", func() {
					f.session.Play()
					So(f.widget.commands, ShouldContain, "seek:0")
					So(f.widget.commands, ShouldContain, "play")
				})
			})
		})
	})

	Convey("Given repeat one on A", t, func() {
		f := newFixture()
		f.session.PlayPlaylist(tracks("A", "B"), 0)
		f.session.SetRepeatMode(playback.RepeatOne)
		f.started()
		f.session.SetCurrentTime(99)
		f.widget.reset()

		f.adapter.HandleEvent(stateChanged(widget.StateEnded))

		Convey("The widget is rewound directly and the queue is not advanced", func() {
			So(currentID(f.session), ShouldEqual, "A")
			So(f.session.Snapshot().CurrentTime, ShouldEqual, 0)
			So(f.widget.commands, ShouldResemble, []string{"seek:0", "play"})
		})
	})

	Convey("Given a single track under repeat all", t, func() {
		f := newFixture()
		f.session.SetRepeatMode(playback.RepeatAll)
		f.session.PlayPlaylist(tracks("A"), 0)
		f.started()
		f.widget.reset()

		f.adapter.HandleEvent(stateChanged(widget.StateEnded))

		Convey("Wrapping onto the same media replays it without reloading", func() {
			So(currentID(f.session), ShouldEqual, "A")
			So(f.widget.count("load:key-A"), ShouldEqual, 0)
			So(f.widget.count("seek:0"), ShouldEqual, 1)
			So(f.widget.count("play"), ShouldEqual, 1)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given queue [A,B,C] playing A", t, func() {
		f := newFixture()
		f.session.PlayPlaylist(tracks("A", "B", "C"), 0)
		f.started()

		Convey("An error skips like an end under repeat none", func() {
			f.adapter.HandleEvent(failed())

			So(currentID(f.session), ShouldEqual, "B")
			So(f.session.Snapshot().IsPlaying, ShouldBeTrue)
			So(f.widget.commands, ShouldContain, "load:key-B")
		})

		Convey("A queue of unplayable items terminates under repeat none", func() {
			for range 10 {
				f.adapter.HandleEvent(failed())
			}

			So(currentID(f.session), ShouldEqual, "C")
			So(f.session.Snapshot().IsPlaying, ShouldBeFalse)
			So(f.widget.count("load:key-C"), ShouldEqual, 1)
		})

		Convey("A queue of unplayable items terminates under repeat all", func() {
			f.session.SetRepeatMode(playback.RepeatAll)
			f.widget.reset()

			for range 10 {
				f.adapter.HandleEvent(failed())
			}

			So(f.session.Snapshot().IsPlaying, ShouldBeFalse)
			loads := lo.Filter(f.widget.commands, func(c string, _ int) bool {
				return len(c) > 5 && c[:5] == "load:"
			})
			So(loads, ShouldResemble, []string{"load:key-B", "load:key-C"})
		})

		Convey("A load the widget refuses skips to the next item", func() {
			f.widget.rejected = map[string]bool{"key-B": true}
			f.session.Next()

			So(f.widget.commands, ShouldContain, "reject:key-B")
			So(f.widget.commands, ShouldContain, "load:key-C")
			So(currentID(f.session), ShouldEqual, "C")
			So(f.session.Snapshot().IsPlaying, ShouldBeTrue)
			So(f.adapter.State(), ShouldEqual, Ready)
		})

		Convey("A queue the widget refuses entirely pauses", func() {
			f.session.SetRepeatMode(playback.RepeatAll)
			f.widget.rejected = map[string]bool{"key-A": true, "key-B": true, "key-C": true}
			f.widget.reset()
			f.session.Next()

			So(f.session.Snapshot().IsPlaying, ShouldBeFalse)
			So(f.adapter.State(), ShouldEqual, Errored)
			So(f.poller.running, ShouldBeFalse)
			So(f.widget.commands, ShouldNotContain, "play")
		})

		Convey("Successful playback resets the error count", func() {
			f.session.SetRepeatMode(playback.RepeatAll)
			f.adapter.HandleEvent(failed())
			f.adapter.HandleEvent(failed())
			f.adapter.HandleEvent(stateChanged(widget.StatePlaying))
			f.adapter.HandleEvent(failed())

			So(currentID(f.session), ShouldEqual, "A")
			So(f.session.Snapshot().IsPlaying, ShouldBeTrue)
		})
	})
}

func TestReconcile(t *testing.T) {
	Convey("Given a playing widget", t, func() {
		f := newFixture()
		f.session.PlayPlaylist(tracks("A", "B"), 0)
		f.started()
		f.widget.reset()

		Convey("Re-selecting the loaded track does not reload it", func() {
			f.session.PlayTrack(tracks("A")[0])
			So(f.widget.count("load:key-A"), ShouldEqual, 0)
		})

		Convey("Selecting another track loads it and restarts the poller", func() {
			starts := f.poller.starts
			f.session.PlayTrack(tracks("B")[0])

			So(f.widget.commands, ShouldContain, "load:key-B")
			So(f.poller.starts, ShouldEqual, starts+1)
		})

		Convey("Pausing the session pauses the widget once", func() {
			f.session.Pause()
			So(f.widget.commands, ShouldResemble, []string{"pause"})

			f.adapter.HandleEvent(stateChanged(widget.StatePaused))
			So(f.widget.commands, ShouldResemble, []string{"pause"})
			So(f.adapter.State(), ShouldEqual, PausedExternal)
			So(f.poller.running, ShouldBeFalse)
		})

		Convey("A pause from the widget pauses the session", func() {
			f.adapter.HandleEvent(stateChanged(widget.StatePaused))
			So(f.session.Snapshot().IsPlaying, ShouldBeFalse)
			So(f.widget.commands, ShouldBeEmpty)
		})

		Convey("Volume and mute are mirrored", func() {
			f.session.SetVolume(0.25)
			So(f.widget.commands, ShouldResemble, []string{"volume:25", "unmute"})

			f.widget.reset()
			f.session.ToggleMute()
			So(f.widget.commands, ShouldResemble, []string{"volume:0", "mute"})
		})

		Convey("Player mode is mirrored", func() {
			f.session.TogglePlayerMode()
			So(f.widget.commands, ShouldResemble, []string{"video:true"})
		})

		Convey("The seeker moves the widget and the session together", func() {
			f.adapter.Seeker().Seek(42)
			So(f.widget.commands, ShouldResemble, []string{"seek:42"})
			So(f.session.Snapshot().CurrentTime, ShouldEqual, 42)
		})

		Convey("Restarting the current track rewinds the widget", func() {
			f.session.PlayTrack(tracks("B")[0])
			f.adapter.HandleEvent(stateChanged(widget.StatePlaying))
			f.adapter.Progress().SetCurrentTime(50)
			f.widget.reset()

			f.session.Previous()

			So(currentID(f.session), ShouldEqual, "B")
			So(f.session.Snapshot().CurrentTime, ShouldEqual, 0)
			So(f.widget.commands, ShouldResemble, []string{"seek:0"})
		})

		Convey("Positions read from the widget are not sent back", func() {
			f.adapter.Progress().SetCurrentTime(50)
			f.adapter.Progress().SetCurrentTime(0)
			f.adapter.Progress().SetDuration(180)

			So(f.session.Snapshot().CurrentTime, ShouldEqual, 0)
			So(f.session.Snapshot().Duration, ShouldEqual, 180)
			So(f.widget.commands, ShouldBeEmpty)
		})

		Convey("Clearing the queue pauses the widget", func() {
			f.session.ClearQueue()
			So(f.widget.commands, ShouldContain, "pause")
			So(f.poller.running, ShouldBeFalse)
		})
	})
}

func TestTransitions(t *testing.T) {
	Convey("Every state but Destroyed can be destroyed", t, func() {
		for s := range stateNames {
			to, ok := next(s, TriggerDestroy)
			if s == Destroyed {
				So(ok, ShouldBeFalse)
				continue
			}
			So(ok, ShouldBeTrue)
			So(to, ShouldEqual, Destroyed)
		}
	})

	Convey("Errors can repeat", t, func() {
		to, ok := next(Errored, TriggerError)
		So(ok, ShouldBeTrue)
		So(to, ShouldEqual, Errored)
	})
}
