// Package adapter keeps a rendering widget in step with a playback session.
//
// Session changes become widget commands, and widget lifecycle events become
// session operations. The adapter never assigns session fields directly. All
// methods must be called from the goroutine that owns the session.
package adapter

import (
	"math"

	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/widget"
)

// Controller is the part of playback.Session the adapter drives.
type Controller interface {
	Snapshot() playback.State
	Subscribe(fn playback.Listener) (unsubscribe func())
	Play()
	Pause()
	Next()
	SetCurrentTime(seconds float64)
	SetDuration(seconds float64)
}

// Poller is the progress poller's control surface.
type Poller interface {
	Start()
	Stop()
}

// Seeker moves playback to an absolute position, on the widget and in the
// session at once. It is handed to the transport UI explicitly.
type Seeker interface {
	Seek(seconds float64)
}

// Adapter owns the widget exclusively.
type Adapter struct {
	session Controller
	widget  widget.Widget
	poller  Poller

	state State
	ready bool

	// loadedKey is the media key last sent with LoadMedia.
	loadedKey string

	// consecutive errors since the last successful playback
	errors   int
	skipping bool

	// replaying is set while a seek-to-start issued from Ended is in flight.
	replaying bool

	// syncing is set while the adapter writes a position the widget already has.
	syncing bool

	unsubscribe func()
}

// New attaches to session and w. The widget is expected to emit EventReady
// once it can take commands; until then nothing is sent to it.
func New(session Controller, w widget.Widget, poller Poller) *Adapter {
	a := &Adapter{
		session: session,
		widget:  w,
		poller:  poller,
		state:   Uninitialized,
	}

	a.fire(TriggerConstruct)
	a.unsubscribe = session.Subscribe(a.reconcile)

	return a
}

// State is the current lifecycle state.
func (a *Adapter) State() State {
	return a.state
}

// Seeker returns the seek bridge for the transport UI.
func (a *Adapter) Seeker() Seeker {
	return seeker{a}
}

type seeker struct {
	a *Adapter
}

// Seek is inert until the widget is ready.
func (s seeker) Seek(seconds float64) {
	if !s.a.commandable() {
		return
	}

	seconds = math.Max(0, seconds)
	s.a.command("seek", s.a.widget.Seek(seconds))
	s.a.syncTime(seconds)
}

// Progress is the target for poller samples. Positions read from the widget
// are written to the session without being echoed back as seeks.
type Progress struct {
	a *Adapter
}

// Progress returns the sample target for the progress poller.
func (a *Adapter) Progress() Progress {
	return Progress{a}
}

func (p Progress) SetCurrentTime(seconds float64) {
	p.a.syncTime(seconds)
}

func (p Progress) SetDuration(seconds float64) {
	p.a.session.SetDuration(seconds)
}

// syncTime records a position the widget is already at.
func (a *Adapter) syncTime(seconds float64) {
	a.syncing = true
	defer func() { a.syncing = false }()
	a.session.SetCurrentTime(seconds)
}

// fire applies a trigger. Triggers with no transition from the current state are dropped.
func (a *Adapter) fire(t Trigger) bool {
	to, ok := next(a.state, t)
	if !ok {
		log.WithField("state", a.state.String()).
			WithField("trigger", t.String()).
			Debugf("ignoring widget trigger")
		return false
	}

	log.WithField("from", a.state.String()).WithField("to", to.String()).Debugf("widget transition")
	a.state = to
	return true
}

func (a *Adapter) commandable() bool {
	return a.ready && a.state != Destroyed
}

// command logs a failed widget command. Failures are never surfaced: the
// next reconciliation retries implicitly.
func (a *Adapter) command(name string, err error) {
	if err != nil {
		log.WithField("command", name).Debugf("widget command failed: %v", err)
	}
}

// HandleEvent feeds one widget event into the lifecycle.
func (a *Adapter) HandleEvent(e widget.Event) {
	switch e.Kind {
	case widget.EventReady:
		a.onReady()
	case widget.EventError:
		a.onError(e)
	case widget.EventStateChanged:
		a.onStateChanged(e.State)
	}
}

func (a *Adapter) onReady() {
	if !a.fire(TriggerReady) {
		return
	}

	a.ready = true
	a.loadedKey = ""

	st := a.session.Snapshot()
	a.applyVolume(st)
	a.applyMode(st)
	a.reconcileTrack(st)
}

func (a *Adapter) onStateChanged(s widget.State) {
	var trigger Trigger
	switch s {
	case widget.StatePlaying:
		trigger = TriggerPlaying
	case widget.StatePaused:
		trigger = TriggerPaused
	case widget.StateBuffering:
		trigger = TriggerBuffering
	case widget.StateEnded:
		trigger = TriggerEnded
	case widget.StateCued, widget.StateUnstarted:
		trigger = TriggerCued
	default:
		return
	}

	if !a.fire(trigger) {
		return
	}
	a.replaying = false

	switch trigger {
	case TriggerPlaying:
		a.errors = 0
		a.session.Play()
		a.poller.Start()
	case TriggerPaused:
		a.poller.Stop()
		a.session.Pause()
	case TriggerBuffering:
		a.poller.Start()
	case TriggerEnded:
		a.poller.Stop()
		a.onEnded()
	case TriggerCued:
		a.poller.Stop()
	}
}

func (a *Adapter) onEnded() {
	if a.session.Snapshot().RepeatMode == playback.RepeatOne {
		a.replay()
		a.syncTime(0)
		return
	}

	key := a.loadedKey
	a.skip()

	// wrapping onto the same media may not change the session at all
	st := a.session.Snapshot()
	if st.MediaKey() == key && st.IsPlaying && a.state == Ended && !a.replaying {
		a.replay()
	}
}

// onError skips the unplayable item. Once every queue entry has failed in a
// row, playback pauses instead, so a queue of broken items terminates even
// under repeat all.
func (a *Adapter) onError(e widget.Event) {
	a.fail(e.Code, e.Err)
}

// fail treats the loaded media as unplayable, whether the widget reported it
// or refused to load it.
func (a *Adapter) fail(code string, err error) {
	if !a.fire(TriggerError) {
		return
	}

	a.poller.Stop()
	log.WithField("code", code).
		WithField("media", a.loadedKey).
		Warnf("widget could not play media: %v", err)

	if !a.ready {
		return
	}

	a.errors++
	if a.errors >= len(a.session.Snapshot().Queue) {
		log.Warnf("%d consecutive playback errors, pausing", a.errors)
		a.session.Pause()
		return
	}

	a.skip()
}

// skip advances the session on the adapter's own behalf.
func (a *Adapter) skip() {
	a.skipping = true
	defer func() { a.skipping = false }()
	a.session.Next()
}

// replay restarts the loaded media from the beginning.
func (a *Adapter) replay() {
	a.replaying = true
	a.command("seek", a.widget.Seek(0))
	a.command("play", a.widget.Play())
}

// Destroy releases the widget and halts the poller. Calling it again does nothing.
func (a *Adapter) Destroy() {
	if !a.fire(TriggerDestroy) {
		return
	}

	a.poller.Stop()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.command("destroy", a.widget.Destroy())
}

// reconcile mirrors a session change onto the widget.
func (a *Adapter) reconcile(prev, next playback.State) {
	if !a.commandable() {
		return
	}

	if prev.EffectiveVolume() != next.EffectiveVolume() || prev.IsMuted != next.IsMuted {
		a.applyVolume(next)
	}

	if prev.PlayerMode != next.PlayerMode {
		a.applyMode(next)
	}

	if a.restarted(prev, next) {
		a.command("seek", a.widget.Seek(0))
	}

	a.reconcileTrack(next)
}

// restarted reports a rewind of the loaded media to 0 made by a session
// operation such as Previous, which the widget has not seen.
func (a *Adapter) restarted(prev, next playback.State) bool {
	if a.syncing || a.skipping {
		return false
	}

	key := next.MediaKey()
	return key != "" && key == prev.MediaKey() && key == a.loadedKey &&
		prev.CurrentTime > 0 && next.CurrentTime == 0
}

// reconcileTrack loads a changed media key, then lines up play/pause.
func (a *Adapter) reconcileTrack(st playback.State) {
	key := st.MediaKey()

	if key == "" {
		if a.loadedKey != "" {
			a.poller.Stop()
			a.command("pause", a.widget.Pause())
			a.loadedKey = ""
		}
		return
	}

	if key != a.loadedKey {
		if !a.skipping {
			a.errors = 0
		}

		log.WithField("media", key).Infof("loading media")
		a.loadedKey = key
		a.replaying = false
		if err := a.widget.LoadMedia(key); err != nil {
			a.fail("load", err)
			return
		}
		a.fire(TriggerCued)
		a.poller.Start()

		if st.IsPlaying {
			a.command("play", a.widget.Play())
		} else {
			a.command("pause", a.widget.Pause())
		}
		return
	}

	a.reconcilePlayback(st)
}

// reconcilePlayback commands the widget only when the session disagrees with
// what the widget last reported.
func (a *Adapter) reconcilePlayback(st playback.State) {
	switch a.state {
	case Ended:
		// same media asked to play again after it finished
		if st.IsPlaying && !a.replaying {
			a.replay()
		}
	case PlayingExternal, BufferingExternal:
		if !st.IsPlaying {
			a.command("pause", a.widget.Pause())
		}
	default:
		if st.IsPlaying {
			a.command("play", a.widget.Play())
		}
	}
}

func (a *Adapter) applyVolume(st playback.State) {
	percent := int(math.Round(st.EffectiveVolume() * 100))
	a.command("volume", a.widget.SetVolume(percent))

	if st.IsMuted {
		a.command("mute", a.widget.Mute())
	} else {
		a.command("unmute", a.widget.Unmute())
	}
}

func (a *Adapter) applyMode(st playback.State) {
	toggler, ok := a.widget.(widget.VideoToggler)
	if !ok {
		return
	}
	a.command("video", toggler.SetVideo(st.PlayerMode == playback.ModeVideo))
}
