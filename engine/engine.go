// Package engine runs the playback event loop: user commands, widget events
// and poller samples are applied one at a time on a single goroutine, the only
// one that ever touches the session.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/ytfree-cli/ytfree/adapter"
	"github.com/ytfree-cli/ytfree/history"
	"github.com/ytfree-cli/ytfree/log"
	"github.com/ytfree-cli/ytfree/playback"
	"github.com/ytfree-cli/ytfree/poller"
	"github.com/ytfree-cli/ytfree/prefs"
	"github.com/ytfree-cli/ytfree/widget"
)

// ErrWidgetClosed is returned by Run when the widget stops emitting events.
var ErrWidgetClosed = errors.New("rendering widget closed")

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("engine stopped")

// Command runs on the loop with exclusive access to the session.
type Command func(s *playback.Session)

// Engine serializes everything that mutates a playback session.
type Engine struct {
	session *playback.Session
	widget  widget.Widget
	adapter *adapter.Adapter
	poller  *poller.Poller

	commands chan Command
	samples  chan poller.Sample
	done     chan struct{}
	stopOnce sync.Once

	persist bool
	history bool

	mu          sync.Mutex
	subscribers map[int]func(playback.State)
	nextID      int
}

type options struct {
	interval time.Duration
	persist  bool
	history  bool
}

// Option configures an Engine.
type Option func(*options)

// WithPollInterval sets the progress sampling cadence.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithPreferences restores the saved preferences and saves them on every change.
func WithPreferences() Option {
	return func(o *options) { o.persist = true }
}

// WithHistory records every track that starts playing.
func WithHistory() Option {
	return func(o *options) { o.history = true }
}

// New wires session and w together. The poller lives until ctx ends.
func New(ctx context.Context, session *playback.Session, w widget.Widget, opts ...Option) *Engine {
	o := options{interval: poller.DefaultInterval}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{
		session:     session,
		widget:      w,
		commands:    make(chan Command),
		samples:     make(chan poller.Sample, 1),
		done:        make(chan struct{}),
		persist:     o.persist,
		history:     o.history,
		subscribers: make(map[int]func(playback.State)),
	}

	if e.persist {
		e.restore()
	}

	e.poller = poller.New(ctx, w, e.deliver, o.interval)
	e.adapter = adapter.New(session, w, e.poller)
	session.Subscribe(e.changed)

	return e
}

func (e *Engine) restore() {
	saved, ok, err := prefs.Load()
	if err != nil {
		log.Warnf("load preferences: %v", err)
		return
	}
	if ok {
		saved.Apply(e.session)
	}
}

// deliver hands a sample from the poller goroutine to the loop.
func (e *Engine) deliver(s poller.Sample) {
	select {
	case e.samples <- s:
	case <-e.done:
	}
}

// Run processes events until ctx ends or the widget goes away. The widget is
// destroyed on return.
func (e *Engine) Run(ctx context.Context) error {
	defer e.stop()

	events := e.widget.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return ErrWidgetClosed
			}
			log.WithField("event", ev.String()).Debugf("widget event")
			e.adapter.HandleEvent(ev)
		case s := <-e.samples:
			e.poller.Apply(s, e.adapter.Progress())
		case cmd := <-e.commands:
			cmd(e.session)
		}
	}
}

func (e *Engine) stop() {
	e.stopOnce.Do(func() {
		e.adapter.Destroy()
		close(e.done)
	})
}

// Do runs cmd on the loop and waits for it to be picked up.
func (e *Engine) Do(cmd Command) error {
	select {
	case e.commands <- cmd:
		return nil
	case <-e.done:
		return ErrStopped
	}
}

// Seeker is the seek bridge for the transport UI. Seeks are posted to the loop.
func (e *Engine) Seeker() adapter.Seeker {
	return seeker{e}
}

type seeker struct {
	e *Engine
}

func (s seeker) Seek(seconds float64) {
	_ = s.e.Do(func(*playback.Session) {
		s.e.adapter.Seeker().Seek(seconds)
	})
}

// Subscribe registers fn for every state change. fn runs on the loop and must not block.
func (e *Engine) Subscribe(fn func(playback.State)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.subscribers[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subscribers, id)
	}
}

func (e *Engine) changed(prev, next playback.State) {
	if e.persist && prefs.Changed(prev, next) {
		if err := prefs.Save(prefs.FromState(next)); err != nil {
			log.Warnf("save preferences: %v", err)
		}
	}

	if e.history && startedNewTrack(prev, next) {
		current, _ := next.CurrentTrack.Get()
		if err := history.Record(current); err != nil {
			log.Warnf("record history: %v", err)
		}
	}

	e.mu.Lock()
	subscribers := lo.Values(e.subscribers)
	e.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
}

func startedNewTrack(prev, next playback.State) bool {
	current, ok := next.CurrentTrack.Get()
	if !ok || !next.IsPlaying {
		return false
	}

	previous, had := prev.CurrentTrack.Get()
	return !had || previous.ID != current.ID
}
