// Package poller samples playback position and duration from a widget that
// only answers point-in-time queries.
package poller

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the sampling cadence when none is configured.
const DefaultInterval = 250 * time.Millisecond

// Sampler is the query side of a rendering widget.
type Sampler interface {
	CurrentTime() (float64, error)
	Duration() (float64, error)
}

// Target receives accepted samples, normally a playback session.
type Target interface {
	SetCurrentTime(seconds float64)
	SetDuration(seconds float64)
}

// Sample is one reading. Generation identifies the Start call that produced it.
type Sample struct {
	Generation uint64

	Time    float64
	HasTime bool

	Duration    float64
	HasDuration bool
}

// Sink receives samples from the polling goroutine. It must not block for
// long; the engine forwards them onto its event loop.
type Sink func(Sample)

// Poller runs at most one sampling goroutine at a time.
type Poller struct {
	ctx      context.Context
	sampler  Sampler
	sink     Sink
	interval time.Duration

	mu         sync.Mutex
	cancel     context.CancelFunc
	generation uint64
}

// New creates a stopped poller. Every goroutine it starts ends with ctx.
func New(ctx context.Context, sampler Sampler, sink Sink, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Poller{
		ctx:      ctx,
		sampler:  sampler,
		sink:     sink,
		interval: interval,
	}
}

// Start begins sampling, restarting the interval if already running.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	p.generation++
	ctx, cancel := context.WithCancel(p.ctx)
	p.cancel = cancel

	go p.run(ctx, p.generation)
}

// Stop halts sampling. Stopping a stopped poller does nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}

	p.cancel()
	p.cancel = nil
	p.generation++
}

// Running reports whether a sampling goroutine is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

// Accept reports whether s came from the current run. Samples already in
// flight when Start or Stop was called are stale.
func (p *Poller) Accept(s Sample) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil && s.Generation == p.generation
}

// Apply feeds an accepted sample into t. Negative positions and
// non-positive durations are readings of an unloaded widget and are dropped.
func (p *Poller) Apply(s Sample, t Target) bool {
	if !p.Accept(s) {
		return false
	}

	if s.HasTime && s.Time >= 0 {
		t.SetCurrentTime(s.Time)
	}
	if s.HasDuration && s.Duration > 0 {
		t.SetDuration(s.Duration)
	}
	return true
}

func (p *Poller) run(ctx context.Context, generation uint64) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample := p.sample(generation)
			if ctx.Err() != nil {
				return
			}
			if sample.HasTime || sample.HasDuration {
				p.sink(sample)
			}
		}
	}
}

func (p *Poller) sample(generation uint64) Sample {
	s := Sample{Generation: generation}

	if t, err := p.sampler.CurrentTime(); err == nil {
		s.Time, s.HasTime = t, true
	}
	if d, err := p.sampler.Duration(); err == nil {
		s.Duration, s.HasDuration = d, true
	}

	return s
}
