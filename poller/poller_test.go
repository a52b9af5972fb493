package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeSampler struct {
	time     atomic.Int64
	duration float64
	failTime bool
}

func (f *fakeSampler) CurrentTime() (float64, error) {
	if f.failTime {
		return 0, errors.New("property unavailable")
	}
	return float64(f.time.Add(1)), nil
}

func (f *fakeSampler) Duration() (float64, error) {
	return f.duration, nil
}

type target struct {
	time, duration float64
}

func (t *target) SetCurrentTime(s float64) { t.time = s }
func (t *target) SetDuration(s float64) { t.duration = s }

func receive(samples <-chan Sample) Sample {
	select {
	case s := <-samples:
		return s
	case <-time.After(2 * time.Second):
		panic("no sample received")
	}
}

func TestPoller(t *testing.T) {
	Convey("Given a poller over a sampler", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sampler := &fakeSampler{duration: 200}
		samples := make(chan Sample, 128)
		p := New(ctx, sampler, func(s Sample) { samples <- s }, 5*time.Millisecond)

		Convey("A stopped poller accepts nothing and Stop is a no-op", func() {
			So(p.Running(), ShouldBeFalse)
			p.Stop()
			So(p.Running(), ShouldBeFalse)
			So(p.Accept(Sample{}), ShouldBeFalse)
		})

		Convey("Started, it delivers samples that are applied", func() {
			p.Start()
			defer p.Stop()

			s := receive(samples)
			So(s.HasTime, ShouldBeTrue)
			So(s.Duration, ShouldEqual, 200)

			tgt := &target{}
			So(p.Apply(s, tgt), ShouldBeTrue)
			So(tgt.time, ShouldEqual, s.Time)
			So(tgt.duration, ShouldEqual, 200)
		})

		Convey("Restarting makes in-flight samples stale", func() {
			p.Start()
			old := receive(samples)

			p.Start()
			defer p.Stop()

			So(p.Accept(old), ShouldBeFalse)

			var fresh Sample
			for {
				fresh = receive(samples)
				if fresh.Generation != old.Generation {
					break
				}
			}
			So(p.Accept(fresh), ShouldBeTrue)
		})

		Convey("Stopping rejects everything delivered before it", func() {
			p.Start()
			s := receive(samples)
			p.Stop()

			tgt := &target{}
			So(p.Apply(s, tgt), ShouldBeFalse)
			So(tgt.time, ShouldEqual, 0)
		})

		Convey("Unloaded readings are not applied", func() {
			p.Start()
			defer p.Stop()

			tgt := &target{time: 7, duration: 9}
			p.Apply(Sample{Generation: p.generation, Time: -1, HasTime: true, Duration: 0, HasDuration: true}, tgt)
			So(tgt.time, ShouldEqual, 7)
			So(tgt.duration, ShouldEqual, 9)
		})

		Convey("Failed queries leave the field unset", func() {
			sampler.failTime = true
			p.Start()
			defer p.Stop()

			s := receive(samples)
			So(s.HasTime, ShouldBeFalse)
			So(s.HasDuration, ShouldBeTrue)
		})
	})
}
