package engine

import (
	"context"
	"sync"
	"time"

	"github.com/milk9111/breakrun/common"
)

// Loop throttles simulation ticks to a fixed rate while rendering on every
// display refresh. At most one tick runs per frame: when the host falls
// behind, the backlog is dropped and only the remainder of the elapsed time
// carries over.
type Loop struct {
	interval time.Duration
	tick     func()
	render   func()

	mu      sync.Mutex
	last    time.Time
	primed  bool
	stopped bool
	ticks   uint64
	frames  uint64
}

// NewLoop creates a loop running tick at tps ticks per second. Either
// callback may be nil.
func NewLoop(tps int, tick, render func()) *Loop {
	return &Loop{
		interval: common.FrameInterval(tps),
		tick:     tick,
		render:   render,
	}
}

func (l *Loop) Interval() time.Duration {
	if l == nil {
		return 0
	}
	return l.interval
}

// Frame is called on every display refresh with the current monotonic time.
// It reports whether a simulation tick ran. The first call only records the
// timestamp.
func (l *Loop) Frame(now time.Time) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return false
	}

	ticked := false
	if !l.primed {
		l.last = now
		l.primed = true
	} else if elapsed := now.Sub(l.last); elapsed > l.interval {
		if l.tick != nil {
			l.tick()
		}
		l.ticks++
		l.last = now.Add(-(elapsed % l.interval))
		ticked = true
	}

	l.frames++
	if l.render != nil {
		l.render()
	}
	return ticked
}

// Stop cancels the loop. It waits for an in-flight frame, so no tick runs
// after it returns. It must not be called from inside a tick or render
// callback.
func (l *Loop) Stop() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
}

func (l *Loop) Stopped() bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Ticks returns how many simulation ticks have run.
func (l *Loop) Ticks() uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ticks
}

// Frames returns how many frames were processed.
func (l *Loop) Frames() uint64 {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Run drives Frame from a channel of timestamps until the channel closes,
// the loop is stopped, or ctx is done.
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	if l == nil {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			l.Frame(now)
			if l.Stopped() {
				return nil
			}
		}
	}
}
