package bridge

import (
	"fmt"
	"sync"
	"time"
)

// Mode is the phase of the focus/break timer.
type Mode string

const (
	ModeFocus Mode = "focus"
	ModeBreak Mode = "break"
)

// Snapshot is the read-only countdown state shown in the HUD.
type Snapshot struct {
	Remaining time.Duration
	Mode      Mode
	Running   bool
}

// Seconds returns the remaining time in whole seconds, rounded up.
func (s Snapshot) Seconds() int {
	if s.Remaining <= 0 {
		return 0
	}
	return int((s.Remaining + time.Second - 1) / time.Second)
}

// Label formats the snapshot as "FOCUS 24:59". It is empty when no timer is
// attached.
func (s Snapshot) Label() string {
	if s.Mode == "" {
		return ""
	}
	secs := s.Seconds()
	name := "FOCUS"
	if s.Mode == ModeBreak {
		name = "BREAK"
	}
	return fmt.Sprintf("%s %02d:%02d", name, secs/60, secs%60)
}

// Source provides countdown snapshots to the render loop.
type Source interface {
	Snapshot() Snapshot
}

// Countdown is a local focus/break timer. When a bridge is connected the
// host's timer messages overwrite it through Set.
type Countdown struct {
	mu sync.Mutex

	now   func() time.Time
	focus time.Duration
	brk   time.Duration

	mode      Mode
	remaining time.Duration
	running   bool
	since     time.Time
}

// NewCountdown creates a paused countdown at the start of a focus phase. A
// nil now uses time.Now.
func NewCountdown(focus, brk time.Duration, now func() time.Time) *Countdown {
	if focus <= 0 {
		focus = 25 * time.Minute
	}
	if brk <= 0 {
		brk = 5 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Countdown{now: now, focus: focus, brk: brk, mode: ModeFocus, remaining: focus}
}

func (c *Countdown) Start() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.since = c.now()
}

func (c *Countdown) Pause() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	c.running = false
}

func (c *Countdown) Running() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Countdown) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.advanceLocked()
	return Snapshot{Remaining: c.remaining, Mode: c.mode, Running: c.running}
}

// Set replaces the countdown state with values reported by the host.
func (c *Countdown) Set(s Snapshot) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.Mode == ModeFocus || s.Mode == ModeBreak {
		c.mode = s.Mode
	}
	c.remaining = s.Remaining
	c.running = s.Running
	c.since = c.now()
}

func (c *Countdown) advanceLocked() {
	if !c.running {
		return
	}
	now := c.now()
	c.remaining -= now.Sub(c.since)
	c.since = now
	for c.remaining <= 0 {
		if c.mode == ModeFocus {
			c.mode = ModeBreak
			c.remaining += c.brk
		} else {
			c.mode = ModeFocus
			c.remaining += c.focus
		}
	}
}
