package sound

import (
	"errors"
	"log"
	"sync"
	"time"
)

// Clip is one loaded sound effect.
type Clip interface {
	Play(volume float64) error
	Close() error
}

type entry struct {
	clip        Clip
	volume      float64
	minInterval time.Duration
	last        time.Time
	played      bool
	failed      bool
}

// Bank owns the game's sound effects. Repeats of the same clip inside its
// minimum interval are dropped. Playback errors are logged once per clip and
// never reach the simulation.
type Bank struct {
	mu     sync.Mutex
	now    func() time.Time
	master float64
	clips  map[string]*entry
	closed bool
}

// NewBank creates an empty bank. A nil now uses time.Now.
func NewBank(master float64, now func() time.Time) *Bank {
	if now == nil {
		now = time.Now
	}
	return &Bank{now: now, master: master, clips: make(map[string]*entry)}
}

// Add registers clip under name, replacing an existing clip.
func (b *Bank) Add(name string, clip Clip, volume float64, minInterval time.Duration) {
	if b == nil || clip == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		_ = clip.Close()
		return
	}
	if old, ok := b.clips[name]; ok {
		_ = old.clip.Close()
	}
	if volume <= 0 {
		volume = 1
	}
	b.clips[name] = &entry{clip: clip, volume: volume, minInterval: minInterval}
}

func (b *Bank) Has(name string) bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.clips[name]
	return ok
}

func (b *Bank) SetVolume(master float64) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.master = master
	b.mu.Unlock()
}

// Play starts the named clip. Unknown names and throttled repeats are
// ignored.
func (b *Bank) Play(name string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || b.master <= 0 {
		return
	}
	e, ok := b.clips[name]
	if !ok {
		return
	}
	now := b.now()
	if e.played && now.Sub(e.last) < e.minInterval {
		return
	}
	e.played = true
	e.last = now
	if err := e.clip.Play(e.volume * b.master); err != nil && !e.failed {
		e.failed = true
		log.Printf("sound: play %s: %v", name, err)
	}
}

// Close releases every clip. The bank plays nothing afterwards.
func (b *Bank) Close() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	var errs []error
	for _, e := range b.clips {
		if err := e.clip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.clips = nil
	return errors.Join(errs...)
}
