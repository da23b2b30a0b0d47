package engine

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/ecs/entity"
	"github.com/milk9111/breakrun/ecs/system"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

// State is the session lifecycle state.
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateGameOver:
		return "game_over"
	default:
		return "idle"
	}
}

// Countdown is the externally owned focus/break timer.
type Countdown interface {
	Start()
	Pause()
	Running() bool
}

// Options configures a Session. Level is required; everything else may be
// left zero.
type Options struct {
	Level  *levels.Level
	Tuning prefabs.Tuning
	Intent system.IntentSource
	// Handlers receive the events of each tick after the session lock is
	// released, so they may call back into the Session.
	Handlers  []system.EventHandler
	Countdown Countdown
	Audio     io.Closer
	Debug     bool

	// OnGameOver runs once per session when the character dies.
	OnGameOver func(score int)
	// OnReturn runs exactly once, when the session exits.
	OnReturn func()
}

// Session owns one play-through: the world, the per-tick systems and the
// Idle -> Running -> GameOver state machine.
type Session struct {
	mu sync.Mutex

	opts Options

	state State
	world *ecs.World
	sched *ecs.Scheduler
	gen   uint64
	loop  *Loop

	events        []ecs.Event
	pendingLevel  *levels.Level
	pendingTuning *prefabs.Tuning

	exited bool
}

func NewSession(opts Options) (*Session, error) {
	if err := opts.Level.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{opts: opts}, nil
}

// AttachLoop registers the loop driver cancelled by Exit.
func (s *Session) AttachLoop(l *Loop) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.loop = l
	s.mu.Unlock()
}

// Start begins the first run. It is a no-op unless the session is Idle.
func (s *Session) Start(autoStartTimer bool) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.exited || s.state != StateIdle {
		s.mu.Unlock()
		return nil
	}
	if err := s.rebuildLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = StateRunning
	countdown := s.opts.Countdown
	s.mu.Unlock()

	if autoStartTimer && countdown != nil && !countdown.Running() {
		countdown.Start()
	}
	log.Printf("session: started %s (generation %d)", s.opts.Level.Name, s.Generation())
	return nil
}

// Reset rebuilds every entity from the level data and zeroes the score. It
// is a no-op while Idle.
func (s *Session) Reset() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exited || s.state == StateIdle {
		return nil
	}
	if err := s.rebuildLocked(); err != nil {
		return err
	}
	s.state = StateRunning
	s.debugf("session: reset (generation %d)", s.gen)
	return nil
}

func (s *Session) rebuildLocked() error {
	if s.pendingLevel != nil {
		s.opts.Level = s.pendingLevel
		s.pendingLevel = nil
	}
	if s.pendingTuning != nil {
		s.opts.Tuning = *s.pendingTuning
		s.pendingTuning = nil
	}

	gen := s.gen + 1
	w, err := entity.BuildWorld(s.opts.Level, s.opts.Tuning, gen)
	if err != nil {
		return fmt.Errorf("session: build world: %w", err)
	}
	s.world = w
	s.gen = gen
	s.events = nil
	s.sched = system.NewSimulation(s.opts.Tuning.Physics, s.opts.Intent, s.collect)
	return nil
}

// Tick advances the simulation by one step. It does nothing unless Running.
func (s *Session) Tick() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.state != StateRunning || s.exited {
		s.mu.Unlock()
		return
	}
	s.sched.Update(s.world)
	events := s.events
	s.events = nil
	handlers := s.opts.Handlers

	var onGameOver func(int)
	score := 0
	if st := s.gameStateLocked(); st != nil && st.GameOver {
		s.state = StateGameOver
		score = st.Score
		onGameOver = s.opts.OnGameOver
	}
	over := s.state == StateGameOver
	s.mu.Unlock()

	for _, evt := range events {
		for _, h := range handlers {
			if h != nil {
				h(evt)
			}
		}
	}
	if !over {
		return
	}
	log.Printf("session: game over, score %d", score)
	if onGameOver != nil {
		onGameOver(score)
	}
}

// collect buffers the events of the running tick. It runs under s.mu.
func (s *Session) collect(evt ecs.Event) {
	s.events = append(s.events, evt)
}

// Exit stops the loop, releases audio, pauses a running countdown and hands
// control back to the caller. Only the first call has any effect.
func (s *Session) Exit() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.exited {
		s.mu.Unlock()
		return
	}
	s.exited = true
	loop := s.loop
	audio := s.opts.Audio
	countdown := s.opts.Countdown
	onReturn := s.opts.OnReturn
	s.mu.Unlock()

	loop.Stop()
	if audio != nil {
		if err := audio.Close(); err != nil {
			log.Printf("session: release audio: %v", err)
		}
	}
	if countdown != nil && countdown.Running() {
		countdown.Pause()
	}
	if onReturn != nil {
		onReturn()
	}
}

// Guard runs fn only if gen is still the current generation, so callbacks
// scheduled before a reset cannot touch the new world.
func (s *Session) Guard(gen uint64, fn func()) bool {
	if s == nil || fn == nil {
		return false
	}
	s.mu.Lock()
	current := s.gen == gen && !s.exited
	s.mu.Unlock()
	if !current {
		return false
	}
	fn()
	return true
}

// QueueLevel replaces the level used by the next Start or Reset.
func (s *Session) QueueLevel(lvl *levels.Level) error {
	if s == nil {
		return nil
	}
	if err := lvl.Validate(); err != nil {
		return fmt.Errorf("session: queue level: %w", err)
	}
	s.mu.Lock()
	s.pendingLevel = lvl
	s.mu.Unlock()
	return nil
}

// QueueTuning replaces the tuning used by the next Start or Reset.
func (s *Session) QueueTuning(t prefabs.Tuning) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.pendingTuning = &t
	s.mu.Unlock()
}

func (s *Session) State() State {
	if s == nil {
		return StateIdle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Generation() uint64 {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Session) Exited() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited
}

func (s *Session) Score() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st := s.gameStateLocked(); st != nil {
		return st.Score
	}
	return 0
}

// Snapshot copies the current world for rendering. It is the zero Snapshot
// while Idle.
func (s *Session) Snapshot() entity.Snapshot {
	if s == nil {
		return entity.Snapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return entity.TakeSnapshot(s.world)
}

// Tuning returns the tuning of the current world.
func (s *Session) Tuning() prefabs.Tuning {
	if s == nil {
		return prefabs.DefaultTuning()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Tuning
}

func (s *Session) gameStateLocked() *component.GameState {
	if s.world == nil {
		return nil
	}
	e, ok := ecs.First(s.world, component.GameStateComponent)
	if !ok {
		return nil
	}
	st, _ := ecs.Get(s.world, e, component.GameStateComponent)
	return st
}

func (s *Session) debugf(format string, args ...any) {
	if s.opts.Debug {
		log.Printf(format, args...)
	}
}
