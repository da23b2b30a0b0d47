package engine

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/ecs/system"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

type fakeCountdown struct {
	running bool
	starts  int
	pauses  int
}

func (c *fakeCountdown) Start()        { c.running = true; c.starts++ }
func (c *fakeCountdown) Pause()        { c.running = false; c.pauses++ }
func (c *fakeCountdown) Running() bool { return c.running }

type fakeAudio struct{ closed int }

func (a *fakeAudio) Close() error {
	a.closed++
	return nil
}

func testLevel() *levels.Level {
	return &levels.Level{
		Name:      "session",
		Width:     3000,
		Height:    720,
		Spawn:     levels.Point{X: 100, Y: 592},
		Platforms: []levels.Box{{X: 0, Y: 640, W: 3000, H: 80}},
		Obstacles: []levels.Obstacle{
			{Box: levels.Box{X: 900, Y: 600, W: 40, H: 40}, Kind: "spikes", Response: "hazard"},
		},
		Coins: []levels.Coin{{X: 200, Y: 600}, {X: 300, Y: 600}, {X: 400, Y: 600}},
	}
}

func newTestSession(t *testing.T, intent *component.Input, opts Options) *Session {
	t.Helper()
	if opts.Level == nil {
		opts.Level = testLevel()
	}
	opts.Tuning = prefabs.DefaultTuning()
	opts.Intent = system.IntentFunc(func() component.Input { return *intent })
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestSessionStateMachine(t *testing.T) {
	var intent component.Input
	s := newTestSession(t, &intent, Options{})

	if s.State() != StateIdle {
		t.Fatalf("new session should be idle, got %s", s.State())
	}
	if err := s.Reset(); err != nil || s.State() != StateIdle || s.Generation() != 0 {
		t.Fatalf("reset while idle should be a no-op")
	}
	s.Tick()
	if s.Score() != 0 {
		t.Fatalf("tick while idle changed score")
	}

	if err := s.Start(false); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.State() != StateRunning || s.Generation() != 1 {
		t.Fatalf("expected running generation 1, got %s/%d", s.State(), s.Generation())
	}
	if err := s.Start(false); err != nil || s.Generation() != 1 {
		t.Fatalf("second Start should be a no-op")
	}

	intent = component.Input{Right: true}
	for i := 0; i < 400 && s.State() == StateRunning; i++ {
		s.Tick()
	}
	if s.State() != StateGameOver {
		t.Fatalf("expected the spikes to end the run, state %s", s.State())
	}
	if s.Score() != 30 {
		t.Fatalf("expected all three coins before the spikes, score %d", s.Score())
	}
	if err := s.Start(true); err != nil || s.State() != StateGameOver {
		t.Fatalf("Start after game over should be a no-op")
	}

	frozen := s.Snapshot()
	s.Tick()
	if !reflect.DeepEqual(frozen, s.Snapshot()) {
		t.Fatalf("tick during game over changed the world")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.State() != StateRunning || s.Score() != 0 || s.Generation() != 2 {
		t.Fatalf("reset should restart at generation 2 with score 0, got %s/%d/%d", s.State(), s.Score(), s.Generation())
	}
}

func TestSessionResetRestoresInitialWorld(t *testing.T) {
	var intent component.Input
	s := newTestSession(t, &intent, Options{})
	if err := s.Start(false); err != nil {
		t.Fatal(err)
	}
	initial := s.Snapshot()

	intent = component.Input{Right: true, Jump: true}
	for i := 0; i < 90; i++ {
		s.Tick()
	}
	if reflect.DeepEqual(initial.Character, s.Snapshot().Character) {
		t.Fatalf("expected the character to move")
	}

	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	after := s.Snapshot()
	if after.State.Generation != initial.State.Generation+1 {
		t.Fatalf("generation = %d, want %d", after.State.Generation, initial.State.Generation+1)
	}
	after.State.Generation = initial.State.Generation
	if !reflect.DeepEqual(initial, after) {
		t.Fatalf("reset world differs from the initial world\ninitial: %+v\nafter:   %+v", initial, after)
	}
}

func TestSessionGameOverCallback(t *testing.T) {
	var intent component.Input
	var scores []int
	lvl := testLevel()
	lvl.Spawn.X = 890
	s := newTestSession(t, &intent, Options{Level: lvl, OnGameOver: func(score int) { scores = append(scores, score) }})
	if err := s.Start(false); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	if len(scores) != 1 || scores[0] != 0 {
		t.Fatalf("expected one game over callback with score 0, got %v", scores)
	}
}

func TestSessionExit(t *testing.T) {
	cases := []struct {
		name       string
		autoStart  bool
		wantStarts int
		wantPauses int
	}{
		{"running_countdown_paused", true, 1, 1},
		{"idle_countdown_left_alone", false, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var intent component.Input
			countdown := &fakeCountdown{}
			audio := &fakeAudio{}
			returns := 0
			s := newTestSession(t, &intent, Options{
				Countdown: countdown,
				Audio:     audio,
				OnReturn:  func() { returns++ },
			})

			ticks := 0
			loop := NewLoop(60, func() { ticks++; s.Tick() }, nil)
			s.AttachLoop(loop)
			if err := s.Start(c.autoStart); err != nil {
				t.Fatal(err)
			}

			clock := NewManualClock(time.Unix(0, 0))
			loop.Frame(clock.Now())
			loop.Frame(clock.Advance(20 * time.Millisecond))
			if ticks != 1 {
				t.Fatalf("expected one tick before exit, got %d", ticks)
			}

			s.Exit()
			s.Exit()
			loop.Frame(clock.Advance(time.Second))

			if ticks != 1 {
				t.Fatalf("tick ran after exit")
			}
			if !loop.Stopped() || !s.Exited() {
				t.Fatalf("expected loop and session to be stopped")
			}
			if audio.closed != 1 || returns != 1 {
				t.Fatalf("audio closed %d times, return called %d times", audio.closed, returns)
			}
			if countdown.starts != c.wantStarts || countdown.pauses != c.wantPauses {
				t.Fatalf("countdown starts=%d pauses=%d, want %d/%d", countdown.starts, countdown.pauses, c.wantStarts, c.wantPauses)
			}
			if err := s.Reset(); err != nil || s.Generation() != 1 {
				t.Fatalf("reset after exit should be a no-op")
			}
		})
	}
}

func TestSessionGuardDropsStaleCallbacks(t *testing.T) {
	var intent component.Input
	s := newTestSession(t, &intent, Options{})
	if err := s.Start(false); err != nil {
		t.Fatal(err)
	}
	gen := s.Generation()
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}

	ran := 0
	if s.Guard(gen, func() { ran++ }) {
		t.Fatalf("stale generation should be dropped")
	}
	if !s.Guard(s.Generation(), func() { ran++ }) {
		t.Fatalf("current generation should run")
	}
	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
}

func TestSessionQueuedLevelAppliesOnReset(t *testing.T) {
	var intent component.Input
	s := newTestSession(t, &intent, Options{})
	if err := s.Start(false); err != nil {
		t.Fatal(err)
	}

	if err := s.QueueLevel(&levels.Level{Name: "broken"}); !errors.Is(err, levels.ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}

	next := testLevel()
	next.Spawn.X = 500
	if err := s.QueueLevel(next); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Character.Rect.X; got != 100 {
		t.Fatalf("queued level applied early, x=%v", got)
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Character.Rect.X; got != 500 {
		t.Fatalf("expected queued spawn x=500, got %v", got)
	}
}

func TestNewSessionRequiresLevel(t *testing.T) {
	if _, err := NewSession(Options{}); !errors.Is(err, levels.ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestSessionHandlersMayCallBack(t *testing.T) {
	var intent component.Input
	var s *Session
	var scores []int
	var states []State
	s = newTestSession(t, &intent, Options{
		Handlers: []system.EventHandler{func(evt ecs.Event) {
			switch evt.Kind {
			case ecs.EventCoinCollected:
				scores = append(scores, s.Score())
			case ecs.EventGameOver:
				states = append(states, s.State())
			}
		}},
	})
	if err := s.Start(false); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		intent = component.Input{Right: true}
		for i := 0; i < 400 && s.State() == StateRunning; i++ {
			s.Tick()
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler calling back into the session deadlocked")
	}

	if want := []int{10, 20, 30}; !reflect.DeepEqual(scores, want) {
		t.Fatalf("scores seen by handler = %v, want %v", scores, want)
	}
	if len(states) != 1 || states[0] != StateGameOver {
		t.Fatalf("game over handler saw states %v", states)
	}
}
