package main

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/breakrun/assets"
	"github.com/milk9111/breakrun/bridge"
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/config"
	"github.com/milk9111/breakrun/ecs/system"
	"github.com/milk9111/breakrun/engine"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
	"github.com/milk9111/breakrun/render"
	"github.com/milk9111/breakrun/render/ebitencanvas"
	"github.com/milk9111/breakrun/sound"
	"github.com/milk9111/breakrun/sound/ebitenaudio"
)

// Game hosts one session inside an ebiten window.
type Game struct {
	levelName string
	debug     bool

	session  *engine.Session
	loop     *engine.Loop
	clock    engine.Clock
	pipeline *render.Pipeline
	canvas   *ebitencanvas.Canvas
	timer    bridge.Source
	link     *bridge.Client
	bank     *sound.Bank
	watcher  *prefabs.Watcher
	pauseUI  *ebitenui.UI

	paused    bool
	lastScore int
	done      bool
}

func NewGame(settings config.Settings, levelName string, lvl *levels.Level, tuning prefabs.Tuning, debug, autoStart bool) (*Game, error) {
	g := &Game{
		levelName: levelName,
		debug:     debug,
		clock:     engine.SystemClock{},
		pipeline:  render.NewPipeline(tuning.Render, common.BaseWidth, common.BaseHeight),
	}

	fsys := assets.Open(settings.AssetDir)
	g.canvas = ebitencanvas.New(ebitencanvas.NewLibrary(assets.DecodeImages(fsys, tuning.Render.Images)))
	g.bank = ebitenaudio.LoadBank(ebitenaudio.Context(), fsys, tuning.Audio, settings.Volume)

	local := bridge.NewCountdown(settings.Timer.Focus.Duration, settings.Timer.Break.Duration, time.Now)
	var countdown engine.Countdown = local
	g.timer = local
	if settings.Bridge.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), settings.Bridge.DialTimeout.Duration)
		link, err := bridge.Dial(ctx, settings.Bridge.URL, local)
		cancel()
		if err != nil {
			log.Printf("bridge: %v; using local timer", err)
		} else {
			g.link = link
			g.timer = link
			countdown = link
		}
	}

	session, err := engine.NewSession(engine.Options{
		Level:     lvl,
		Tuning:    tuning,
		Intent:    KeyboardIntent{},
		Handlers:  []system.EventHandler{system.AudioHandler(g.bank, system.DefaultCues)},
		Countdown: countdown,
		Audio:     g.bank,
		Debug:     debug,
		OnGameOver: func(score int) {
			if g.link != nil {
				if err := g.link.SendScore(score); err != nil {
					log.Printf("bridge: send score: %v", err)
				}
			}
		},
		OnReturn: g.onReturn,
	})
	if err != nil {
		_ = g.bank.Close()
		g.release()
		return nil, err
	}
	g.session = session
	g.loop = engine.NewLoop(settings.TPS, session.Tick, nil)
	session.AttachLoop(g.loop)

	g.pauseUI = NewPauseUI(PauseActions{
		Resume:  func() { g.paused = false },
		Restart: g.restart,
		Exit:    g.session.Exit,
	})

	if debug {
		if w, err := prefabs.NewWatcher(watchDirs()...); err != nil {
			log.Printf("watch: %v; hot reload disabled", err)
		} else {
			g.watcher = w
		}
	}

	if err := session.Start(autoStart); err != nil {
		g.session.Exit()
		return nil, err
	}
	return g, nil
}

func watchDirs() []string {
	var dirs []string
	for _, dir := range []string{prefabs.Dir, levels.Dir, filepath.Join(levels.Dir, "scripts")} {
		if dirExists(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.session.Exit()
	}
	if g.done {
		return ebiten.Termination
	}
	g.drainReloads()
	g.handleKeys()

	if g.paused {
		g.pauseUI.Update()
	} else {
		g.loop.Frame(g.clock.Now())
	}
	g.publishScore()

	if g.done {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	switch g.session.State() {
	case engine.StateGameOver:
		if inpututil.IsKeyJustPressed(ebiten.KeyR) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.restart()
		} else if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.session.Exit()
		}
	case engine.StateRunning:
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
			g.paused = !g.paused
		}
	}
}

func (g *Game) restart() {
	if err := g.session.Reset(); err != nil {
		log.Printf("reset: %v", err)
		return
	}
	g.paused = false
}

func (g *Game) publishScore() {
	score := g.session.Score()
	if score == g.lastScore {
		return
	}
	g.lastScore = score
	if g.link == nil || g.session.State() == engine.StateGameOver {
		return
	}
	if err := g.link.SendScore(score); err != nil {
		log.Printf("bridge: send score: %v", err)
	}
}

func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

// reload queues edited tuning or level data and restarts the run with it.
func (g *Game) reload(path string) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err := prefabs.LoadTuning()
		if err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		g.session.QueueTuning(t)
		g.pipeline = render.NewPipeline(t.Render, common.BaseWidth, common.BaseHeight)
	case ".json", ".tengo":
		lvl, err := levels.Load(g.levelName)
		if err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
		if err := g.session.QueueLevel(lvl); err != nil {
			log.Printf("reload %s: %v", path, err)
			return
		}
	default:
		return
	}
	log.Printf("reload: %s", path)
	if g.session.State() != engine.StateIdle {
		g.restart()
	}
}

func (g *Game) onReturn() {
	score := g.session.Score()
	if g.link != nil {
		if err := g.link.SendReturn(score); err != nil && !errors.Is(err, bridge.ErrClosed) {
			log.Printf("bridge: send return: %v", err)
		}
	}
	g.release()
	g.done = true
	log.Printf("returned to host with score %d", score)
}

// release closes everything the session does not own.
func (g *Game) release() {
	if g.link != nil {
		if err := g.link.Close(); err != nil {
			log.Printf("bridge: close: %v", err)
		}
	}
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.SetTarget(screen)
	g.pipeline.Draw(g.canvas, render.Frame{
		World:     g.session.Snapshot(),
		Countdown: g.timer.Snapshot(),
		Paused:    g.paused,
		Debug:     g.debug,
	})
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
