package render

import (
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/milk9111/breakrun/bridge"
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/ecs/entity"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

type op struct {
	kind string
	key  string
	rect common.Rect
	text string
	flip bool
}

// recorder is a Canvas that records calls. Keys listed in images draw
// successfully; everything else falls back to shapes.
type recorder struct {
	images map[string]bool
	ops    []op
}

func (r *recorder) FillRect(rect common.Rect, _ color.Color) {
	r.ops = append(r.ops, op{kind: "rect", rect: rect})
}

func (r *recorder) FillCircle(cx, cy, radius float64, _ color.Color) {
	r.ops = append(r.ops, op{kind: "circle", rect: common.Rect{X: cx - radius, Y: cy - radius, Width: 2 * radius, Height: 2 * radius}})
}

func (r *recorder) StrokeLine(x0, y0, x1, y1 float64, _ color.Color) {
	r.ops = append(r.ops, op{kind: "line", rect: common.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}})
}

func (r *recorder) DrawImage(key string, rect common.Rect, flip bool) bool {
	if !r.images[key] {
		return false
	}
	r.ops = append(r.ops, op{kind: "image", key: key, rect: rect, flip: flip})
	return true
}

func (r *recorder) DrawImageCircle(key string, rect common.Rect) bool {
	if !r.images[key] {
		return false
	}
	r.ops = append(r.ops, op{kind: "image_circle", key: key, rect: rect})
	return true
}

func (r *recorder) Text(s string, x, y float64, _ color.Color) {
	r.ops = append(r.ops, op{kind: "text", text: s, rect: common.Rect{X: x, Y: y}})
}

func (r *recorder) TextWidth(s string) float64 { return float64(len(s) * 7) }

func (r *recorder) keys() []string {
	var out []string
	for _, o := range r.ops {
		switch o.kind {
		case "image", "image_circle":
			out = append(out, o.key)
		case "text":
			out = append(out, "text:"+o.text)
		}
	}
	return out
}

func allImages() map[string]bool {
	m := map[string]bool{}
	for k := range prefabs.DefaultTuning().Render.Images {
		m[k] = true
	}
	for _, k := range []string{"background", "character", "platform", "platform_passthrough", "obstacle_hazard", "obstacle_solid", "obstacle_safe", "coin_0", "coin_1", "coin_2", "coin_3"} {
		m[k] = true
	}
	return m
}

func testFrame(t *testing.T, lvl *levels.Level) Frame {
	t.Helper()
	w, err := entity.BuildWorld(lvl, prefabs.DefaultTuning(), 1)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	return Frame{World: entity.TakeSnapshot(w)}
}

func smallLevel() *levels.Level {
	return &levels.Level{
		Name:      "render",
		Width:     4000,
		Height:    720,
		Spawn:     levels.Point{X: 100, Y: 592},
		Platforms: []levels.Box{{X: 0, Y: 640, W: 600, H: 80}, {X: 3000, Y: 640, W: 600, H: 80}},
		Obstacles: []levels.Obstacle{{Box: levels.Box{X: 300, Y: 616, W: 48, H: 24}, Kind: "spikes", Response: "hazard"}},
		Coins:     []levels.Coin{{X: 200, Y: 560}, {X: 240, Y: 560}, {X: 3100, Y: 560}},
	}
}

func TestPipelineZOrder(t *testing.T) {
	f := testFrame(t, smallLevel())
	f.World.State.GameOver = true
	f.World.State.Score = 20
	f.Countdown = bridge.Snapshot{Remaining: 90 * time.Second, Mode: bridge.ModeFocus}

	rec := &recorder{images: allImages()}
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)
	p.Draw(rec, f)

	got := strings.Join(rec.keys(), ",")
	want := strings.Join([]string{
		"background",
		"platform",
		"obstacle_hazard",
		"coin_0", "coin_1",
		"character",
		"text:Score: 20",
		"text:FOCUS 01:30",
		"text:Game Over",
		"text:Score: 20",
		"text:Press R or Enter to run again, Esc to return",
	}, ",")
	if got != want {
		t.Fatalf("draw order\n got: %s\nwant: %s", got, want)
	}

	// The overlay rect sits between the HUD and the game-over text.
	var sawOverlay bool
	for i, o := range rec.ops {
		if o.kind == "rect" && o.rect.Width == 1280 && o.rect.Height == 720 {
			if rec.ops[i-1].text != "FOCUS 01:30" {
				t.Fatalf("overlay drawn before the HUD")
			}
			sawOverlay = true
		}
	}
	if !sawOverlay {
		t.Fatalf("expected the game-over overlay")
	}
}

func TestPipelineCullsOffscreen(t *testing.T) {
	f := testFrame(t, smallLevel())
	rec := &recorder{images: allImages()}
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)
	p.Draw(rec, f)

	for _, o := range rec.ops {
		if o.kind == "image" && o.rect.X > 1280+64 {
			t.Fatalf("%s drawn off screen at x=%v", o.key, o.rect.X)
		}
	}
	if st := p.Stats(); st.Culled != 2 {
		t.Fatalf("expected the far platform and coin to be culled, got %+v", st)
	}
	if len(f.World.Coins) != 3 || f.World.Coins[2].Collected {
		t.Fatalf("culling must not touch the world")
	}
}

func TestPipelineScrollsWithCamera(t *testing.T) {
	f := testFrame(t, smallLevel())
	f.World.Character.Rect.X = 3200
	rec := &recorder{images: allImages()}
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)
	p.Draw(rec, f)

	camX := p.CameraX(f)
	if camX != 4000-1280 {
		t.Fatalf("camera should clamp to the level end, got %v", camX)
	}
	for _, o := range rec.ops {
		if o.kind == "image" && o.key == "character" && o.rect.X != 3200-camX {
			t.Fatalf("character drawn at %v, want %v", o.rect.X, 3200-camX)
		}
		if o.kind == "image" && o.key == "obstacle_hazard" {
			t.Fatalf("obstacle near the start should be culled when scrolled to the end")
		}
	}
}

func TestPipelineFallbacks(t *testing.T) {
	f := testFrame(t, smallLevel())
	f.World.Coins[0].Collected = true
	f.World.Character.Facing = component.FacingLeft

	rec := &recorder{images: map[string]bool{"character": true}}
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)
	p.Draw(rec, f)

	circles, rects, flipped := 0, 0, false
	for _, o := range rec.ops {
		switch o.kind {
		case "circle":
			circles++
			if o.rect.Width != 24 {
				t.Fatalf("coin circle diameter = %v", o.rect.Width)
			}
		case "rect":
			rects++
		case "image":
			flipped = o.flip
		}
	}
	if circles != 1 {
		t.Fatalf("expected one uncollected visible coin drawn as a circle, got %d", circles)
	}
	// background, one visible platform, one obstacle.
	if rects != 3 {
		t.Fatalf("expected 3 fallback rects, got %d", rects)
	}
	if !flipped {
		t.Fatalf("character facing left should be flipped")
	}
}

func TestPipelineCoinVariantsAreStable(t *testing.T) {
	lvl := smallLevel()
	lvl.Coins = nil
	for i := 0; i < 9; i++ {
		lvl.Coins = append(lvl.Coins, levels.Coin{X: 100 + float64(i)*30, Y: 500})
	}
	f := testFrame(t, lvl)
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)

	var runs [2][]string
	for i := range runs {
		rec := &recorder{images: allImages()}
		p.Draw(rec, f)
		for _, o := range rec.ops {
			if o.kind == "image_circle" {
				runs[i] = append(runs[i], o.key)
			}
		}
	}
	want := "coin_0,coin_1,coin_2,coin_3,coin_0,coin_1,coin_2,coin_3,coin_0"
	if got := strings.Join(runs[0], ","); got != want {
		t.Fatalf("variants = %s, want %s", got, want)
	}
	if strings.Join(runs[0], ",") != strings.Join(runs[1], ",") {
		t.Fatalf("variants changed between frames")
	}
}

func TestPipelineNilCanvas(t *testing.T) {
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)
	p.Draw(nil, Frame{})
	var nilPipeline *Pipeline
	nilPipeline.Draw(&recorder{}, Frame{})
}

func TestDebugOverlayOutlinesColliders(t *testing.T) {
	f := testFrame(t, smallLevel())
	f.Debug = true
	rec := &recorder{images: allImages()}
	p := NewPipeline(prefabs.DefaultTuning().Render, 1280, 720)
	p.Draw(rec, f)

	lines := 0
	for _, o := range rec.ops {
		if o.kind == "line" {
			lines++
		}
	}
	// Two platforms, one obstacle, three coins and the character, four edges each.
	if lines != 7*4 {
		t.Fatalf("expected %d outline segments, got %d", 7*4, lines)
	}
}
