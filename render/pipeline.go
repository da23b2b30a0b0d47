package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/breakrun/bridge"
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/ecs/entity"
	"github.com/milk9111/breakrun/ecs/system"
	"github.com/milk9111/breakrun/prefabs"
	"golang.org/x/image/colornames"
)

const (
	hudMargin     = 16
	hudLineHeight = 20
)

// Frame is everything drawn in one frame. It is read-only.
type Frame struct {
	World     entity.Snapshot
	Countdown bridge.Snapshot
	Paused    bool
	Debug     bool
}

// Stats counts what the last Draw call did.
type Stats struct {
	Drawn  int
	Culled int
}

// Pipeline draws a Frame onto a Canvas in fixed z-order.
type Pipeline struct {
	spec   prefabs.RenderSpec
	width  float64
	height float64
	stats  Stats
}

func NewPipeline(spec prefabs.RenderSpec, width, height float64) *Pipeline {
	if width <= 0 {
		width = common.BaseWidth
	}
	if height <= 0 {
		height = common.BaseHeight
	}
	return &Pipeline{spec: spec, width: width, height: height}
}

func (p *Pipeline) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return p.stats
}

// CameraX is the scroll offset for the frame, derived from the character so
// paused and game-over frames stay consistent with the last tick.
func (p *Pipeline) CameraX(f Frame) float64 {
	w := f.World
	if !w.HasCharacter {
		return w.Camera.OffsetX
	}
	viewport := w.Camera.ViewportWidth
	if viewport <= 0 {
		viewport = p.width
	}
	return system.CameraOffset(w.Character.Rect.X, w.Camera.AnchorX, w.Bounds.Width, viewport)
}

// Draw renders background, platforms, obstacles, coins, character, HUD and
// the game-over overlay, in that order. A nil canvas skips the frame.
func (p *Pipeline) Draw(c Canvas, f Frame) {
	if p == nil || c == nil {
		return
	}
	p.stats = Stats{}
	camX := p.CameraX(f)
	w := f.World

	p.drawBackground(c)

	for _, pl := range w.Platforms {
		p.drawBody(c, pl.Body, camX)
	}
	for _, o := range w.Obstacles {
		p.drawBody(c, o.Body, camX)
	}
	for _, coin := range w.Coins {
		if coin.Collected {
			continue
		}
		p.drawCoin(c, coin, camX)
	}
	if w.HasCharacter {
		p.drawCharacter(c, w.Character, camX)
	}

	if f.Debug {
		DrawDebug(c, w, camX)
	}

	p.drawHUD(c, f)

	if w.State.GameOver {
		p.drawGameOver(c, w.State.Score)
	}
}

func (p *Pipeline) drawBackground(c Canvas) {
	full := common.Rect{Width: p.width, Height: p.height}
	if c.DrawImage("background", full, false) {
		return
	}
	c.FillRect(full, p.spec.Color("background", colornames.Midnightblue))
}

// visible reports whether a screen-space rect is inside the viewport plus
// the cull margin. Culling is horizontal only.
func (p *Pipeline) visible(r common.Rect) bool {
	view := cp.BB{L: -p.spec.CullMargin, B: math.Inf(-1), R: p.width + p.spec.CullMargin, T: math.Inf(1)}
	return view.Intersects(r.BB())
}

func (p *Pipeline) toScreen(r common.Rect, camX float64) common.Rect {
	r.X -= camX
	return r
}

func (p *Pipeline) drawBody(c Canvas, b entity.Body, camX float64) {
	r := p.toScreen(b.Rect, camX)
	if !p.visible(r) {
		p.stats.Culled++
		return
	}
	p.stats.Drawn++
	if c.DrawImage(b.Sprite.Key, r, false) {
		return
	}
	c.FillRect(r, p.spec.Color(b.Sprite.Key, colornames.Gray))
}

func (p *Pipeline) drawCoin(c Canvas, coin entity.CoinView, camX float64) {
	r := p.toScreen(coin.Rect, camX)
	if !p.visible(r) {
		p.stats.Culled++
		return
	}
	p.stats.Drawn++
	if c.DrawImageCircle(coin.Sprite.Key, r) {
		return
	}
	radius := math.Min(r.Width, r.Height) / 2
	c.FillCircle(r.X+r.Width/2, r.Y+r.Height/2, radius, p.spec.Color(coin.Sprite.Key, colornames.Gold))
}

func (p *Pipeline) drawCharacter(c Canvas, ch entity.CharacterView, camX float64) {
	flip := ch.Facing == component.FacingLeft
	r := p.toScreen(ch.Rect, camX)
	p.stats.Drawn++
	if c.DrawImage(ch.Sprite.Key+"_"+ch.Pose.String(), r, flip) || c.DrawImage(ch.Sprite.Key, r, flip) {
		return
	}
	c.FillRect(r, p.spec.Color(ch.Sprite.Key, colornames.Hotpink))
}

func (p *Pipeline) drawHUD(c Canvas, f Frame) {
	hud := p.spec.Color("hud", colornames.White)
	c.Text(fmt.Sprintf("Score: %d", f.World.State.Score), hudMargin, hudMargin, hud)
	if label := f.Countdown.Label(); label != "" {
		c.Text(label, p.width-hudMargin-c.TextWidth(label), hudMargin, hud)
	}
	if f.Paused && !f.World.State.GameOver {
		c.Text("Paused", hudMargin, hudMargin+hudLineHeight, hud)
	}
}

func (p *Pipeline) drawGameOver(c Canvas, score int) {
	c.FillRect(common.Rect{Width: p.width, Height: p.height}, p.spec.Color("overlay", color.NRGBA{A: 0xb4}))
	hud := p.spec.Color("hud", colornames.White)
	lines := []string{
		"Game Over",
		fmt.Sprintf("Score: %d", score),
		"Press R or Enter to run again, Esc to return",
	}
	y := p.height/2 - float64(len(lines))*hudLineHeight/2
	for _, line := range lines {
		c.Text(line, (p.width-c.TextWidth(line))/2, y, hud)
		y += hudLineHeight
	}
}
