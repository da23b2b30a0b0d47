package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/ecs/entity"
)

const debugCircleSegments = 16

type debugKind uint8

const (
	debugSolid debugKind = iota
	debugPassthrough
	debugHazard
	debugSafe
	debugCoin
	debugCharacter
)

// DebugSpace builds a chipmunk space holding a static box per collider in
// the snapshot. Only the debug overlay uses it; collision is resolved by the
// systems package.
func DebugSpace(w entity.Snapshot) *cp.Space {
	space := cp.NewSpace()
	add := func(r common.Rect, kind debugKind) {
		shape := cp.NewBox2(space.StaticBody, r.BB(), 0)
		shape.UserData = kind
		space.AddShape(shape)
	}
	for _, pl := range w.Platforms {
		kind := debugSolid
		if pl.Surface == component.SurfacePassthrough {
			kind = debugPassthrough
		}
		add(pl.Rect, kind)
	}
	for _, o := range w.Obstacles {
		switch o.Response {
		case component.ResponseHazard:
			add(o.Rect, debugHazard)
		case component.ResponseSafe:
			add(o.Rect, debugSafe)
		default:
			add(o.Rect, debugSolid)
		}
	}
	for _, coin := range w.Coins {
		if !coin.Collected {
			add(coin.Rect, debugCoin)
		}
	}
	if w.HasCharacter {
		add(w.Character.Rect, debugCharacter)
	}
	return space
}

// DrawDebug outlines every collider and prints the character's kinematics.
func DrawDebug(c Canvas, w entity.Snapshot, camX float64) {
	if c == nil {
		return
	}
	cp.DrawSpace(DebugSpace(w), &debugDrawer{canvas: c, camX: camX})
	if w.HasCharacter {
		ch := w.Character
		c.Text(fmt.Sprintf("x=%.1f y=%.1f vx=%.2f vy=%.2f ground=%v pose=%s", ch.Rect.X, ch.Rect.Y, ch.VX, ch.VY, ch.OnGround, ch.Pose), hudMargin, hudMargin+2*hudLineHeight, color.White)
	}
}

type debugDrawer struct {
	canvas Canvas
	camX   float64
}

func (d *debugDrawer) line(a, b cp.Vector, c cp.FColor) {
	d.canvas.StrokeLine(a.X-d.camX, a.Y, b.X-d.camX, b.Y, fcolorToRGBA(c))
}

func (d *debugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= debugCircleSegments; i++ {
		th := float64(i) * (2 * math.Pi / debugCircleSegments)
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, outline)
		prev = cur
	}
}

func (d *debugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, fill)
}

func (d *debugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, outline)
}

func (d *debugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], fill)
	}
}

func (d *debugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	l := size / 2
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, fill)
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, fill)
}

func (d *debugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *debugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *debugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	kind, _ := shape.UserData.(debugKind)
	switch kind {
	case debugPassthrough:
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	case debugHazard:
		return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
	case debugSafe:
		return cp.FColor{R: 0.2, G: 0.8, B: 0.3, A: 1.0}
	case debugCoin:
		return cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}
	case debugCharacter:
		return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
	default:
		return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
	}
}

func (d *debugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *debugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *debugDrawer) Data() interface{} {
	return nil
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
