package system

import (
	"math"

	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// runner bundles the components every physics step reads for the character.
type runner struct {
	entity    ecs.Entity
	transform *component.Transform
	collider  *component.Collider
	character *component.Character
}

func (r runner) rect() common.Rect {
	return component.Bounds(r.transform, r.collider)
}

func (r runner) prevRect() common.Rect {
	return common.Rect{X: r.character.PrevX, Y: r.character.PrevY, Width: r.collider.Width, Height: r.collider.Height}
}

func findRunner(w *ecs.World) (runner, bool) {
	if w == nil {
		return runner{}, false
	}
	e, ok := ecs.First(w, component.PlayerTagComponent)
	if !ok {
		return runner{}, false
	}
	t, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return runner{}, false
	}
	c, ok := ecs.Get(w, e, component.ColliderComponent)
	if !ok {
		return runner{}, false
	}
	ch, ok := ecs.Get(w, e, component.CharacterComponent)
	if !ok {
		return runner{}, false
	}
	return runner{entity: e, transform: t, collider: c, character: ch}, true
}

func gameState(w *ecs.World) *component.GameState {
	if w == nil {
		return nil
	}
	e, ok := ecs.First(w, component.GameStateComponent)
	if !ok {
		return nil
	}
	st, _ := ecs.Get(w, e, component.GameStateComponent)
	return st
}

// frozen reports whether the session has ended. Every physics step becomes a
// no-op once it returns true.
func frozen(w *ecs.World) bool {
	st := gameState(w)
	return st == nil || st.GameOver
}

func endSession(w *ecs.World, e ecs.Entity) {
	st := gameState(w)
	if st == nil || st.GameOver {
		return
	}
	st.GameOver = true
	w.Events().Push(ecs.Event{Kind: ecs.EventGameOver, Entity: e, Value: st.Score})
}

// solidBox is a rectangle that blocks the character.
type solidBox struct {
	entity ecs.Entity
	rect   common.Rect
	// headroom marks boxes the character bumps its head on.
	headroom bool
}

// landingSurfaces returns every box the character can stand on: all
// platforms plus solid obstacles.
func landingSurfaces(w *ecs.World) []solidBox {
	var out []solidBox
	ecs.ForEach3(w, component.PlatformComponent, component.TransformComponent, component.ColliderComponent, func(e ecs.Entity, p *component.Platform, t *component.Transform, c *component.Collider) {
		out = append(out, solidBox{entity: e, rect: component.Bounds(t, c), headroom: p.Surface == component.SurfaceSolid})
	})
	ecs.ForEach3(w, component.ObstacleComponent, component.TransformComponent, component.ColliderComponent, func(e ecs.Entity, o *component.Obstacle, t *component.Transform, c *component.Collider) {
		if o.Response == component.ResponseSolid {
			out = append(out, solidBox{entity: e, rect: component.Bounds(t, c), headroom: true})
		}
	})
	return out
}

// walls returns every box that blocks sideways movement.
func walls(w *ecs.World) []solidBox {
	var out []solidBox
	for _, b := range landingSurfaces(w) {
		if b.headroom {
			out = append(out, b)
		}
	}
	return out
}

// fitBefore returns the largest start for which start+size <= edge. A box
// snapped against an edge this way never overlaps it through rounding.
func fitBefore(edge, size float64) float64 {
	v := edge - size
	for v+size > edge {
		v = math.Nextafter(v, math.Inf(-1))
	}
	return v
}
