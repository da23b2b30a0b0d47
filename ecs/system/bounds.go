package system

import (
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// BoundsSystem ends the session when the character falls out of the level
// and keeps it inside the level horizontally.
type BoundsSystem struct{}

func NewBoundsSystem() *BoundsSystem { return &BoundsSystem{} }

func (s *BoundsSystem) Update(w *ecs.World) {
	if frozen(w) {
		return
	}
	r, ok := findRunner(w)
	if !ok {
		return
	}
	e, ok := ecs.First(w, component.LevelBoundsComponent)
	if !ok {
		return
	}
	bounds, _ := ecs.Get(w, e, component.LevelBoundsComponent)

	if r.transform.Y > bounds.FallOutY {
		endSession(w, r.entity)
		return
	}

	x := common.Clamp(r.transform.X, 0, bounds.Width-r.collider.Width)
	if x != r.transform.X {
		r.transform.X = x
		r.character.VX = 0
	}
}
