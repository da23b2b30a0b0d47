package system

import (
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs"
)

// WallCollisionSystem pushes the character out of solid obstacles and solid
// platforms it walked into this tick.
type WallCollisionSystem struct{}

func NewWallCollisionSystem() *WallCollisionSystem { return &WallCollisionSystem{} }

func (s *WallCollisionSystem) Update(w *ecs.World) {
	if frozen(w) {
		return
	}
	r, ok := findRunner(w)
	if !ok {
		return
	}
	ch := r.character
	t := r.transform

	dx := t.X - ch.PrevX
	if dx == 0 {
		return
	}

	for _, b := range walls(w) {
		cur := r.rect()
		if !cur.Intersects(b.rect) {
			continue
		}
		before := common.Rect{X: ch.PrevX, Y: t.Y, Width: cur.Width, Height: cur.Height}
		if before.Intersects(b.rect) {
			continue
		}
		if dx > 0 {
			t.X = fitBefore(b.rect.Left(), cur.Width)
		} else {
			t.X = b.rect.Right()
		}
		ch.VX = 0
		w.Events().Push(ecs.Event{Kind: ecs.EventBlocked, Entity: b.entity})
	}
}
