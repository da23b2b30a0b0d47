package system

import (
	"github.com/milk9111/breakrun/ecs"
)

// PlatformCollisionSystem resolves vertical contact. A falling character
// lands on the highest surface its bottom edge crossed this tick. Rising
// through a passthrough platform is allowed; solid surfaces stop the head.
type PlatformCollisionSystem struct{}

func NewPlatformCollisionSystem() *PlatformCollisionSystem { return &PlatformCollisionSystem{} }

func (s *PlatformCollisionSystem) Update(w *ecs.World) {
	if frozen(w) {
		return
	}
	r, ok := findRunner(w)
	if !ok {
		return
	}
	ch := r.character
	t := r.transform
	height := r.collider.Height

	wasOnGround := ch.OnGround
	ch.OnGround = false

	cur := r.rect()
	prevTop := ch.PrevY
	prevBottom := ch.PrevY + height
	newTop := t.Y
	newBottom := t.Y + height

	surfaces := landingSurfaces(w)

	if ch.VY >= 0 {
		found := false
		var top float64
		for _, b := range surfaces {
			if !cur.OverlapsX(b.rect) {
				continue
			}
			if prevBottom <= b.rect.Top() && newBottom >= b.rect.Top() {
				if !found || b.rect.Top() < top {
					top = b.rect.Top()
					found = true
				}
			}
		}
		if found {
			t.Y = fitBefore(top, height)
			ch.VY = 0
			ch.OnGround = true
			ch.CanJump = true
			if !wasOnGround {
				w.Events().Push(ecs.Event{Kind: ecs.EventLanded, Entity: r.entity})
			}
		}
		return
	}

	found := false
	var bottom float64
	for _, b := range surfaces {
		if !b.headroom || !cur.OverlapsX(b.rect) {
			continue
		}
		if prevTop >= b.rect.Bottom() && newTop < b.rect.Bottom() {
			if !found || b.rect.Bottom() > bottom {
				bottom = b.rect.Bottom()
				found = true
			}
		}
	}
	if found {
		t.Y = bottom
		ch.VY = 0
	}
}
