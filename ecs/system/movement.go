package system

import (
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/prefabs"
)

// MovementSystem applies walking, friction, gravity and jumping, then
// integrates the character's position. Collision is resolved by later
// systems against the stored previous position.
type MovementSystem struct {
	physics prefabs.PhysicsSpec
}

func NewMovementSystem(physics prefabs.PhysicsSpec) *MovementSystem {
	return &MovementSystem{physics: physics}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if s == nil || frozen(w) {
		return
	}
	r, ok := findRunner(w)
	if !ok {
		return
	}
	var in component.Input
	if v, ok := ecs.Get(w, r.entity, component.InputComponent); ok {
		in = *v
	}
	ch := r.character
	p := s.physics

	switch {
	case in.Left && !in.Right:
		ch.VX = -p.WalkSpeed
		ch.Facing = component.FacingLeft
	case in.Right && !in.Left:
		ch.VX = p.WalkSpeed
		ch.Facing = component.FacingRight
	default:
		ch.VX *= p.Friction
		if common.Abs(ch.VX) < p.StopEpsilon {
			ch.VX = 0
		}
	}

	ch.VY += p.Gravity
	if ch.VY > p.MaxFallSpeed {
		ch.VY = p.MaxFallSpeed
	}

	if in.Jump && ch.OnGround && ch.CanJump {
		ch.VY = p.JumpImpulse
		ch.OnGround = false
		ch.CanJump = false
		w.Events().Push(ecs.Event{Kind: ecs.EventJumped, Entity: r.entity})
	}

	ch.PrevX = r.transform.X
	ch.PrevY = r.transform.Y
	r.transform.X += ch.VX
	r.transform.Y += ch.VY
}
