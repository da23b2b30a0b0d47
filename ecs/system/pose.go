package system

import (
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// PoseSystem derives the animation hint from the character's motion.
type PoseSystem struct{}

func NewPoseSystem() *PoseSystem { return &PoseSystem{} }

func (s *PoseSystem) Update(w *ecs.World) {
	r, ok := findRunner(w)
	if !ok {
		return
	}
	r.character.Pose = PoseFor(*r.character, frozen(w))
}

func PoseFor(ch component.Character, over bool) component.Pose {
	switch {
	case over:
		return component.PoseDead
	case !ch.OnGround && ch.VY < 0:
		return component.PoseJump
	case !ch.OnGround:
		return component.PoseFall
	case ch.VX != 0:
		return component.PoseRun
	default:
		return component.PoseIdle
	}
}
