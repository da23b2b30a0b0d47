package component

type Facing uint8

const (
	FacingRight Facing = iota
	FacingLeft
)

func (f Facing) String() string {
	if f == FacingLeft {
		return "left"
	}
	return "right"
}

// Pose is the animation hint derived from the character's motion.
type Pose uint8

const (
	PoseIdle Pose = iota
	PoseRun
	PoseJump
	PoseFall
	PoseDead
)

func (p Pose) String() string {
	switch p {
	case PoseRun:
		return "run"
	case PoseJump:
		return "jump"
	case PoseFall:
		return "fall"
	case PoseDead:
		return "dead"
	default:
		return "idle"
	}
}

// Character holds the kinematic state of the player-controlled runner.
// PrevX/PrevY are the position before the last integration step. CanJump is
// set by landing and cleared by jumping; a jump needs it and OnGround.
type Character struct {
	VX       float64
	VY       float64
	PrevX    float64
	PrevY    float64
	Facing   Facing
	OnGround bool
	CanJump  bool
	Pose     Pose
}

var CharacterComponent = NewComponent[Character]()
