package system

import (
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/prefabs"
)

// NewSimulation returns the per-tick system order. Physics steps run in a
// fixed sequence so a hazard hit stops coin pickup and bounds checks in the
// same tick.
func NewSimulation(physics prefabs.PhysicsSpec, intent IntentSource, handlers ...EventHandler) *ecs.Scheduler {
	return ecs.NewScheduler(
		NewInputSystem(intent),
		NewMovementSystem(physics),
		NewPlatformCollisionSystem(),
		NewWallCollisionSystem(),
		NewHazardSystem(),
		NewCoinCollectSystem(physics.CoinValue),
		NewBoundsSystem(),
		NewCameraSystem(),
		NewPoseSystem(),
		NewEventSystem(handlers...),
	)
}
