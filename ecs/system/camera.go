package system

import (
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// CameraOffset returns the horizontal scroll that keeps the character at
// anchorX on screen, clamped so the view never leaves the level.
func CameraOffset(characterX, anchorX, levelWidth, viewportWidth float64) float64 {
	maxX := levelWidth - viewportWidth
	if maxX < 0 {
		maxX = 0
	}
	return common.Clamp(characterX-anchorX, 0, maxX)
}

// CameraSystem derives the camera offset from the character every tick.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem { return &CameraSystem{} }

func (cs *CameraSystem) Update(w *ecs.World) {
	r, ok := findRunner(w)
	if !ok {
		return
	}
	e, ok := ecs.First(w, component.CameraComponent)
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, e, component.CameraComponent)
	cam.OffsetX = common.Clamp(r.transform.X-cam.AnchorX, cam.MinX, cam.MaxX)
}
