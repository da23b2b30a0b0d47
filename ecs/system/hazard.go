package system

import (
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// HazardSystem ends the session when the character overlaps a hazard.
type HazardSystem struct{}

func NewHazardSystem() *HazardSystem { return &HazardSystem{} }

func (s *HazardSystem) Update(w *ecs.World) {
	if frozen(w) {
		return
	}
	r, ok := findRunner(w)
	if !ok {
		return
	}
	cur := r.rect()
	hit := false
	ecs.ForEach3(w, component.ObstacleComponent, component.TransformComponent, component.ColliderComponent, func(e ecs.Entity, o *component.Obstacle, t *component.Transform, c *component.Collider) {
		if hit || o.Response != component.ResponseHazard {
			return
		}
		if cur.Intersects(component.Bounds(t, c)) {
			hit = true
			endSession(w, e)
		}
	})
}
