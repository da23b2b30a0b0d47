package entity

import (
	"fmt"

	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/prefabs"
)

// NewCharacterAt creates the runner with its top-left corner at (x, y). The
// previous position starts at the spawn point so the first tick resolves
// against where the character actually is.
func NewCharacterAt(w *ecs.World, spec prefabs.CharacterSpec, x, y float64) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("character: nil world")
	}
	e := ecs.CreateEntity(w)
	if err := addBody(w, e, x, y, spec.Collider.Width, spec.Collider.Height, spec.Sprite, 0); err != nil {
		return 0, fmt.Errorf("character: add body: %w", err)
	}
	if err := ecs.Add(w, e, component.CharacterComponent, &component.Character{
		PrevX:  x,
		PrevY:  y,
		Facing: component.FacingRight,
	}); err != nil {
		return 0, fmt.Errorf("character: add state: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent, &component.Input{}); err != nil {
		return 0, fmt.Errorf("character: add input: %w", err)
	}
	if err := ecs.Add(w, e, component.PlayerTagComponent, &component.PlayerTag{}); err != nil {
		return 0, fmt.Errorf("character: add tag: %w", err)
	}
	return e, nil
}
