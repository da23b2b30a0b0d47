package entity

import (
	"testing"

	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/prefabs"
)

func TestNewCharacterAt(t *testing.T) {
	w := ecs.NewWorld()
	spec := prefabs.DefaultTuning().Character

	e, err := NewCharacterAt(w, spec, 96, 592)
	if err != nil {
		t.Fatalf("NewCharacterAt: %v", err)
	}

	tr, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok || tr.X != 96 || tr.Y != 592 {
		t.Fatalf("transform = %+v", tr)
	}
	c, ok := ecs.Get(w, e, component.ColliderComponent)
	if !ok || c.Width != spec.Collider.Width || c.Height != spec.Collider.Height {
		t.Fatalf("collider = %+v, want %+v", c, spec.Collider)
	}
	ch, ok := ecs.Get(w, e, component.CharacterComponent)
	if !ok {
		t.Fatal("missing character state")
	}
	if ch.PrevX != 96 || ch.PrevY != 592 {
		t.Fatalf("previous position = (%v, %v), want the spawn point", ch.PrevX, ch.PrevY)
	}
	if ch.Facing != component.FacingRight || ch.OnGround || ch.VX != 0 || ch.VY != 0 {
		t.Fatalf("unexpected initial state %+v", *ch)
	}
	if sp, ok := ecs.Get(w, e, component.SpriteComponent); !ok || sp.Key != spec.Sprite {
		t.Fatalf("sprite = %+v, want key %q", sp, spec.Sprite)
	}
	if !ecs.Has(w, e, component.InputComponent) || !ecs.Has(w, e, component.PlayerTagComponent) {
		t.Fatal("character should carry input and player tag")
	}
	if first, ok := ecs.First(w, component.PlayerTagComponent); !ok || first != e {
		t.Fatalf("First(PlayerTag) = %v, want %v", first, e)
	}

	if _, err := NewCharacterAt(nil, spec, 0, 0); err == nil {
		t.Fatal("expected an error for a nil world")
	}
}
