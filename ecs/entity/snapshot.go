package entity

import (
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// Body is the read-only view of a positioned, drawable entity.
type Body struct {
	Entity ecs.Entity
	Rect   common.Rect
	Sprite component.Sprite
}

type CharacterView struct {
	Body
	component.Character
}

type PlatformView struct {
	Body
	Surface component.Surface
}

type ObstacleView struct {
	Body
	component.Obstacle
}

type CoinView struct {
	Body
	component.Coin
}

// Snapshot is a value copy of everything the render pipeline reads. It holds
// no pointers into the world, so drawing cannot mutate simulation state.
type Snapshot struct {
	Character    CharacterView
	HasCharacter bool
	Platforms    []PlatformView
	Obstacles    []ObstacleView
	Coins        []CoinView
	State        component.GameState
	Camera       component.Camera
	Bounds       component.LevelBounds
}

func TakeSnapshot(w *ecs.World) Snapshot {
	var s Snapshot
	if w == nil {
		return s
	}

	if e, ok := ecs.First(w, component.GameStateComponent); ok {
		if st, ok := ecs.Get(w, e, component.GameStateComponent); ok {
			s.State = *st
		}
		if cam, ok := ecs.Get(w, e, component.CameraComponent); ok {
			s.Camera = *cam
		}
		if b, ok := ecs.Get(w, e, component.LevelBoundsComponent); ok {
			s.Bounds = *b
		}
	}

	if e, ok := ecs.First(w, component.PlayerTagComponent); ok {
		if c, ok := ecs.Get(w, e, component.CharacterComponent); ok {
			s.Character = CharacterView{Body: bodyOf(w, e), Character: *c}
			s.HasCharacter = true
		}
	}

	ecs.ForEach(w, component.PlatformComponent, func(e ecs.Entity, p *component.Platform) {
		s.Platforms = append(s.Platforms, PlatformView{Body: bodyOf(w, e), Surface: p.Surface})
	})
	ecs.ForEach(w, component.ObstacleComponent, func(e ecs.Entity, o *component.Obstacle) {
		s.Obstacles = append(s.Obstacles, ObstacleView{Body: bodyOf(w, e), Obstacle: *o})
	})
	ecs.ForEach(w, component.CoinComponent, func(e ecs.Entity, c *component.Coin) {
		s.Coins = append(s.Coins, CoinView{Body: bodyOf(w, e), Coin: *c})
	})
	return s
}

func bodyOf(w *ecs.World, e ecs.Entity) Body {
	b := Body{Entity: e}
	t, _ := ecs.Get(w, e, component.TransformComponent)
	c, _ := ecs.Get(w, e, component.ColliderComponent)
	b.Rect = component.Bounds(t, c)
	if sp, ok := ecs.Get(w, e, component.SpriteComponent); ok {
		b.Sprite = *sp
	}
	return b
}
