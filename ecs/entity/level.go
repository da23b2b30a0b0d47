package entity

import (
	"fmt"
	"log"
	"sort"

	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

// BuildWorld creates a fresh world holding every entity of lvl. It is the
// single construction path for both the first start and every reset, so a
// reset always reproduces the initial data set.
func BuildWorld(lvl *levels.Level, tuning prefabs.Tuning, gen uint64) (*ecs.World, error) {
	if err := lvl.Validate(); err != nil {
		return nil, fmt.Errorf("entity: build world: %w", err)
	}
	lvl = lvl.Normalized()
	w := ecs.NewWorld()

	if _, err := NewSessionState(w, lvl, tuning, gen); err != nil {
		return nil, err
	}
	if err := LoadLevelToWorld(w, lvl, tuning.Render); err != nil {
		return nil, err
	}
	if _, err := NewCharacterAt(w, tuning.Character, lvl.Spawn.X, lvl.Spawn.Y); err != nil {
		return nil, err
	}
	return w, nil
}

// NewSessionState creates the singleton holding score, camera and bounds.
func NewSessionState(w *ecs.World, lvl *levels.Level, tuning prefabs.Tuning, gen uint64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.GameStateComponent, &component.GameState{Generation: gen}); err != nil {
		return 0, fmt.Errorf("session: add game state: %w", err)
	}
	if err := ecs.Add(w, e, component.LevelBoundsComponent, &component.LevelBounds{
		Width:    lvl.Width,
		Height:   lvl.Height,
		FallOutY: lvl.Height + tuning.Physics.FallOutDepth,
	}); err != nil {
		return 0, fmt.Errorf("session: add level bounds: %w", err)
	}
	maxX := lvl.Width - tuning.Camera.ViewportWidth
	if maxX < 0 {
		maxX = 0
	}
	if err := ecs.Add(w, e, component.CameraComponent, &component.Camera{
		AnchorX:       tuning.Camera.AnchorX,
		MinX:          0,
		MaxX:          maxX,
		ViewportWidth: tuning.Camera.ViewportWidth,
	}); err != nil {
		return 0, fmt.Errorf("session: add camera: %w", err)
	}
	return e, nil
}

// LoadLevelToWorld adds platforms (ordered by x), obstacles and coins.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level, render prefabs.RenderSpec) error {
	platforms := append([]levels.Box(nil), lvl.Platforms...)
	sort.SliceStable(platforms, func(i, j int) bool { return platforms[i].X < platforms[j].X })

	for i, p := range platforms {
		surface, err := component.ParseSurface(p.Surface)
		if err != nil {
			log.Printf("level %s: platform %d: %v, using solid", lvl.Name, i, err)
		}
		key := "platform"
		if surface == component.SurfacePassthrough {
			key = "platform_passthrough"
		}
		e := ecs.CreateEntity(w)
		if err := addBody(w, e, p.X, p.Y, p.W, p.H, key, 0); err != nil {
			return fmt.Errorf("level %s: platform %d: %w", lvl.Name, i, err)
		}
		if err := ecs.Add(w, e, component.PlatformComponent, &component.Platform{Surface: surface}); err != nil {
			return fmt.Errorf("level %s: platform %d: %w", lvl.Name, i, err)
		}
	}

	for i, o := range lvl.Obstacles {
		resp, err := component.ParseResponse(o.Response)
		if err != nil {
			log.Printf("level %s: obstacle %d (%s): %v, treating as hazard", lvl.Name, i, o.Kind, err)
		}
		e := ecs.CreateEntity(w)
		if err := addBody(w, e, o.X, o.Y, o.W, o.H, "obstacle_"+resp.String(), 0); err != nil {
			return fmt.Errorf("level %s: obstacle %d: %w", lvl.Name, i, err)
		}
		if err := ecs.Add(w, e, component.ObstacleComponent, &component.Obstacle{Kind: o.Kind, Response: resp}); err != nil {
			return fmt.Errorf("level %s: obstacle %d: %w", lvl.Name, i, err)
		}
	}

	variants := render.CoinVariants
	for i, c := range lvl.Coins {
		e := ecs.CreateEntity(w)
		variant := CoinVariant(i, variants)
		if err := addBody(w, e, c.X, c.Y, c.W, c.H, fmt.Sprintf("coin_%d", variant), variant); err != nil {
			return fmt.Errorf("level %s: coin %d: %w", lvl.Name, i, err)
		}
		if err := ecs.Add(w, e, component.CoinComponent, &component.Coin{Index: i}); err != nil {
			return fmt.Errorf("level %s: coin %d: %w", lvl.Name, i, err)
		}
	}
	return nil
}

// CoinVariant is the visual variant for a coin index: index mod count.
func CoinVariant(index, count int) int {
	if count <= 0 {
		return 0
	}
	v := index % count
	if v < 0 {
		v += count
	}
	return v
}

func addBody(w *ecs.World, e ecs.Entity, x, y, width, height float64, sprite string, variant int) error {
	if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x, Y: y}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ColliderComponent, &component.Collider{Width: width, Height: height}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.SpriteComponent, &component.Sprite{Key: sprite, Variant: variant})
}
