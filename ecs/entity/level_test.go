package entity

import (
	"reflect"
	"testing"

	"github.com/milk9111/breakrun/ecs/component"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

func testLevel() *levels.Level {
	return &levels.Level{
		Name:   "test",
		Width:  2000,
		Height: 720,
		Spawn:  levels.Point{X: 100, Y: 592},
		Platforms: []levels.Box{
			{X: 800, Y: 500, W: 100, H: 16, Surface: "passthrough"},
			{X: 0, Y: 640, W: 2000, H: 80},
		},
		Obstacles: []levels.Obstacle{
			{Box: levels.Box{X: 400, Y: 616, W: 48, H: 24}, Kind: "spikes", Response: "hazard"},
			{Box: levels.Box{X: 600, Y: 544, W: 64, H: 96}, Kind: "tree", Response: "safe"},
			{Box: levels.Box{X: 700, Y: 592, W: 48, H: 48}, Kind: "crate", Response: "wobbly"},
		},
		Coins: []levels.Coin{
			{X: 200, Y: 560, W: 24, H: 24},
			{X: 250, Y: 560, W: 24, H: 24},
			{X: 300, Y: 560, W: 24, H: 24},
			{X: 350, Y: 560, W: 24, H: 24},
			{X: 380, Y: 560, W: 24, H: 24},
		},
	}
}

func TestBuildWorld(t *testing.T) {
	w, err := BuildWorld(testLevel(), prefabs.DefaultTuning(), 3)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	snap := TakeSnapshot(w)

	if !snap.HasCharacter {
		t.Fatalf("expected a character")
	}
	if snap.Character.Rect.X != 100 || snap.Character.Rect.Y != 592 {
		t.Fatalf("character spawned at %+v", snap.Character.Rect)
	}
	if snap.State.Generation != 3 || snap.State.Score != 0 || snap.State.GameOver {
		t.Fatalf("unexpected state %+v", snap.State)
	}
	if snap.Bounds.FallOutY != 720+prefabs.DefaultPhysics().FallOutDepth {
		t.Fatalf("fall-out y = %v", snap.Bounds.FallOutY)
	}
	if snap.Camera.MaxX != 2000-1280 {
		t.Fatalf("camera max = %v", snap.Camera.MaxX)
	}

	if len(snap.Platforms) != 2 || snap.Platforms[0].Rect.X != 0 || snap.Platforms[1].Surface != component.SurfacePassthrough {
		t.Fatalf("platforms should be ordered by x: %+v", snap.Platforms)
	}

	wantResponses := []component.Response{component.ResponseHazard, component.ResponseSafe, component.ResponseHazard}
	for i, o := range snap.Obstacles {
		if o.Response != wantResponses[i] {
			t.Fatalf("obstacle %d response = %s, want %s", i, o.Response, wantResponses[i])
		}
	}
}

func TestCoinVariantIsDeterministic(t *testing.T) {
	w, err := BuildWorld(testLevel(), prefabs.DefaultTuning(), 0)
	if err != nil {
		t.Fatalf("BuildWorld: %v", err)
	}
	snap := TakeSnapshot(w)
	for _, c := range snap.Coins {
		want := c.Index % 4
		if c.Sprite.Variant != want {
			t.Fatalf("coin %d variant = %d, want %d", c.Index, c.Sprite.Variant, want)
		}
	}

	cases := []struct{ index, count, want int }{
		{0, 4, 0}, {5, 4, 1}, {7, 3, 1}, {-1, 4, 3}, {9, 0, 0},
	}
	for _, c := range cases {
		if got := CoinVariant(c.index, c.count); got != c.want {
			t.Fatalf("CoinVariant(%d, %d) = %d, want %d", c.index, c.count, got, c.want)
		}
		if CoinVariant(c.index, c.count) != CoinVariant(c.index, c.count) {
			t.Fatalf("variant not stable")
		}
	}
}

func TestBuildWorldIsReproducible(t *testing.T) {
	a, err := BuildWorld(testLevel(), prefabs.DefaultTuning(), 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildWorld(testLevel(), prefabs.DefaultTuning(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(TakeSnapshot(a), TakeSnapshot(b)) {
		t.Fatalf("two builds of the same level differ")
	}
}

func TestBuildWorldNilLevel(t *testing.T) {
	if _, err := BuildWorld(nil, prefabs.DefaultTuning(), 0); err == nil {
		t.Fatalf("expected error for nil level")
	}
}
