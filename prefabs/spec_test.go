package prefabs

import (
	"image/color"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadTuningFromEmbedded(t *testing.T) {
	tuning, err := LoadTuning()
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tuning.Physics.JumpImpulse >= 0 {
		t.Fatalf("jump impulse must point up, got %v", tuning.Physics.JumpImpulse)
	}
	if tuning.Physics.CoinValue != 10 {
		t.Fatalf("coin value = %d, want 10", tuning.Physics.CoinValue)
	}
	if tuning.Character.Collider.Width != 32 || tuning.Character.Collider.Height != 48 {
		t.Fatalf("unexpected collider %+v", tuning.Character.Collider)
	}
	if tuning.Render.CoinVariants != 4 {
		t.Fatalf("coin variants = %d, want 4", tuning.Render.CoinVariants)
	}
	if len(tuning.Audio.Clips) == 0 {
		t.Fatalf("expected audio clips")
	}
}

func TestPhysicsDefaults(t *testing.T) {
	cases := []struct {
		name string
		in   PhysicsSpec
		want PhysicsSpec
	}{
		{"empty", PhysicsSpec{}, DefaultPhysics()},
		{"positive_jump_rejected", PhysicsSpec{JumpImpulse: 5}, DefaultPhysics()},
		{"friction_out_of_range", PhysicsSpec{Friction: 1.5}, DefaultPhysics()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.in
			got.applyDefaults()
			if got != c.want {
				t.Fatalf("got %+v, want %+v", got, c.want)
			}
		})
	}

	custom := PhysicsSpec{WalkSpeed: 6, JumpImpulse: -14}
	custom.applyDefaults()
	if custom.WalkSpeed != 6 || custom.JumpImpulse != -14 {
		t.Fatalf("explicit values must survive defaults: %+v", custom)
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{`"#ff0080"`, color.NRGBA{R: 0xff, G: 0x00, B: 0x80, A: 0xff}, false},
		{`"00000080"`, color.NRGBA{A: 0x80}, false},
		{`"#fff"`, color.NRGBA{}, true},
		{`[1, 2]`, color.NRGBA{}, true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", c.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Color != c.want {
				t.Fatalf("got %v, want %v", got.Color, c.want)
			}
		})
	}
}

func TestRenderSpecColorFallback(t *testing.T) {
	spec := RenderSpec{}
	spec.applyDefaults()
	def := color.NRGBA{R: 1}
	if got := spec.Color("missing", def); got != def {
		t.Fatalf("expected fallback color, got %v", got)
	}
}

func TestIsWatchedFile(t *testing.T) {
	cases := map[string]bool{
		"prefabs/physics.yaml":     true,
		"levels/meadow.JSON":       true,
		"levels/scripts/gen.tengo": true,
		"assets/images/coin.png":   false,
		"prefabs/physics.yaml.swp": false,
	}
	for path, want := range cases {
		if got := IsWatchedFile(path); got != want {
			t.Fatalf("IsWatchedFile(%q) = %v, want %v", path, got, want)
		}
	}
}
