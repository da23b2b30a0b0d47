package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// PhysicsSpec holds the per-tick kinematic constants. Speeds are in pixels
// per tick, not per second.
type PhysicsSpec struct {
	WalkSpeed    float64 `yaml:"walk_speed"`
	Friction     float64 `yaml:"friction"`
	StopEpsilon  float64 `yaml:"stop_epsilon"`
	Gravity      float64 `yaml:"gravity"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	JumpImpulse  float64 `yaml:"jump_impulse"`
	CoinValue    int     `yaml:"coin_value"`
	FallOutDepth float64 `yaml:"fall_out_depth"`
}

func DefaultPhysics() PhysicsSpec {
	return PhysicsSpec{
		WalkSpeed:    4,
		Friction:     0.75,
		StopEpsilon:  0.1,
		Gravity:      0.5,
		MaxFallSpeed: 12,
		JumpImpulse:  -10,
		CoinValue:    10,
		FallOutDepth: 200,
	}
}

func (s *PhysicsSpec) applyDefaults() {
	d := DefaultPhysics()
	if s.WalkSpeed <= 0 {
		s.WalkSpeed = d.WalkSpeed
	}
	if s.Friction <= 0 || s.Friction >= 1 {
		s.Friction = d.Friction
	}
	if s.StopEpsilon <= 0 {
		s.StopEpsilon = d.StopEpsilon
	}
	if s.Gravity <= 0 {
		s.Gravity = d.Gravity
	}
	if s.MaxFallSpeed <= 0 {
		s.MaxFallSpeed = d.MaxFallSpeed
	}
	if s.JumpImpulse >= 0 {
		s.JumpImpulse = d.JumpImpulse
	}
	if s.CoinValue <= 0 {
		s.CoinValue = d.CoinValue
	}
	if s.FallOutDepth <= 0 {
		s.FallOutDepth = d.FallOutDepth
	}
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type CharacterSpec struct {
	Name     string       `yaml:"name"`
	Collider ColliderSpec `yaml:"collider"`
	Sprite   string       `yaml:"sprite"`
}

func (s *CharacterSpec) applyDefaults() {
	if s.Name == "" {
		s.Name = "runner"
	}
	if s.Collider.Width <= 0 {
		s.Collider.Width = 32
	}
	if s.Collider.Height <= 0 {
		s.Collider.Height = 48
	}
	if s.Sprite == "" {
		s.Sprite = "character"
	}
}

type CameraSpec struct {
	AnchorX       float64 `yaml:"anchor_x"`
	ViewportWidth float64 `yaml:"viewport_width"`
}

func (s *CameraSpec) applyDefaults() {
	if s.ViewportWidth <= 0 {
		s.ViewportWidth = 1280
	}
	if s.AnchorX <= 0 {
		s.AnchorX = s.ViewportWidth / 3
	}
}

// RenderSpec configures the draw pipeline and the asset keys it resolves.
type RenderSpec struct {
	CullMargin   float64               `yaml:"cull_margin"`
	CoinVariants int                   `yaml:"coin_variants"`
	Images       map[string]string     `yaml:"images"`
	Colors       map[string]*YAMLColor `yaml:"colors"`
}

func (s *RenderSpec) applyDefaults() {
	if s.CullMargin < 0 {
		s.CullMargin = 0
	}
	if s.CullMargin == 0 {
		s.CullMargin = 64
	}
	if s.CoinVariants <= 0 {
		s.CoinVariants = 4
	}
	if s.Images == nil {
		s.Images = map[string]string{}
	}
	if s.Colors == nil {
		s.Colors = map[string]*YAMLColor{}
	}
}

// Color returns the configured fallback color for key, or def.
func (s RenderSpec) Color(key string, def color.Color) color.Color {
	if c, ok := s.Colors[key]; ok && c != nil && c.Color != nil {
		return c.Color
	}
	return def
}

type AudioSpec struct {
	Name          string  `yaml:"name"`
	File          string  `yaml:"file"`
	Volume        float64 `yaml:"volume"`
	MinIntervalMS int     `yaml:"min_interval_ms"`
}

type AudioBankSpec struct {
	Clips []AudioSpec `yaml:"clips"`
}

// Tuning is every prefab the game session needs, loaded together.
type Tuning struct {
	Physics   PhysicsSpec
	Character CharacterSpec
	Camera    CameraSpec
	Render    RenderSpec
	Audio     AudioBankSpec
}

// DefaultTuning returns tuning that does not depend on any yaml file.
func DefaultTuning() Tuning {
	t := Tuning{Physics: DefaultPhysics()}
	t.Character.applyDefaults()
	t.Camera.applyDefaults()
	t.Render.applyDefaults()
	return t
}

func LoadTuning() (Tuning, error) {
	var t Tuning
	var err error
	if t.Physics, err = LoadSpec[PhysicsSpec]("physics.yaml"); err != nil {
		return DefaultTuning(), err
	}
	if t.Character, err = LoadSpec[CharacterSpec]("character.yaml"); err != nil {
		return DefaultTuning(), err
	}
	if t.Camera, err = LoadSpec[CameraSpec]("camera.yaml"); err != nil {
		return DefaultTuning(), err
	}
	if t.Render, err = LoadSpec[RenderSpec]("render.yaml"); err != nil {
		return DefaultTuning(), err
	}
	if t.Audio, err = LoadSpec[AudioBankSpec]("audio.yaml"); err != nil {
		return DefaultTuning(), err
	}
	t.Physics.applyDefaults()
	t.Character.applyDefaults()
	t.Camera.applyDefaults()
	t.Render.applyDefaults()
	return t, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}
	a := uint8(0xff)
	if len(s) == 8 {
		if a, err = parse(6); err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
