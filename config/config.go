package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/milk9111/breakrun/common"
)

// DefaultPath is where the host settings are read from when -config is not
// given.
const DefaultPath = "breakrun.toml"

var ErrInvalidSettings = errors.New("config: invalid settings")

// Duration decodes TOML strings such as "25m" or "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Window struct {
	Title      string  `toml:"title"`
	Scale      float64 `toml:"scale"`
	Fullscreen bool    `toml:"fullscreen"`
}

type Bridge struct {
	URL         string   `toml:"url"`
	DialTimeout Duration `toml:"dial_timeout"`
}

type Timer struct {
	Focus     Duration `toml:"focus"`
	Break     Duration `toml:"break"`
	AutoStart bool     `toml:"auto_start"`
}

// Settings are the host-level options. Gameplay tuning lives in prefabs.
type Settings struct {
	Window   Window  `toml:"window"`
	TPS      int     `toml:"tps"`
	Level    string  `toml:"level"`
	AssetDir string  `toml:"asset_dir"`
	Volume   float64 `toml:"volume"`
	Bridge   Bridge  `toml:"bridge"`
	Timer    Timer   `toml:"timer"`
}

func Default() Settings {
	return Settings{
		Window: Window{Title: "breakrun", Scale: 1},
		TPS:    common.TargetTPS,
		Volume: 0.8,
		Bridge: Bridge{DialTimeout: Duration{5 * time.Second}},
		Timer: Timer{
			Focus: Duration{25 * time.Minute},
			Break: Duration{5 * time.Minute},
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file is not
// an error.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("config: load %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		log.Printf("config: %s: unknown key %s", path, key)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("config: load %s: %w", path, err)
	}
	return s, nil
}

// Decode parses settings from TOML text.
func Decode(data string) (Settings, error) {
	s := Default()
	if _, err := toml.Decode(data, &s); err != nil {
		return Default(), fmt.Errorf("config: decode: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

func Save(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: save %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	d := Default()
	if s.Window.Title == "" {
		s.Window.Title = d.Window.Title
	}
	if s.Window.Scale == 0 {
		s.Window.Scale = d.Window.Scale
	}
	if s.TPS == 0 {
		s.TPS = d.TPS
	}
	if s.Bridge.DialTimeout.Duration == 0 {
		s.Bridge.DialTimeout = d.Bridge.DialTimeout
	}
	if s.Timer.Focus.Duration == 0 {
		s.Timer.Focus = d.Timer.Focus
	}
	if s.Timer.Break.Duration == 0 {
		s.Timer.Break = d.Timer.Break
	}
}

// Validate reports the first out-of-range value, wrapping ErrInvalidSettings.
func (s Settings) Validate() error {
	switch {
	case s.Window.Scale <= 0 || s.Window.Scale > 4:
		return fmt.Errorf("%w: window.scale %g not in (0, 4]", ErrInvalidSettings, s.Window.Scale)
	case s.TPS < 10 || s.TPS > 240:
		return fmt.Errorf("%w: tps %d not in [10, 240]", ErrInvalidSettings, s.TPS)
	case s.Volume < 0 || s.Volume > 1:
		return fmt.Errorf("%w: volume %g not in [0, 1]", ErrInvalidSettings, s.Volume)
	case s.Timer.Focus.Duration < 0 || s.Timer.Break.Duration < 0:
		return fmt.Errorf("%w: negative timer duration", ErrInvalidSettings)
	case s.Bridge.URL != "" && !strings.HasPrefix(s.Bridge.URL, "ws://") && !strings.HasPrefix(s.Bridge.URL, "wss://"):
		return fmt.Errorf("%w: bridge.url %q must use ws:// or wss://", ErrInvalidSettings, s.Bridge.URL)
	}
	return nil
}

// WindowSize returns the window size for the configured scale.
func (s Settings) WindowSize() (int, int) {
	return int(common.BaseWidth * s.Window.Scale), int(common.BaseHeight * s.Window.Scale)
}
