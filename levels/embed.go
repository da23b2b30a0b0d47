package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// DefaultLevel is the level loaded when none is requested.
const DefaultLevel = "meadow"

var ErrInvalidLevel = errors.New("levels: invalid level")

// Level is the initial data set a session is rebuilt from on every reset.
type Level struct {
	Name      string     `json:"name"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Spawn     Point      `json:"spawn"`
	Platforms []Box      `json:"platforms"`
	Obstacles []Obstacle `json:"obstacles,omitempty"`
	Coins     []Coin     `json:"coins,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Box struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Surface string  `json:"surface,omitempty"`
}

type Obstacle struct {
	Box
	Kind     string `json:"kind"`
	Response string `json:"response,omitempty"`
}

type Coin struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w,omitempty"`
	H float64 `json:"h,omitempty"`
}

const defaultCoinSize = 24

// Validate checks dimensions and fills coin sizes. It returns an error
// wrapping ErrInvalidLevel.
func (l *Level) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: nil level", ErrInvalidLevel)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("%w: dimensions %gx%g", ErrInvalidLevel, l.Width, l.Height)
	}
	if len(l.Platforms) == 0 {
		return fmt.Errorf("%w: %s has no platforms", ErrInvalidLevel, l.Name)
	}
	for i, p := range l.Platforms {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("%w: platform %d has size %gx%g", ErrInvalidLevel, i, p.W, p.H)
		}
	}
	for i, o := range l.Obstacles {
		if o.W <= 0 || o.H <= 0 {
			return fmt.Errorf("%w: obstacle %d (%s) has size %gx%g", ErrInvalidLevel, i, o.Kind, o.W, o.H)
		}
	}
	return nil
}

// Normalized returns a copy of l with optional fields filled in. l itself is
// not modified.
func (l *Level) Normalized() *Level {
	if l == nil {
		return nil
	}
	out := *l
	out.Platforms = append([]Box(nil), l.Platforms...)
	out.Obstacles = append([]Obstacle(nil), l.Obstacles...)
	out.Coins = append([]Coin(nil), l.Coins...)
	out.normalize()
	return &out
}

func (l *Level) normalize() {
	for i := range l.Coins {
		if l.Coins[i].W <= 0 {
			l.Coins[i].W = defaultCoinSize
		}
		if l.Coins[i].H <= 0 {
			l.Coins[i].H = defaultCoinSize
		}
	}
}

// Load resolves a level name. "gen:<seed>" runs the generator script, a path
// ending in .json is read from disk, anything else is looked up on disk under
// Dir and then in the embedded levels.
func Load(name string) (*Level, error) {
	if name == "" {
		name = DefaultLevel
	}
	if seed, ok := strings.CutPrefix(name, "gen:"); ok {
		return GenerateFromSeedString(seed)
	}
	if strings.HasSuffix(strings.ToLower(name), ".json") && fileExists(name) {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", name, err)
		}
		return Decode(name, data)
	}

	file := name
	if !strings.HasSuffix(file, ".json") {
		file += ".json"
	}
	if data, err := os.ReadFile(filepath.Join(Dir, file)); err == nil {
		return Decode(file, data)
	}
	return LoadLevelFromFS(LevelsFS, file)
}

// Dir is the on-disk override directory for level files.
var Dir = "levels"

func LoadLevelFromFS(fsys fs.FS, name string) (*Level, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Decode(name, data)
}

func Decode(name string, data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal %s: %w", name, err)
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(filepath.Base(name), ".json")
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	lvl.normalize()
	return &lvl, nil
}

// Encode writes lvl as indented JSON in the on-disk level format.
func Encode(w io.Writer, lvl *Level) error {
	if err := lvl.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(lvl)
}

// Save writes lvl to path, creating parent directories.
func Save(path string, lvl *Level) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("levels: save %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("levels: save %s: %w", path, err)
	}
	if err := Encode(f, lvl); err != nil {
		_ = f.Close()
		return fmt.Errorf("levels: save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("levels: save %s: %w", path, err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
