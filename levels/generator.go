package levels

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// GeneratorScript is the embedded script used for "gen:<seed>" levels.
const GeneratorScript = "scripts/runner.tengo"

const generatorTimeout = 2 * time.Second

func GenerateFromSeedString(s string) (*Level, error) {
	seed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("levels: parse seed %q: %w", s, err)
	}
	src, err := generatorSource()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), generatorTimeout)
	defer cancel()
	return Generate(ctx, src, seed)
}

// generatorSource reads the generator script from Dir on disk when present,
// so edits are picked up by hot reload, and from the embedded copy otherwise.
func generatorSource() ([]byte, error) {
	if src, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(GeneratorScript))); err == nil {
		return src, nil
	}
	src, err := ScriptsFS.ReadFile(GeneratorScript)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", GeneratorScript, err)
	}
	return src, nil
}

// Generate runs a tengo level script. The script receives `seed` and must
// define a `level` map shaped like the JSON level format. The same script and
// seed always produce the same level. Negative seeds are folded onto
// non-negative ones.
func Generate(ctx context.Context, src []byte, seed int64) (*Level, error) {
	if seed < 0 {
		seed = -(seed + 1)
	}
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math", "fmt"))
	if err := script.Add("seed", seed); err != nil {
		return nil, fmt.Errorf("levels: bind seed: %w", err)
	}
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("levels: run generator: %w", err)
	}
	if !compiled.IsDefined("level") {
		return nil, fmt.Errorf("%w: generator did not define level", ErrInvalidLevel)
	}
	lvl, err := levelFromMap(compiled.Get("level").Map())
	if err != nil {
		return nil, err
	}
	if lvl.Name == "" {
		lvl.Name = fmt.Sprintf("gen-%d", seed)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	lvl.normalize()
	return lvl, nil
}

func levelFromMap(m map[string]interface{}) (*Level, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: level is not a map", ErrInvalidLevel)
	}
	lvl := &Level{
		Name:   stringField(m, "name"),
		Width:  floatField(m, "width"),
		Height: floatField(m, "height"),
	}
	if spawn, ok := m["spawn"].(map[string]interface{}); ok {
		lvl.Spawn = Point{X: floatField(spawn, "x"), Y: floatField(spawn, "y")}
	}
	for _, raw := range arrayField(m, "platforms") {
		pm, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: platform entry %T", ErrInvalidLevel, raw)
		}
		lvl.Platforms = append(lvl.Platforms, boxFromMap(pm))
	}
	for _, raw := range arrayField(m, "obstacles") {
		om, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: obstacle entry %T", ErrInvalidLevel, raw)
		}
		lvl.Obstacles = append(lvl.Obstacles, Obstacle{
			Box:      boxFromMap(om),
			Kind:     stringField(om, "kind"),
			Response: stringField(om, "response"),
		})
	}
	for _, raw := range arrayField(m, "coins") {
		cm, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: coin entry %T", ErrInvalidLevel, raw)
		}
		lvl.Coins = append(lvl.Coins, Coin{
			X: floatField(cm, "x"),
			Y: floatField(cm, "y"),
			W: floatField(cm, "w"),
			H: floatField(cm, "h"),
		})
	}
	return lvl, nil
}

func boxFromMap(m map[string]interface{}) Box {
	return Box{
		X:       floatField(m, "x"),
		Y:       floatField(m, "y"),
		W:       floatField(m, "w"),
		H:       floatField(m, "h"),
		Surface: stringField(m, "surface"),
	}
}

func arrayField(m map[string]interface{}, key string) []interface{} {
	arr, _ := m[key].([]interface{})
	return arr
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func floatField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case float64:
		return v
	}
	return 0
}
