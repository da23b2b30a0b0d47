// Command levelgen runs the level generator script for a seed and writes the
// result in the JSON level format, optionally playing it with the autopilot
// first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/milk9111/breakrun/ecs/system"
	"github.com/milk9111/breakrun/engine"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

func main() {
	seed := flag.Int64("seed", time.Now().Unix(), "generator seed")
	script := flag.String("script", "", "generator script (defaults to the embedded runner)")
	out := flag.String("out", "", "output file (defaults to levels/gen_<seed>.json, - for stdout)")
	check := flag.Int("check", 0, "play the level with the autopilot for this many ticks before saving")
	flag.Parse()

	lvl, err := generate(*script, *seed)
	if err != nil {
		log.Fatal(err)
	}

	if *check > 0 {
		r, err := playtest(lvl, prefabs.DefaultTuning(), *check)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("playtest: %s", r)
	}

	if *out == "-" {
		if err := levels.Encode(os.Stdout, lvl); err != nil {
			log.Fatal(err)
		}
		return
	}
	path := *out
	if path == "" {
		path = filepath.Join(levels.Dir, fmt.Sprintf("gen_%d.json", *seed))
	}
	if err := levels.Save(path, lvl); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (%d platforms, %d obstacles, %d coins)", path, len(lvl.Platforms), len(lvl.Obstacles), len(lvl.Coins))
}

func generate(script string, seed int64) (*levels.Level, error) {
	if script == "" {
		return levels.GenerateFromSeedString(fmt.Sprint(seed))
	}
	src, err := os.ReadFile(script)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return levels.Generate(ctx, src, seed)
}

type result struct {
	Ticks    int
	Score    int
	State    engine.State
	Distance float64
}

func (r result) String() string {
	return fmt.Sprintf("%s after %d ticks, score %d, reached x=%.0f", r.State, r.Ticks, r.Score, r.Distance)
}

// playtest steps a session directly, without a loop or clock, until the run
// ends or ticks run out.
func playtest(lvl *levels.Level, tuning prefabs.Tuning, ticks int) (result, error) {
	s, err := engine.NewSession(engine.Options{Level: lvl, Tuning: tuning, Intent: &system.Autopilot{}})
	if err != nil {
		return result{}, err
	}
	defer s.Exit()
	if err := s.Start(false); err != nil {
		return result{}, err
	}

	var r result
	for r.Ticks < ticks && s.State() == engine.StateRunning {
		s.Tick()
		r.Ticks++
	}
	r.Score = s.Score()
	r.State = s.State()
	r.Distance = s.Snapshot().Character.Rect.X
	return r, nil
}
