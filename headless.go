package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/milk9111/breakrun/config"
	"github.com/milk9111/breakrun/ecs/system"
	"github.com/milk9111/breakrun/engine"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

// runHeadless plays the level with the autopilot for at most d, without a
// window or audio, and logs how far it got.
func runHeadless(settings config.Settings, lvl *levels.Level, tuning prefabs.Tuning, d time.Duration, debug bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	session, err := engine.NewSession(engine.Options{
		Level:      lvl,
		Tuning:     tuning,
		Intent:     &system.Autopilot{},
		Debug:      debug,
		OnGameOver: func(int) { cancel() },
	})
	if err != nil {
		return err
	}
	loop := engine.NewLoop(settings.TPS, session.Tick, nil)
	session.AttachLoop(loop)
	if err := session.Start(false); err != nil {
		return err
	}

	ticker := time.NewTicker(loop.Interval() / 2)
	defer ticker.Stop()
	err = loop.Run(ctx, ticker.C)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	snap := session.Snapshot()
	log.Printf("headless: %s after %d ticks, score %d, x %.0f", session.State(), loop.Ticks(), session.Score(), snap.Character.Rect.X)
	session.Exit()
	return nil
}
