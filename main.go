package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/breakrun/config"
	"github.com/milk9111/breakrun/levels"
	"github.com/milk9111/breakrun/prefabs"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "settings file (TOML)")
	writeConfig := flag.Bool("write-config", false, "write the effective settings to -config and exit")
	debug := flag.Bool("debug", false, "enable debug mode")
	autoStart := flag.Bool("autostart", false, "start the break timer with the first run")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional) or gen:<seed>")
	bridgeURL := flag.String("bridge", "", "timer host websocket URL (overrides settings)")
	assetDir := flag.String("assets", "", "directory with asset overrides")
	headless := flag.Duration("headless", 0, "run without a window for this long using the autopilot")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Printf("%v; using defaults", err)
	}
	if *levelName != "" {
		settings.Level = *levelName
	}
	if *bridgeURL != "" {
		settings.Bridge.URL = *bridgeURL
	}
	if *assetDir != "" {
		settings.AssetDir = *assetDir
	}
	if *autoStart {
		settings.Timer.AutoStart = true
	}
	if err := settings.Validate(); err != nil {
		log.Fatal(err)
	}
	if *writeConfig {
		if err := config.Save(*configPath, settings); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *configPath)
		return
	}

	tuning, err := prefabs.LoadTuning()
	if err != nil {
		log.Printf("prefabs: %v; using built-in tuning", err)
	}
	lvl, err := levels.Load(settings.Level)
	if err != nil {
		log.Fatal(err)
	}

	if *headless > 0 {
		if err := runHeadless(settings, lvl, tuning, *headless, *debug); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(settings.WindowSize())
	ebiten.SetWindowTitle(settings.Window.Title)
	ebiten.SetFullscreen(settings.Window.Fullscreen)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	ebiten.SetWindowClosingHandled(true)

	game, err := NewGame(settings, settings.Level, lvl, tuning, *debug, settings.Timer.AutoStart)
	if err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
