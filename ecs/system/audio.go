package system

import "github.com/milk9111/breakrun/ecs"

// SoundPlayer plays a named clip. Implementations drop unknown names.
type SoundPlayer interface {
	Play(name string)
}

// DefaultCues maps gameplay events to clip names.
var DefaultCues = map[ecs.EventKind]string{
	ecs.EventJumped:        "jump",
	ecs.EventCoinCollected: "coin",
	ecs.EventGameOver:      "game_over",
}

// AudioHandler returns an event handler that plays the cue for each event.
func AudioHandler(player SoundPlayer, cues map[ecs.EventKind]string) EventHandler {
	if player == nil {
		return nil
	}
	if cues == nil {
		cues = DefaultCues
	}
	return func(evt ecs.Event) {
		if name, ok := cues[evt.Kind]; ok {
			player.Play(name)
		}
	}
}
