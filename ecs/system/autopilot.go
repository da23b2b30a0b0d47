package system

import "github.com/milk9111/breakrun/ecs/component"

// Autopilot holds right and jumps once every Every ticks. Headless runs use
// it in place of a keyboard.
type Autopilot struct {
	Every int
	tick  int
}

func (a *Autopilot) Intent() component.Input {
	every := a.Every
	if every <= 0 {
		every = 40
	}
	a.tick++
	return component.Input{Right: true, Jump: a.tick%every == 0}
}
