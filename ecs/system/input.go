package system

import (
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// IntentSource reports the player's movement intent for the current tick.
type IntentSource interface {
	Intent() component.Input
}

// IntentFunc adapts a function to IntentSource.
type IntentFunc func() component.Input

func (f IntentFunc) Intent() component.Input {
	if f == nil {
		return component.Input{}
	}
	return f()
}

// InputSystem samples the intent source once per tick into the player's
// Input component.
type InputSystem struct {
	source IntentSource
}

func NewInputSystem(source IntentSource) *InputSystem {
	return &InputSystem{source: source}
}

func (s *InputSystem) SetSource(source IntentSource) {
	if s == nil {
		return
	}
	s.source = source
}

func (s *InputSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	var intent component.Input
	if s.source != nil {
		intent = s.source.Intent()
	}
	ecs.ForEach2(w, component.PlayerTagComponent, component.InputComponent, func(_ ecs.Entity, _ *component.PlayerTag, in *component.Input) {
		*in = intent
	})
}
