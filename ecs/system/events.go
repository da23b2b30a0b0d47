package system

import "github.com/milk9111/breakrun/ecs"

// EventHandler receives each gameplay event raised during a tick.
type EventHandler func(ecs.Event)

// EventSystem drains the world's event queue at the end of the tick and
// hands every event to each handler in order.
type EventSystem struct {
	handlers []EventHandler
}

func NewEventSystem(handlers ...EventHandler) *EventSystem {
	s := &EventSystem{}
	for _, h := range handlers {
		s.Handle(h)
	}
	return s
}

func (s *EventSystem) Handle(h EventHandler) {
	if s == nil || h == nil {
		return
	}
	s.handlers = append(s.handlers, h)
}

func (s *EventSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	for _, evt := range w.Events().Drain() {
		for _, h := range s.handlers {
			h(evt)
		}
	}
}
