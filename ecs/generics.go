package ecs

import "github.com/milk9111/breakrun/ecs/component"

func CreateEntity(w *World) Entity {
	return w.CreateEntity()
}

func DestroyEntity(w *World, e Entity) bool {
	return w.DestroyEntity(e)
}

func IsAlive(w *World, e Entity) bool {
	return w.IsAlive(e)
}

func Entities(w *World) []Entity {
	return w.Entities()
}

// Add attaches value to e, replacing any previous value of the same kind.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if !handle.Kind().Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(handle.Kind().ID(), true).Set(e, value)
	return nil
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(handle.Kind().ID(), false).Remove(e)
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if !w.IsAlive(e) {
		return false
	}
	return w.store(handle.Kind().ID(), false).Has(e)
}

// Get returns the stored component pointer. Stale or dead handles miss.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	value := w.store(handle.Kind().ID(), false).Get(e)
	if value == nil {
		return nil, false
	}
	cast, ok := value.(*T)
	return cast, ok && cast != nil
}

// ForEach visits every entity carrying the component in storage order.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(Entity, *T)) {
	s := w.store(handle.Kind().ID(), false)
	if s == nil || fn == nil {
		return
	}
	for i, e := range s.denseEntities {
		if v, ok := s.denseValues[i].(*T); ok && v != nil {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities carrying both components, iterating the first.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	sb := w.store(hb.Kind().ID(), false)
	if sb == nil {
		return
	}
	ForEach(w, ha, func(e Entity, a *A) {
		b, ok := sb.Get(e).(*B)
		if !ok || b == nil {
			return
		}
		fn(e, a, b)
	})
}

// ForEach3 visits entities carrying all three components.
func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	sc := w.store(hc.Kind().ID(), false)
	if sc == nil {
		return
	}
	ForEach2(w, ha, hb, func(e Entity, a *A, b *B) {
		c, ok := sc.Get(e).(*C)
		if !ok || c == nil {
			return
		}
		fn(e, a, b, c)
	})
}

// First returns the first entity carrying the component.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, bool) {
	s := w.store(handle.Kind().ID(), false)
	if s == nil || s.Len() == 0 {
		return 0, false
	}
	return s.denseEntities[0], true
}

// Count returns how many entities carry the component.
func Count[T any](w *World, handle component.ComponentHandle[T]) int {
	return w.store(handle.Kind().ID(), false).Len()
}
