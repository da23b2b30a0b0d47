package system

import (
	"github.com/milk9111/breakrun/ecs"
	"github.com/milk9111/breakrun/ecs/component"
)

// CoinCollectSystem marks overlapped coins collected and adds their value to
// the score. A coin is only ever counted once.
type CoinCollectSystem struct {
	value int
}

func NewCoinCollectSystem(value int) *CoinCollectSystem {
	return &CoinCollectSystem{value: value}
}

func (s *CoinCollectSystem) Update(w *ecs.World) {
	if s == nil || frozen(w) {
		return
	}
	r, ok := findRunner(w)
	if !ok {
		return
	}
	st := gameState(w)
	cur := r.rect()
	ecs.ForEach3(w, component.CoinComponent, component.TransformComponent, component.ColliderComponent, func(e ecs.Entity, coin *component.Coin, t *component.Transform, c *component.Collider) {
		if coin.Collected || !cur.Intersects(component.Bounds(t, c)) {
			return
		}
		coin.Collected = true
		st.Score += s.value
		w.Events().Push(ecs.Event{Kind: ecs.EventCoinCollected, Entity: e, Value: coin.Index})
	})
}
