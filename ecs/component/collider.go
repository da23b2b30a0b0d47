package component

import "github.com/milk9111/breakrun/common"

// Collider is the axis-aligned box used for collision, anchored at Transform.
type Collider struct {
	Width  float64
	Height float64
}

var ColliderComponent = NewComponent[Collider]()

// Bounds combines a transform and collider into a world-space rectangle.
func Bounds(t *Transform, c *Collider) common.Rect {
	if t == nil || c == nil {
		return common.Rect{}
	}
	return common.Rect{X: t.X, Y: t.Y, Width: c.Width, Height: c.Height}
}
