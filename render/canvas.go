package render

import (
	"image/color"

	"github.com/milk9111/breakrun/common"
)

// Canvas is the drawing context handed to the pipeline for one frame. All
// coordinates are screen space.
type Canvas interface {
	FillRect(r common.Rect, c color.Color)
	FillCircle(cx, cy, radius float64, c color.Color)
	StrokeLine(x0, y0, x1, y1 float64, c color.Color)
	// DrawImage stretches the named image over r. It reports false when the
	// image is not available.
	DrawImage(key string, r common.Rect, flipX bool) bool
	// DrawImageCircle draws the named image clipped to the circle inscribed
	// in r.
	DrawImageCircle(key string, r common.Rect) bool
	Text(s string, x, y float64, c color.Color)
	TextWidth(s string) float64
}
