package ebitencanvas

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/breakrun/common"
	"github.com/milk9111/breakrun/render"
	"golang.org/x/image/font/basicfont"
)

// Library holds GPU images keyed by render key.
type Library struct {
	images map[string]*ebiten.Image
}

// NewLibrary uploads decoded images. Nil entries are skipped.
func NewLibrary(decoded map[string]image.Image) *Library {
	lib := &Library{images: make(map[string]*ebiten.Image, len(decoded))}
	for key, img := range decoded {
		if img == nil {
			continue
		}
		lib.images[key] = ebiten.NewImageFromImage(img)
	}
	return lib
}

func (l *Library) Image(key string) (*ebiten.Image, bool) {
	if l == nil {
		return nil, false
	}
	img, ok := l.images[key]
	return img, ok
}

var _ render.Canvas = (*Canvas)(nil)

// Canvas draws onto an *ebiten.Image. Call SetTarget once per frame.
type Canvas struct {
	dst   *ebiten.Image
	lib   *Library
	face  text.Face
	masks map[image.Point]*ebiten.Image
}

func New(lib *Library) *Canvas {
	return &Canvas{
		lib:   lib,
		face:  text.NewGoXFace(basicfont.Face7x13),
		masks: make(map[image.Point]*ebiten.Image),
	}
}

func (c *Canvas) SetTarget(dst *ebiten.Image) {
	c.dst = dst
}

func (c *Canvas) FillRect(r common.Rect, clr color.Color) {
	if c.dst == nil {
		return
	}
	vector.DrawFilledRect(c.dst, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), clr, false)
}

func (c *Canvas) FillCircle(cx, cy, radius float64, clr color.Color) {
	if c.dst == nil {
		return
	}
	vector.DrawFilledCircle(c.dst, float32(cx), float32(cy), float32(radius), clr, true)
}

func (c *Canvas) StrokeLine(x0, y0, x1, y1 float64, clr color.Color) {
	if c.dst == nil {
		return
	}
	vector.StrokeLine(c.dst, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, false)
}

func (c *Canvas) DrawImage(key string, r common.Rect, flipX bool) bool {
	img, ok := c.lib.Image(key)
	if !ok || c.dst == nil {
		return false
	}
	c.dst.DrawImage(img, fitOptions(img, r, flipX))
	return true
}

// DrawImageCircle masks the image with a circle drawn into a cached
// offscreen buffer of the target size.
func (c *Canvas) DrawImageCircle(key string, r common.Rect) bool {
	img, ok := c.lib.Image(key)
	if !ok || c.dst == nil {
		return false
	}
	size := image.Pt(int(math.Ceil(r.Width)), int(math.Ceil(r.Height)))
	if size.X <= 0 || size.Y <= 0 {
		return true
	}
	buf, ok := c.masks[size]
	if !ok {
		buf = ebiten.NewImage(size.X, size.Y)
		c.masks[size] = buf
	}
	buf.Clear()
	radius := math.Min(r.Width, r.Height) / 2
	vector.DrawFilledCircle(buf, float32(r.Width/2), float32(r.Height/2), float32(radius), color.White, true)

	op := fitOptions(img, common.Rect{Width: r.Width, Height: r.Height}, false)
	op.Blend = ebiten.BlendSourceIn
	buf.DrawImage(img, op)

	out := &ebiten.DrawImageOptions{}
	out.GeoM.Translate(r.X, r.Y)
	c.dst.DrawImage(buf, out)
	return true
}

func (c *Canvas) Text(s string, x, y float64, clr color.Color) {
	if c.dst == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(c.dst, s, c.face, op)
}

func (c *Canvas) TextWidth(s string) float64 {
	w, _ := text.Measure(s, c.face, 0)
	return w
}

func fitOptions(img *ebiten.Image, r common.Rect, flipX bool) *ebiten.DrawImageOptions {
	b := img.Bounds()
	op := &ebiten.DrawImageOptions{}
	sx := r.Width / float64(b.Dx())
	sy := r.Height / float64(b.Dy())
	if flipX {
		op.GeoM.Scale(-sx, sy)
		op.GeoM.Translate(r.X+r.Width, r.Y)
	} else {
		op.GeoM.Scale(sx, sy)
		op.GeoM.Translate(r.X, r.Y)
	}
	op.Filter = ebiten.FilterNearest
	return op
}
