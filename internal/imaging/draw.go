package imaging

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ParseHex converts a "#RRGGBB" string to an opaque RGBA color. Invalid
// strings fall back to opaque black rather than failing: overlay palette
// entries come from configuration and a bad value should not abort a run.
func ParseHex(hex string) color.RGBA {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{A: 255}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// DrawCircle draws a 1-pixel circle outline using the midpoint algorithm.
// Pixels outside the image bounds are skipped.
func DrawCircle(img *image.RGBA, cx, cy, radius int, col color.RGBA) {
	set := func(x, y int) {
		if image.Pt(x, y).In(img.Bounds()) {
			img.SetRGBA(x, y, col)
		}
	}

	x := radius
	y := 0
	err := 0
	for x >= y {
		set(cx+x, cy+y)
		set(cx+y, cy+x)
		set(cx-y, cy+x)
		set(cx-x, cy+y)
		set(cx-x, cy-y)
		set(cx-y, cy-x)
		set(cx+y, cy-x)
		set(cx+x, cy-y)

		if err <= 0 {
			y++
			err += 2*y + 1
		}
		if err > 0 {
			x--
			err -= 2*x + 1
		}
	}
}

// DrawRect draws a 1-pixel rectangle outline, clipped to the image bounds.
func DrawRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		if image.Pt(x, r.Min.Y).In(img.Bounds()) {
			img.SetRGBA(x, r.Min.Y, col)
		}
		if image.Pt(x, r.Max.Y-1).In(img.Bounds()) {
			img.SetRGBA(x, r.Max.Y-1, col)
		}
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		if image.Pt(r.Min.X, y).In(img.Bounds()) {
			img.SetRGBA(r.Min.X, y, col)
		}
		if image.Pt(r.Max.X-1, y).In(img.Bounds()) {
			img.SetRGBA(r.Max.X-1, y, col)
		}
	}
}

// DrawLabel renders text at (x, y) using the fixed 7x13 basicfont face.
// The y coordinate is the text baseline.
func DrawLabel(img *image.RGBA, x, y int, text string, col color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
