package detection

import (
	"image"
	"image/color"
)

const templateInk = 255

// Template is a synthetic stick-figure mask used as one scale hypothesis for
// the candidate matcher. The mask is square with ink pixels at 255 on a zero
// background, matching the polarity of binarized diagrams.
type Template struct {
	// Size is the square side length in pixels.
	Size int

	// Mask holds the rendered glyph.
	Mask *image.Gray
}

// NewTemplate renders a stick-figure template of the given size:
//
//   - a circular head outline of radius size/6, centered horizontally with
//     its top touching the template's top edge;
//   - a vertical torso line from the head's bottom down to 2/3 of the height;
//   - a horizontal arm line slightly below the head, spanning size/3 to each
//     side of center.
//
// Generation is pure: a template depends only on its size and carries no
// learned parameters.
func NewTemplate(size int) Template {
	mask := image.NewGray(image.Rect(0, 0, size, size))
	cx := size / 2
	headR := size / 6

	drawCircleGray(mask, cx, headR, headR)

	// torso
	for y := headR * 2; y <= size*2/3; y++ {
		setInk(mask, cx, y)
	}

	// arms
	armLen := size / 3
	armY := headR*2 + size/10
	for x := cx - armLen; x <= cx+armLen; x++ {
		setInk(mask, x, armY)
	}

	return Template{Size: size, Mask: mask}
}

// NewBank renders one template per requested size, in the given order. The
// matcher depends on that order for its greedy suppression pass.
func NewBank(sizes []int) []Template {
	bank := make([]Template, 0, len(sizes))
	for _, size := range sizes {
		bank = append(bank, NewTemplate(size))
	}
	return bank
}

func setInk(mask *image.Gray, x, y int) {
	if image.Pt(x, y).In(mask.Bounds()) {
		mask.SetGray(x, y, color.Gray{Y: templateInk})
	}
}

// drawCircleGray draws a 1-pixel circle outline using the midpoint algorithm.
func drawCircleGray(mask *image.Gray, cx, cy, radius int) {
	x := radius
	y := 0
	err := 0
	for x >= y {
		setInk(mask, cx+x, cy+y)
		setInk(mask, cx+y, cy+x)
		setInk(mask, cx-y, cy+x)
		setInk(mask, cx-x, cy+y)
		setInk(mask, cx-x, cy-y)
		setInk(mask, cx-y, cy-x)
		setInk(mask, cx+y, cy-x)
		setInk(mask, cx+x, cy-y)

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
