package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	if got := ParseHex("#00FF00"); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("ParseHex(#00FF00) = %v", got)
	}
	// Invalid strings fall back to opaque black instead of failing.
	if got := ParseHex("not-a-color"); got != (color.RGBA{A: 255}) {
		t.Errorf("ParseHex(invalid) = %v, want opaque black", got)
	}
}

func TestDrawRect_Clipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{R: 255, A: 255}

	// Partially outside the image; must not panic.
	DrawRect(img, image.Rect(-5, -5, 10, 10), red)

	if img.RGBAAt(9, 0) != red {
		t.Error("top edge not drawn inside bounds")
	}
	if img.RGBAAt(9, 9) != red {
		t.Error("bottom edge not drawn")
	}
}

func TestDrawCircle(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	green := color.RGBA{G: 255, A: 255}

	DrawCircle(img, 20, 20, 10, green)

	// Cardinal points of the outline.
	for _, p := range []image.Point{{30, 20}, {10, 20}, {20, 30}, {20, 10}} {
		if img.RGBAAt(p.X, p.Y) != green {
			t.Errorf("outline pixel %v not set", p)
		}
	}
	if img.RGBAAt(20, 20) == green {
		t.Error("center should not be filled")
	}

	// Circle spilling over the border must not panic.
	DrawCircle(img, 0, 0, 10, green)
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 30))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	DrawLabel(img, 5, 20, "A1", white)

	found := false
	for y := 0; y < 30 && !found; y++ {
		for x := 0; x < 100 && !found; x++ {
			if img.RGBAAt(x, y) == white {
				found = true
			}
		}
	}
	if !found {
		t.Error("label drew no pixels")
	}
}
