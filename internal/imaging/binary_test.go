package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestBinarize_DarkOnLight(t *testing.T) {
	img := createTestImage(50, 50, color.White)
	for x := 10; x < 40; x++ {
		img.Set(x, 25, color.Black)
	}

	mask := Binarize(img, 50)

	// Ink must be normalized to the high value.
	if got := mask.GrayAt(20, 25).Y; got != 255 {
		t.Errorf("stroke pixel = %d, want 255", got)
	}
	if got := mask.GrayAt(20, 10).Y; got != 0 {
		t.Errorf("background pixel = %d, want 0", got)
	}
}

func TestBinarize_LightOnDark(t *testing.T) {
	img := createTestImage(50, 50, color.Black)
	for x := 10; x < 40; x++ {
		img.Set(x, 25, color.White)
	}

	mask := Binarize(img, 50)

	if got := mask.GrayAt(20, 25).Y; got != 255 {
		t.Errorf("stroke pixel = %d, want 255 (polarity not normalized)", got)
	}
	if got := mask.GrayAt(20, 10).Y; got != 0 {
		t.Errorf("background pixel = %d, want 0", got)
	}
}

func TestBinarize_Idempotent(t *testing.T) {
	img := createTestImage(60, 60, color.White)
	for x := 5; x < 55; x++ {
		img.Set(x, 30, color.Black)
		img.Set(30, x, color.Black)
	}

	mask := Binarize(img, 50)
	again := Binarize(mask, 50)

	if !bytes.Equal(mask.Pix, again.Pix) {
		t.Error("re-binarizing a binary mask changed it")
	}
}

func TestBinarize_DegenerateInputs(t *testing.T) {
	// All white inverts to all black, thresholds to an empty mask.
	white := Binarize(createTestImage(20, 20, color.White), 50)
	for i, v := range white.Pix {
		if v != 0 {
			t.Fatalf("all-white input produced ink at pix[%d]", i)
		}
	}

	// All black stays all black, also an empty mask. Neither is an error.
	black := Binarize(createTestImage(20, 20, color.Black), 50)
	for i, v := range black.Pix {
		if v != 0 {
			t.Fatalf("all-black input produced ink at pix[%d]", i)
		}
	}
}

func TestBinarize_OnlyBinaryValues(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			img.Set(x, y, color.Gray{Y: uint8((x * y) % 256)})
		}
	}

	mask := Binarize(img, 50)
	for i, v := range mask.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pix[%d] = %d, want 0 or 255", i, v)
		}
	}
}

func TestClip(t *testing.T) {
	img := createTestImage(100, 100, color.White)

	clipped := Clip(img, image.Rect(-20, -10, 50, 40))
	if clipped != image.Rect(0, 0, 50, 40) {
		t.Errorf("Clip = %v, want (0,0)-(50,40)", clipped)
	}

	// Fully outside bounds clips to an empty rectangle.
	empty := Clip(img, image.Rect(200, 200, 250, 250))
	if !empty.Empty() {
		t.Errorf("expected empty clip, got %v", empty)
	}
}
