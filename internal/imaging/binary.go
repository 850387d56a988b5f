package imaging

import (
	"image"
	"image/color"
)

// polarityMidpoint decides whether a grayscale image is dark-on-light or
// light-on-dark: a mean intensity above it means a light background.
const polarityMidpoint = 127

// Binarize converts an image to a polarity-normalized binary ink mask.
//
// The image is reduced to single-channel intensity, inverted if its mean
// intensity exceeds 127 (so foreground strokes end up bright for both
// dark-on-light and light-on-dark diagrams), then thresholded: pixels above
// threshold become 255, everything else 0.
//
// Parameters:
//   - img: Source image, color or grayscale.
//   - threshold: Fixed global binarization threshold (0-255). Diagrams are
//     assumed to be high-contrast line art; no adaptive thresholding is done.
//
// Returns an *image.Gray of the same dimensions whose pixels are exactly
// 0 or 255, with ink always 255. A degenerate all-white or all-black input
// yields an empty or full mask silently; that is not an error.
//
// Binarize is idempotent: re-binarizing a mask it produced returns an
// identical mask, because sparse ink keeps the mean below the midpoint.
func Binarize(img image.Image, threshold uint8) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := image.NewGray(image.Rect(0, 0, width, height))
	var sum uint64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := grayValue(img, x+bounds.Min.X, y+bounds.Min.Y)
			gray.SetGray(x, y, color.Gray{Y: v})
			sum += uint64(v)
		}
	}

	if width*height > 0 {
		mean := sum / uint64(width*height)
		if mean > polarityMidpoint {
			for i, v := range gray.Pix {
				gray.Pix[i] = 255 - v
			}
		}
	}

	for i, v := range gray.Pix {
		if v > threshold {
			gray.Pix[i] = 255
		} else {
			gray.Pix[i] = 0
		}
	}
	return gray
}

// grayValue converts a pixel to grayscale using ITU-R BT.601 luminance weights.
// Formula: Y = 0.299*R + 0.587*G + 0.114*B
func grayValue(img image.Image, x, y int) uint8 {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114)
}

// ToGray re-renders an image as single-channel grayscale. Used by the debug
// overlay, which draws colored annotations over a grayscale base.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x-bounds.Min.X, y-bounds.Min.Y, color.Gray{Y: grayValue(img, x, y)})
		}
	}
	return out
}

// Clip intersects a region with an image's bounds. The returned rectangle may
// be empty; callers treat an empty ROI as "not found", never as an error.
func Clip(img image.Image, r image.Rectangle) image.Rectangle {
	return r.Intersect(img.Bounds())
}
