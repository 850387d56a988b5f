package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Load reads and decodes a diagram image from disk.
//
// Transparency is flattened onto a white background before the image is
// returned: draw.io and similar tools export diagrams as transparent PNGs,
// and detection assumes ink on an opaque background. Per pixel, each channel
// becomes (1-α)·255 + α·src.
//
// Parameters:
//   - path: Path to the image file. Supported formats are PNG, JPEG, GIF,
//     BMP, TIFF, and WebP.
//
// Returns:
//   - image.Image: The decoded, alpha-flattened image. Always fully opaque.
//   - error: Non-nil if the file cannot be opened or decoded. Load errors are
//     fatal to a detection run; there is no partial result.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FlattenAlpha(img), nil
}

// FlattenAlpha composites an image onto a white background, removing any
// transparency. Fully opaque images are converted to *image.RGBA unchanged.
func FlattenAlpha(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a == 0xffff {
				out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
					R: uint8(r >> 8),
					G: uint8(g >> 8),
					B: uint8(b >> 8),
					A: 255,
				})
				continue
			}

			// RGBA() returns premultiplied components, so src·α is already
			// folded in; only the white contribution needs adding.
			alpha := float64(a) / 0xffff
			out.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{
				R: flattenChannel(r, alpha),
				G: flattenChannel(g, alpha),
				B: flattenChannel(b, alpha),
				A: 255,
			})
		}
	}
	return out
}

func flattenChannel(premul uint32, alpha float64) uint8 {
	v := (1-alpha)*255 + float64(premul>>8)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
