package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/otiai10/gosseract/v2"
)

// Span is one recognized run of text within a read region.
type Span struct {
	// Text is the recognized content of the span.
	Text string `json:"text"`

	// Confidence is the recognizer's confidence (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the span's bounding box in the coordinates of the region
	// that was read.
	Bounds image.Rectangle `json:"bounds"`
}

// Reader performs OCR on image regions using Tesseract.
//
// A Reader is cheap to construct; each read creates and closes its own
// gosseract client because the client is not safe for reuse across images.
type Reader struct {
	languages []string
	tempDir   string
}

// NewReader creates a Reader with the given Tesseract language codes
// (e.g., "eng", "spa"). An empty list defaults to English. Temporary crop
// files are written to tempDir, or the system temp directory if empty.
func NewReader(languages []string, tempDir string) *Reader {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Reader{languages: languages, tempDir: tempDir}
}

// ReadRegion recognizes text within a rectangular region of an image.
//
// The region is cropped, written to a uniquely named temporary PNG (Tesseract
// needs a file path), and recognized at word granularity. Spans are returned
// in recognition order with bounds relative to the region. The temporary file
// is removed on every path.
//
// Returns:
//   - []Span: Recognized words, possibly empty. Empty words are dropped.
//   - error: Non-nil if cropping, encoding, or recognition fails. Callers in
//     the detection pipeline absorb this into an empty caption.
func (r *Reader) ReadRegion(img image.Image, region image.Rectangle) ([]Span, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return nil, nil
	}

	cropped := imaging.Crop(img, region)

	tmpPath := filepath.Join(r.tempDir, fmt.Sprintf("caption-%s.png", uuid.NewString()))
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpPath)

	if err := png.Encode(f, cropped); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to encode temp image: %w", err)
	}
	f.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages: %w", err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	spans := make([]Span, 0, len(boxes))
	for _, box := range boxes {
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		spans = append(spans, Span{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     box.Box,
		})
	}
	return spans, nil
}

// JoinSpans concatenates span texts with single spaces and trims surrounding
// whitespace, producing a caption string.
func JoinSpans(spans []Span) string {
	parts := make([]string, 0, len(spans))
	for _, s := range spans {
		parts = append(parts, s.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
