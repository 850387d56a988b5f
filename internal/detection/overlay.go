package detection

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/smarttask/actor-detect/internal/imaging"
)

// markerRadius is the circle drawn around each candidate on the overlay.
const markerRadius = 20

// Overlay palette. Annotation colors match the original tooling this
// detector's output is compared against.
var (
	colMarker     = imaging.ParseHex("#00FF00")
	colHeadROI    = imaging.ParseHex("#0000FF")
	colHead       = imaging.ParseHex("#FFFF00")
	colNoHead     = imaging.ParseHex("#FF0000")
	colCaptionROI = imaging.ParseHex("#FF8000")
)

// RenderOverlay re-renders the diagram in grayscale and annotates every raw
// candidate on top of it: a marker circle with its sequence label, the
// head-search ROI rectangle, the detected head circle (or a "NO HEAD"
// label), and the caption ROI with the recognized text beneath it.
//
// The overlay is pure data; nothing is written to disk here.
func RenderOverlay(img image.Image, debug []CandidateDebug) *image.RGBA {
	gray := imaging.ToGray(img)
	out := image.NewRGBA(gray.Bounds())
	draw.Draw(out, out.Bounds(), gray, gray.Bounds().Min, draw.Src)

	for i, info := range debug {
		x, y := info.Position.X, info.Position.Y

		imaging.DrawCircle(out, x, y, markerRadius, colMarker)
		imaging.DrawLabel(out, x-15, y-25, fmt.Sprintf("A%d", i+1), colMarker)

		imaging.DrawRect(out, info.HeadROI, colHeadROI)

		if info.Head != nil {
			imaging.DrawCircle(out, info.Head.X, info.Head.Y, info.Head.Radius, colHead)
			imaging.DrawLabel(out, info.Head.X-10, info.Head.Y-info.Head.Radius-5, "HEAD", colHead)
		} else {
			imaging.DrawLabel(out, info.HeadROI.Min.X, info.HeadROI.Min.Y-5, "NO HEAD", colNoHead)
		}

		if info.Confirmed && info.Caption != "" && !info.CaptionROI.Empty() {
			imaging.DrawRect(out, info.CaptionROI, colCaptionROI)
			imaging.DrawLabel(out, info.CaptionROI.Min.X, info.CaptionROI.Max.Y+15, info.Caption, colCaptionROI)
		}
	}
	return out
}
