package detection

import (
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"

	"github.com/smarttask/actor-detect/internal/config"
	"github.com/smarttask/actor-detect/internal/imaging"
)

// headBlurRadius smooths jagged single-pixel strokes before Hough voting.
const headBlurRadius = 1.5

// headInkThreshold marks a blurred ROI pixel as stroke ink. Set well below
// 128 because Gaussian blur dilutes thin arcs.
const headInkThreshold = 40

// voteStepDegrees is the angular step between Hough votes per ink pixel.
const voteStepDegrees = 10

// HeadCircle is a verified head arc in absolute image coordinates.
type HeadCircle struct {
	X      int `json:"cx"`
	Y      int `json:"cy"`
	Radius int `json:"radius"`

	// Votes is the raw accumulator support for this center and radius.
	// Circles are ranked by Votes, never by the normalized Confidence:
	// blur thickens a stroke into an annulus, and inside it a small-radius
	// hypothesis reaches a high vote-to-circumference ratio on little
	// actual support.
	Votes int `json:"votes"`

	// Confidence is Votes over the expected circumference (2·radius). It
	// can exceed 1.0 on thick strokes; it is reported for diagnostics, not
	// used for ranking.
	Confidence float64 `json:"confidence"`
}

// VerifyHead checks whether a circular head arc sits above a candidate.
//
// A bounded ROI directly above and horizontally centered on the candidate
// (cfg.SearchHeight tall, cfg.SearchWidth wide, clipped to the mask) is
// blurred and searched with a circular Hough transform over the configured
// radius range. Detected circles are post-filtered to those strictly above
// the candidate (cy < y) and within cfg.MaxOffsetX horizontally; among the
// survivors the circle whose center is horizontally closest to the candidate
// wins, first found on equal distance.
//
// Returns the confirmation flag, the chosen circle (nil when unconfirmed),
// and the ROI actually searched, which the debug overlay renders. An ROI
// clipped to zero area at an image border returns unconfirmed without error.
func VerifyHead(mask *image.Gray, cand Candidate, cfg config.Head) (bool, *HeadCircle, image.Rectangle) {
	roi := imaging.Clip(mask, image.Rect(
		cand.X-cfg.SearchWidth/2,
		cand.Y-cfg.SearchHeight,
		cand.X+cfg.SearchWidth/2,
		cand.Y,
	))
	if roi.Empty() {
		return false, nil, roi
	}

	circles := houghCircles(mask, roi, cfg)

	best := -1
	for i, c := range circles {
		if c.Y >= cand.Y {
			continue
		}
		if abs(c.X-cand.X) >= cfg.MaxOffsetX {
			continue
		}
		if best < 0 || abs(c.X-cand.X) < abs(circles[best].X-cand.X) {
			best = i
		}
	}
	if best < 0 {
		return false, nil, roi
	}
	chosen := circles[best]
	return true, &chosen, roi
}

// houghCircles runs an accumulator-based circular Hough transform over one
// ROI of the ink mask and returns circle centers in absolute coordinates.
//
// Each blurred ink pixel votes for potential centers every 10° at each
// radius in the configured range. Accumulator cells that reach
// cfg.VoteFraction of the circle's diameter in votes and are local maxima
// within an 11x11 window become detections; after ranking by vote support,
// centers closer than cfg.MinSeparation to a better-voted detection are
// dropped.
func houghCircles(mask *image.Gray, roi image.Rectangle, cfg config.Head) []HeadCircle {
	w := roi.Dx()
	h := roi.Dy()

	blurred := blur.Gaussian(mask.SubImage(roi), headBlurRadius)
	ink := make([]image.Point, 0, w*h/4)
	bb := blurred.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if blurred.RGBAAt(bb.Min.X+x, bb.Min.Y+y).R >= headInkThreshold {
				ink = append(ink, image.Pt(x, y))
			}
		}
	}
	if len(ink) == 0 {
		return nil
	}

	var circles []HeadCircle
	for radius := cfg.MinRadius; radius <= cfg.MaxRadius; radius++ {
		if 2*radius >= w || 2*radius >= h {
			continue
		}

		accumulator := make([][]int, h)
		for y := range accumulator {
			accumulator[y] = make([]int, w)
		}
		for _, p := range ink {
			for angle := 0; angle < 360; angle += voteStepDegrees {
				rad := float64(angle) * math.Pi / 180
				cx := p.X - int(float64(radius)*math.Cos(rad))
				cy := p.Y - int(float64(radius)*math.Sin(rad))
				if cx >= 0 && cx < w && cy >= 0 && cy < h {
					accumulator[cy][cx]++
				}
			}
		}

		minVotes := int(float64(2*radius) * cfg.VoteFraction)
		if minVotes < 3 {
			minVotes = 3
		}
		for y := radius; y < h-radius; y++ {
			for x := radius; x < w-radius; x++ {
				if accumulator[y][x] < minVotes {
					continue
				}
				if !isLocalMax(accumulator, x, y, w, h) {
					continue
				}
				circles = append(circles, HeadCircle{
					X:          roi.Min.X + x,
					Y:          roi.Min.Y + y,
					Radius:     radius,
					Votes:      accumulator[y][x],
					Confidence: float64(accumulator[y][x]) / float64(2*radius),
				})
			}
		}
	}

	// Most-voted arcs first, so duplicate filtering keeps the best-supported
	// center rather than whichever radius was scanned earlier.
	sort.SliceStable(circles, func(i, j int) bool {
		return circles[i].Votes > circles[j].Votes
	})

	return filterCloseCircles(circles, cfg.MinSeparation)
}

func isLocalMax(accumulator [][]int, x, y, w, h int) bool {
	for dy := -5; dy <= 5; dy++ {
		for dx := -5; dx <= 5; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < w && ny >= 0 && ny < h {
				if accumulator[ny][nx] > accumulator[y][x] {
					return false
				}
			}
		}
	}
	return true
}

// filterCloseCircles drops circles whose centers lie within minSeparation of
// an earlier (better-voted) detection.
func filterCloseCircles(circles []HeadCircle, minSeparation float64) []HeadCircle {
	filtered := make([]HeadCircle, 0, len(circles))
	for _, c := range circles {
		tooClose := false
		for _, f := range filtered {
			dx := float64(c.X - f.X)
			dy := float64(c.Y - f.Y)
			if math.Sqrt(dx*dx+dy*dy) < minSeparation {
				tooClose = true
				break
			}
		}
		if !tooClose {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
