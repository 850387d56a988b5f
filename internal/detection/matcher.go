package detection

import (
	"image"
	"math"
)

// Candidate is a presumed actor body-center proposed by template matching.
// Candidates are transient: they exist only during one detection pass and
// are either confirmed by head verification or discarded.
type Candidate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Candidate) dist(o Candidate) float64 {
	dx := float64(c.X - o.X)
	dy := float64(c.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// MatchActors correlates every template in the bank against a binary ink
// mask and returns candidate actor centers.
//
// For each template, normalized cross-correlation (zero-mean, variance
// normalized) is evaluated at every placement; placements scoring at least
// threshold are converted to glyph centers by offsetting half the template
// size. Centers are absolute image coordinates, so masks derived via
// SubImage match correctly. Candidates are accumulated greedily in bank
// order, then raster
// order: a new center is kept only if it lies farther than minGap pixels
// from every center already accepted. There is no score-based tie-break;
// first wins.
//
// An empty mask yields no candidates, which is not an error. The matcher
// stays permissive; head verification downstream is the correctness gate.
func MatchActors(mask *image.Gray, bank []Template, threshold, minGap float64) []Candidate {
	bounds := mask.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	pre := newMaskIntegral(mask)

	var candidates []Candidate
	for _, tmpl := range bank {
		size := tmpl.Size
		if size > width || size > height {
			continue
		}

		ink := inkOffsets(tmpl.Mask)
		n := float64(size * size)
		// Template pixels are 0 or 255, so its sums follow from the ink count.
		sumT := float64(len(ink)) * 255
		sumT2 := float64(len(ink)) * 255 * 255
		meanT := sumT / n
		varT := (sumT2 - sumT*sumT/n) / n
		if varT <= 0 {
			continue
		}
		stdT := math.Sqrt(varT)

		for y := 0; y+size <= height; y++ {
			for x := 0; x+size <= width; x++ {
				sumF := pre.sum(x, y, x+size-1, y+size-1)
				sumF2 := pre.sumSq(x, y, x+size-1, y+size-1)
				meanF := sumF / n
				varF := (sumF2 - sumF*sumF/n) / n
				if varF <= 1e-9 {
					continue
				}

				// Σ F·T reduces to 255 · Σ F over the template's ink pixels.
				base := mask.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				var sumOnInk float64
				for _, off := range ink {
					sumOnInk += float64(mask.Pix[base+off.Y*mask.Stride+off.X])
				}
				numer := 255*sumOnInk - n*meanF*meanT
				denom := n * math.Sqrt(varF) * stdT
				if denom <= 0 {
					continue
				}
				if numer/denom < threshold {
					continue
				}

				center := Candidate{
					X: bounds.Min.X + x + size/2,
					Y: bounds.Min.Y + y + size/2,
				}
				if farFromAll(center, candidates, minGap) {
					candidates = append(candidates, center)
				}
			}
		}
	}
	return candidates
}

func farFromAll(c Candidate, accepted []Candidate, minGap float64) bool {
	for _, a := range accepted {
		if c.dist(a) <= minGap {
			return false
		}
	}
	return true
}

// inkOffsets collects the coordinates of a template's ink pixels. Templates
// are sparse (a few hundred stroke pixels), so iterating only ink makes the
// per-window dot product cheap.
func inkOffsets(mask *image.Gray) []image.Point {
	bounds := mask.Bounds()
	var pts []image.Point
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y > 0 {
				pts = append(pts, image.Pt(x-bounds.Min.X, y-bounds.Min.Y))
			}
		}
	}
	return pts
}

// maskIntegral holds summed-area tables over a mask to allow O(1) window
// mean and variance queries during correlation.
type maskIntegral struct {
	sums   []float64
	sqSums []float64
	width  int
}

func newMaskIntegral(mask *image.Gray) *maskIntegral {
	bounds := mask.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := &maskIntegral{
		sums:   make([]float64, w*h),
		sqSums: make([]float64, w*h),
		width:  w,
	}
	for y := 0; y < h; y++ {
		rowBase := mask.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		var rowSum, rowSq float64
		for x := 0; x < w; x++ {
			v := float64(mask.Pix[rowBase+x])
			rowSum += v
			rowSq += v * v
			off := y*w + x
			if y == 0 {
				m.sums[off] = rowSum
				m.sqSums[off] = rowSq
			} else {
				m.sums[off] = m.sums[off-w] + rowSum
				m.sqSums[off] = m.sqSums[off-w] + rowSq
			}
		}
	}
	return m
}

// sum returns the pixel sum over the inclusive rectangle [x0,x1]x[y0,y1].
func (m *maskIntegral) sum(x0, y0, x1, y1 int) float64 {
	return m.rect(m.sums, x0, y0, x1, y1)
}

func (m *maskIntegral) sumSq(x0, y0, x1, y1 int) float64 {
	return m.rect(m.sqSums, x0, y0, x1, y1)
}

func (m *maskIntegral) rect(table []float64, x0, y0, x1, y1 int) float64 {
	at := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return table[y*m.width+x]
	}
	return at(x1, y1) - at(x0-1, y1) - at(x1, y0-1) + at(x0-1, y0-1)
}
