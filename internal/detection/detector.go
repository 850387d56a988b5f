package detection

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/smarttask/actor-detect/internal/config"
	"github.com/smarttask/actor-detect/internal/imaging"
	"github.com/smarttask/actor-detect/internal/ocr"
)

// TextReader is the external text-recognition capability consumed by the
// caption extractor. Implementations return recognized spans in reading
// order; only the text field is used to assemble captions.
type TextReader interface {
	ReadRegion(img image.Image, region image.Rectangle) ([]ocr.Span, error)
}

// CandidateDebug records everything the pipeline learned about one raw
// candidate, for overlay rendering and diagnostics.
type CandidateDebug struct {
	Position   Candidate       `json:"position"`
	HeadROI    image.Rectangle `json:"head_roi"`
	Head       *HeadCircle     `json:"head,omitempty"`
	Confirmed  bool            `json:"confirmed"`
	CaptionROI image.Rectangle `json:"caption_roi"`
	Caption    string          `json:"caption"`
}

// Result is the fully materialized outcome of one detection run. It is
// never nil on success: zero detections yield empty slices and zero counts,
// a legitimate terminal result rather than an error.
type Result struct {
	// Count is the number of actors surviving duplicate merging.
	Count int `json:"count"`

	// Positions are the merged actors' body-centers.
	Positions []Candidate `json:"positions"`

	// Records are the merged actors with 1-based ids and captions. Use
	// FilterAndRenumber for the report view without empty captions.
	Records []ActorRecord `json:"records"`

	// Candidates is the raw template-match count before verification.
	Candidates int `json:"candidates"`

	// Debug holds per-candidate diagnostics in detection order.
	Debug []CandidateDebug `json:"debug,omitempty"`

	// Overlay is the annotated debug rendering of the run. Returned as data;
	// callers decide whether to encode or persist it.
	Overlay *image.RGBA `json:"-"`
}

// Detector runs the actor detection pipeline. Its configuration is fixed at
// construction; a Detector is stateless across runs and safe for sequential
// reuse.
type Detector struct {
	cfg    config.Detection
	reader TextReader
	log    *zap.Logger
}

// New creates a Detector with the given tuned parameters and external text
// reader. Pass zap.NewNop() when logging is not wanted.
func New(cfg config.Detection, reader TextReader, log *zap.Logger) *Detector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Detector{cfg: cfg, reader: reader, log: log}
}

// Detect locates actor glyphs in one diagram image.
//
// The image must already be loaded and alpha-flattened (see imaging.Load).
// The pipeline binarizes it, proposes candidates by multi-scale template
// matching, verifies a head circle above each, reads the caption beneath
// each confirmed candidate, and merges near-duplicates into the final list.
//
// Text-recognition failures degrade to empty captions for the affected
// actors and never abort the run. The only error returned is a nil image.
func (d *Detector) Detect(img image.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}

	mask := imaging.Binarize(img, d.cfg.BinarizeThreshold)
	bank := NewBank(d.cfg.TemplateSizes)
	candidates := MatchActors(mask, bank, d.cfg.MatchThreshold, d.cfg.MinCandidateGap)
	d.log.Debug("template matching done", zap.Int("candidates", len(candidates)))

	confirmed := make([]ActorRecord, 0, len(candidates))
	debug := make([]CandidateDebug, 0, len(candidates))

	for i, cand := range candidates {
		ok, head, headROI := VerifyHead(mask, cand, d.cfg.Head)
		info := CandidateDebug{
			Position:  cand,
			HeadROI:   headROI,
			Head:      head,
			Confirmed: ok,
		}

		if ok {
			caption, captionROI := d.extractCaption(img, cand, i+1)
			info.Caption = caption
			info.CaptionROI = captionROI
			confirmed = append(confirmed, ActorRecord{X: cand.X, Y: cand.Y, Caption: caption})
		} else {
			d.log.Debug("candidate rejected, no head",
				zap.Int("candidate", i+1), zap.Int("x", cand.X), zap.Int("y", cand.Y))
		}
		debug = append(debug, info)
	}

	records := Merge(confirmed, d.cfg.MergeRadius)

	positions := make([]Candidate, 0, len(records))
	for _, r := range records {
		positions = append(positions, Candidate{X: r.X, Y: r.Y})
	}
	d.log.Info("detection finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("confirmed", len(confirmed)),
		zap.Int("final", len(records)))

	return &Result{
		Count:      len(records),
		Positions:  positions,
		Records:    records,
		Candidates: len(candidates),
		Debug:      debug,
		Overlay:    RenderOverlay(img, debug),
	}, nil
}

// extractCaption crops the fixed caption ROI below a confirmed candidate and
// delegates to the external text reader. Caption presence never gates
// whether the candidate counts as an actor; that decision belongs to head
// verification.
func (d *Detector) extractCaption(img image.Image, cand Candidate, seq int) (string, image.Rectangle) {
	c := d.cfg.Caption
	roi := imaging.Clip(img, image.Rect(
		cand.X-c.Width/2,
		cand.Y+c.Gap,
		cand.X+c.Width/2,
		cand.Y+c.Height,
	))
	if roi.Empty() {
		return "", roi
	}

	spans, err := d.reader.ReadRegion(img, roi)
	if err != nil {
		d.log.Warn("caption recognition failed",
			zap.Int("candidate", seq), zap.Error(err))
		return "", roi
	}
	return ocr.JoinSpans(spans), roi
}
