// Package config holds the tuned detection parameters and service settings.
//
// Every geometric constant used by the detection pipeline (correlation
// threshold, ROI sizes, merge radii) is an empirically tuned value. Changing
// any of them changes detection behavior materially, so they are exposed here
// as named, overridable configuration rather than buried in the algorithms.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Detection groups the parameters of the actor detection pipeline.
type Detection struct {
	// BinarizeThreshold is the fixed global threshold applied after polarity
	// normalization (0-255). Diagrams are assumed to be high-contrast line
	// art, so no adaptive thresholding is performed.
	BinarizeThreshold uint8 `yaml:"binarize_threshold"`

	// TemplateSizes are the side lengths of the synthetic stick-figure
	// templates, in pixels. Each size is one scale hypothesis.
	TemplateSizes []int `yaml:"template_sizes"`

	// MatchThreshold is the minimum normalized cross-correlation score for a
	// template response to become a candidate.
	MatchThreshold float64 `yaml:"match_threshold"`

	// MinCandidateGap is the minimum distance in pixels between accepted
	// candidates (greedy non-maximum suppression).
	MinCandidateGap float64 `yaml:"min_candidate_gap"`

	// MergeRadius is the near-duplicate radius in pixels: confirmed
	// candidates closer than this are treated as the same physical actor.
	MergeRadius float64 `yaml:"merge_radius"`

	Head    Head    `yaml:"head"`
	Caption Caption `yaml:"caption"`
}

// Head parameterizes the head-verification search above each candidate.
type Head struct {
	// SearchHeight is how far above the candidate the ROI extends, in pixels.
	SearchHeight int `yaml:"search_height"`

	// SearchWidth is the ROI width, centered on the candidate.
	SearchWidth int `yaml:"search_width"`

	// MinRadius and MaxRadius bound the Hough radius search.
	MinRadius int `yaml:"min_radius"`
	MaxRadius int `yaml:"max_radius"`

	// MinSeparation is the minimum distance between detected circle centers.
	MinSeparation float64 `yaml:"min_separation"`

	// MaxOffsetX is the maximum horizontal distance between a head circle
	// center and the candidate for the circle to count as that actor's head.
	MaxOffsetX int `yaml:"max_offset_x"`

	// VoteFraction is the fraction of a circle's diameter that must receive
	// accumulator votes for a detection. Lower than the usual 0.6 because
	// actor heads in sparse line art are thin single-pixel arcs.
	VoteFraction float64 `yaml:"vote_fraction"`
}

// Caption parameterizes the caption crop below each confirmed candidate.
type Caption struct {
	// Gap is the vertical distance in pixels between the candidate and the
	// top of the caption ROI.
	Gap int `yaml:"gap"`

	// Height is the vertical distance from the candidate to the bottom of
	// the ROI, so the ROI spans Gap..Height below the candidate. Width is
	// the ROI width, centered on the candidate. Both are clipped to the
	// image.
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

// OCR configures the external text-recognition capability.
type OCR struct {
	// Languages are Tesseract language codes tried on caption crops.
	Languages []string `yaml:"languages"`
}

// Server configures the HTTP service wrapper.
type Server struct {
	Addr string `yaml:"addr"`

	// TempDir receives uploaded files and OCR crops. Files are uniquely
	// named per invocation and removed when the request finishes.
	TempDir string `yaml:"temp_dir"`

	// MaxUploadBytes caps the accepted multipart body size.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// Config is the full application configuration. It is built once at startup
// and passed read-only into every pipeline stage.
type Config struct {
	Detection Detection `yaml:"detection"`
	OCR       OCR       `yaml:"ocr"`
	Server    Server    `yaml:"server"`
}

// Default returns the tuned baseline configuration. The detection values are
// empirical: treat changes as policy changes, not bug fixes.
func Default() Config {
	return Config{
		Detection: Detection{
			BinarizeThreshold: 50,
			TemplateSizes:     []int{40, 50, 60, 70, 80},
			MatchThreshold:    0.41,
			MinCandidateGap:   15,
			MergeRadius:       25,
			Head: Head{
				SearchHeight:  35,
				SearchWidth:   50,
				MinRadius:     4,
				MaxRadius:     12,
				MinSeparation: 20,
				MaxOffsetX:    25,
				VoteFraction:  0.45,
			},
			Caption: Caption{
				Gap:    10,
				Height: 80,
				Width:  160,
			},
		},
		OCR: OCR{
			Languages: []string{"eng", "spa"},
		},
		Server: Server{
			Addr:           ":8000",
			TempDir:        os.TempDir(),
			MaxUploadBytes: 32 << 20,
		},
	}
}

// Load reads a YAML config file and overlays it on the defaults. A missing
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	d := c.Detection
	if d.MatchThreshold <= 0 || d.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in (0,1], got %v", d.MatchThreshold)
	}
	if len(d.TemplateSizes) == 0 {
		return fmt.Errorf("template_sizes must not be empty")
	}
	for _, s := range d.TemplateSizes {
		if s < 12 {
			return fmt.Errorf("template size %d too small", s)
		}
	}
	if d.Head.MinRadius <= 0 || d.Head.MaxRadius < d.Head.MinRadius {
		return fmt.Errorf("invalid head radius range [%d,%d]", d.Head.MinRadius, d.Head.MaxRadius)
	}
	return nil
}
