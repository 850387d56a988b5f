// Package detection implements the actor glyph detection pipeline for
// diagram images.
//
// An actor glyph is the stick-figure symbol used in UML use-case notation:
// a circular head outline, a vertical torso line, and a horizontal arm line.
// The pipeline locates these glyphs in a diagram and reads the caption text
// printed beneath each one.
//
// # Pipeline
//
// Detection runs as a synchronous, single-threaded sequence over one image:
//
//  1. Binarization: the diagram becomes a polarity-normalized ink mask
//     (see the imaging package).
//  2. Template matching: synthetic stick-figure templates at five scales are
//     correlated against the mask; responses above the match threshold become
//     candidate center points, greedily suppressed within a minimum gap.
//  3. Head verification: a bounded region directly above each candidate is
//     searched for a circular arc with a Hough transform. Candidates without
//     a plausible head are rejected; this step, not the matcher, is the
//     correctness gate.
//  4. Caption extraction: a fixed region below each confirmed candidate is
//     cropped from the color image and handed to the external text reader.
//  5. Aggregation: near-duplicate confirmations are merged and the survivors
//     receive 1-based sequence ids.
//
// # Coordinate System
//
// All coordinates use the standard image convention: origin at top-left,
// X rightward, Y downward. Candidate points are glyph body-centers in
// absolute image coordinates.
//
// # Tuned Constants
//
// The correlation threshold, ROI geometry, and merge radii are empirically
// tuned values carried in config.Detection. They have no analytic
// derivation; changing them changes detection behavior materially.
//
// # Limitations
//
// The matcher assumes upright, unrotated glyphs in high-contrast line art.
// Near-uniform textured masks can produce many low-quality candidates; head
// verification filters them at the cost of extra work, not correctness.
package detection
