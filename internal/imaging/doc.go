// Package imaging provides image loading and pixel-level operations for the
// actor detection pipeline.
//
// This package implements the input side of the pipeline: decoding diagram
// images with transparency flattened onto a white background, converting them
// to polarity-normalized binary ink masks, clipping regions of interest to
// image bounds, and the drawing primitives used by the debug overlay.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Regions use inclusive
// top-left and exclusive bottom-right corners, matching image.Rectangle.
//
// # Binary Masks
//
// Binarize produces an *image.Gray whose pixels are exactly 0 or 255, with
// foreground ink always the high value regardless of whether the source
// diagram was dark-on-light or light-on-dark. Detection algorithms downstream
// rely on this polarity guarantee.
//
// # Error Handling
//
// Load fails with a wrapped error for unreadable files or unrecognized
// formats. The pixel transforms in this package are pure and cannot fail;
// degenerate inputs (all-white, all-black) produce empty or full masks
// silently.
package imaging
