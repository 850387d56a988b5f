// Package ocr wraps Tesseract as the external text-recognition capability
// consumed by the caption extractor.
//
// The detection pipeline treats text recognition as a black box: it hands
// over a cropped caption region and receives back an ordered sequence of
// recognized spans. Only the text content of each span is used downstream;
// bounds and confidence are carried for diagnostics.
//
// # Languages
//
// Readers are created with a fixed small set of Tesseract language codes
// (by default English and Spanish, matching the diagrams this tool was
// tuned on). The corresponding traineddata files must be installed on the
// system.
//
// # Temporary Files
//
// Tesseract operates on files, so region reads write the crop to a uniquely
// named temporary PNG and remove it before returning, on success and
// failure alike.
package ocr
