// Package server exposes the actor detection pipeline over HTTP.
//
// The service is a thin synchronous wrapper: one uploaded image in, one
// fully materialized JSON result out. Uploads are written to uniquely named
// temporary files that are removed on every exit path, including handler
// panic recovery.
//
// # Endpoints
//
//	GET  /              service info
//	GET  /health        liveness check
//	POST /detect-actors multipart image upload; query parameters:
//	                      debug=true          include the annotated overlay
//	                                          as base64 PNG
//	                      include_empty=true  include actors without captions
//
// # Result Shape
//
// Responses always carry a stable shape: zero detections produce empty
// actor and position lists with zero counts, never a null result.
package server
