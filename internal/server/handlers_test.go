package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/smarttask/actor-detect/internal/config"
	"github.com/smarttask/actor-detect/internal/detection"
)

// stubDetector returns a canned result without running the pipeline.
type stubDetector struct {
	result *detection.Result
	err    error
}

func (s *stubDetector) Detect(img image.Image) (*detection.Result, error) {
	return s.result, s.err
}

func testServer(t *testing.T, det ActorDetector) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Server.TempDir = t.TempDir()
	return New(cfg, det, nil)
}

// uploadRequest builds a multipart POST with a small white PNG attached under
// the given filename.
func uploadRequest(t *testing.T, url, filename string) *http.Request {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.White)
		}
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(part, img); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func twoActorResult() *detection.Result {
	return &detection.Result{
		Count: 2,
		Positions: []detection.Candidate{
			{X: 100, Y: 80},
			{X: 300, Y: 80},
		},
		Records: []detection.ActorRecord{
			{ID: 1, X: 100, Y: 80, Caption: "User"},
			{ID: 2, X: 300, Y: 80, Caption: ""},
		},
		Candidates: 3,
		Overlay:    image.NewRGBA(image.Rect(0, 0, 20, 20)),
	}
}

func TestDetectEndpoint(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/detect-actors", "diagram.png"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Statistics.TotalDetected != 2 || resp.Statistics.WithNames != 1 {
		t.Errorf("statistics = %+v", resp.Statistics)
	}
	// Only the named actor survives filtering, renumbered from 1.
	if len(resp.Actors) != 1 || resp.Actors[0].ActorID != 1 || resp.Actors[0].Name != "User" {
		t.Errorf("actors = %+v", resp.Actors)
	}
	if len(resp.Positions) != 2 {
		t.Errorf("positions = %+v, want both raw positions", resp.Positions)
	}
	if resp.OverlayBase64 != "" {
		t.Error("overlay returned without debug=true")
	}
	if resp.AllDetectedActors != nil {
		t.Error("all_detected_actors returned without include_empty=true")
	}
}

func TestDetectEndpointIncludeEmpty(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/detect-actors?include_empty=true", "diagram.png"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.AllDetectedActors) != 2 {
		t.Errorf("all_detected_actors = %+v, want 2 entries", resp.AllDetectedActors)
	}
	if len(resp.OmittedActors) != 1 || resp.OmittedActors[0] != 2 {
		t.Errorf("omitted_actors = %v, want [2]", resp.OmittedActors)
	}
}

func TestDetectEndpointDebugOverlay(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/detect-actors?debug=true", "diagram.png"))

	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.OverlayBase64 == "" {
		t.Fatal("overlay_base64 missing with debug=true")
	}
	if resp.OverlayMime != "image/png" {
		t.Errorf("overlay_mime_type = %q", resp.OverlayMime)
	}
}

func TestDetectEndpointRejectsExtension(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/detect-actors", "notes.txt"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetectEndpointMissingFile(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	req := httptest.NewRequest(http.MethodPost, "/detect-actors", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDetectEndpointDetectorError(t *testing.T) {
	srv := testServer(t, &stubDetector{err: image.ErrFormat})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "/detect-actors", "diagram.png"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("health status = %v", body["status"])
	}
}

func TestRootEndpoint(t *testing.T) {
	srv := testServer(t, &stubDetector{result: twoActorResult()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
