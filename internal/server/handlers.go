package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smarttask/actor-detect/internal/detection"
	"github.com/smarttask/actor-detect/internal/imaging"
)

// allowedExtensions whitelists upload file types the image loader can decode.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

type actorJSON struct {
	ActorID int    `json:"actor_id"`
	Name    string `json:"name"`
}

type positionJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type detectResponse struct {
	Status        string          `json:"status"`
	DetectionTime string          `json:"detection_time"`
	Statistics    detection.Stats `json:"statistics"`
	Actors        []actorJSON     `json:"actors"`
	Positions     []positionJSON  `json:"positions"`

	AllDetectedActors []actorJSON `json:"all_detected_actors,omitempty"`
	OmittedActors     []int       `json:"omitted_actors,omitempty"`

	OverlayBase64 string `json:"overlay_base64,omitempty"`
	OverlayMime   string `json:"overlay_mime_type,omitempty"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Actor Detection API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"detect_actors": "POST /detect-actors - upload image and detect actors",
			"health":        "GET /health - service health check",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleDetect accepts a multipart image upload, runs the detection
// pipeline, and returns the filtered-and-renumbered actor report.
//
// The upload is stored under a unique temporary name and removed before the
// handler returns, regardless of outcome. Unreadable or unsupported images
// abort the request with no partial output; zero detections are a normal
// 200 response with empty lists.
func (s *Server) handleDetect(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file type %q not allowed", ext),
		})
		return
	}

	tmpPath := filepath.Join(s.cfg.Server.TempDir, fmt.Sprintf("upload-%s%s", uuid.NewString(), ext))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		s.log.Error("failed to store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			s.log.Warn("failed to remove temp upload", zap.String("path", tmpPath), zap.Error(err))
		}
	}()

	img, err := imaging.Load(tmpPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.detector.Detect(img)
	if err != nil {
		s.log.Error("detection failed", zap.String("file", file.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	named, stats := detection.FilterAndRenumber(result.Records)

	resp := detectResponse{
		Status:        "success",
		DetectionTime: time.Now().Format(time.RFC3339),
		Statistics:    stats,
		Actors:        toActorJSON(named),
		Positions:     toPositionJSON(result.Positions),
	}

	if c.Query("include_empty") == "true" {
		resp.AllDetectedActors = toActorJSON(result.Records)
		for _, r := range result.Records {
			if strings.TrimSpace(r.Caption) == "" {
				resp.OmittedActors = append(resp.OmittedActors, r.ID)
			}
		}
	}

	if c.Query("debug") == "true" && result.Overlay != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, result.Overlay); err != nil {
			s.log.Warn("failed to encode overlay", zap.Error(err))
		} else {
			resp.OverlayBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
			resp.OverlayMime = "image/png"
		}
	}

	c.JSON(http.StatusOK, resp)
}

func toActorJSON(records []detection.ActorRecord) []actorJSON {
	out := make([]actorJSON, 0, len(records))
	for _, r := range records {
		out = append(out, actorJSON{ActorID: r.ID, Name: r.Caption})
	}
	return out
}

func toPositionJSON(points []detection.Candidate) []positionJSON {
	out := make([]positionJSON, 0, len(points))
	for _, p := range points {
		out = append(out, positionJSON{X: p.X, Y: p.Y})
	}
	return out
}
