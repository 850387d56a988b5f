package server

import (
	"image"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smarttask/actor-detect/internal/config"
	"github.com/smarttask/actor-detect/internal/detection"
)

// ActorDetector is the detection capability the handlers depend on. Tests
// substitute a stub; production wiring passes *detection.Detector.
type ActorDetector interface {
	Detect(img image.Image) (*detection.Result, error)
}

// Server hosts the HTTP API around a detector.
type Server struct {
	cfg      config.Config
	detector ActorDetector
	log      *zap.Logger
	engine   *gin.Engine
}

// New assembles the HTTP server. The caller owns construction of the
// detector (and its OCR reader) so that the whole dependency graph is wired
// in one place.
func New(cfg config.Config, detector ActorDetector, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = cfg.Server.MaxUploadBytes

	s := &Server{
		cfg:      cfg,
		detector: detector,
		log:      log,
		engine:   engine,
	}

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.POST("/detect-actors", s.handleDetect)

	return s
}

// Run starts serving on the configured address and blocks until the listener
// fails.
func (s *Server) Run() error {
	s.log.Info("http server starting", zap.String("addr", s.cfg.Server.Addr))
	return s.engine.Run(s.cfg.Server.Addr)
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}
