package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"go.uber.org/zap"

	"github.com/smarttask/actor-detect/internal/config"
	"github.com/smarttask/actor-detect/internal/detection"
	"github.com/smarttask/actor-detect/internal/imaging"
	"github.com/smarttask/actor-detect/internal/ocr"
	"github.com/smarttask/actor-detect/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to YAML config file")
		serve       = flag.Bool("serve", false, "run the HTTP API instead of detecting one image")
		addr        = flag.String("addr", "", "listen address override (with -serve)")
		debug       = flag.Bool("debug", false, "verbose logging")
		overlayPath = flag.String("overlay", "", "write the annotated overlay PNG to this path")
		version     = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("actor-detect %s (commit %s)\n", Version, GitCommit)
		return
	}

	log, err := buildLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	reader := ocr.NewReader(cfg.OCR.Languages, cfg.Server.TempDir)
	detector := detection.New(cfg.Detection, reader, log)

	if *serve {
		srv := server.New(cfg, detector, log)
		if err := srv.Run(); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: actor-detect [flags] <image>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := detectOne(flag.Arg(0), *overlayPath, detector, log); err != nil {
		log.Fatal("detection failed", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// detectOne runs the pipeline on a single image file and prints the report.
func detectOne(path, overlayPath string, detector *detection.Detector, log *zap.Logger) error {
	img, err := imaging.Load(path)
	if err != nil {
		return err
	}

	result, err := detector.Detect(img)
	if err != nil {
		return err
	}

	named, stats := detection.FilterAndRenumber(result.Records)

	fmt.Printf("Actors detected: %d (candidates: %d)\n", result.Count, result.Candidates)
	for _, a := range named {
		fmt.Printf("  Actor %d - %s\n", a.ID, a.Caption)
	}
	if stats.WithoutNames > 0 {
		fmt.Printf("  (%d detection(s) without a readable caption)\n", stats.WithoutNames)
	}

	if overlayPath != "" && result.Overlay != nil {
		f, err := os.Create(overlayPath)
		if err != nil {
			return fmt.Errorf("failed to create overlay file: %w", err)
		}
		defer f.Close()
		if err := png.Encode(f, result.Overlay); err != nil {
			return fmt.Errorf("failed to encode overlay: %w", err)
		}
		log.Info("overlay written", zap.String("path", overlayPath))
	}
	return nil
}
