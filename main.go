// Package main provides the entry point for the mask annotation tool.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2/app"

	"mask-annotator/internal/imageio"
	"mask-annotator/internal/labels"
	"mask-annotator/internal/session"
	"mask-annotator/internal/store"
	"mask-annotator/internal/version"
	"mask-annotator/ui/annotator"
	"mask-annotator/ui/prefs"
)

func main() {
	cfg := session.DefaultConfig()

	outputDir := flag.String("o", cfg.OutputDir, "Directory where annotation masks are stored")
	startIndex := flag.Int("start-index", 0, "Index of the first image to open")
	skipTo := flag.String("skip-to", "", "Name of the image to skip forward to")
	radius := flag.Int("radius", cfg.MarkRadius, "Initial marker radius in pixels")
	blend := flag.Int("blend", cfg.BlendPercent, "Initial mask blending factor in percent")
	verbose := flag.Bool("v", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("mask-annotator %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error! An image directory has to be specified!")
		usage()
		os.Exit(1)
	}
	imageDir := flag.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)

	cfg.ImageDir = imageDir
	cfg.OutputDir = *outputDir
	cfg.StartIndex = *startIndex
	cfg.SkipTo = *skipTo
	cfg.MarkRadius = *radius
	cfg.BlendPercent = *blend
	cfg.Logger = logger

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg session.Config, logger *slog.Logger) error {
	info, err := os.Stat(cfg.ImageDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("image directory %q is not available", cfg.ImageDir)
	}

	images, err := imageio.List(cfg.ImageDir)
	if err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}
	logger.Info("image directory scanned", "dir", cfg.ImageDir, "images", len(images))

	st, err := store.Open(cfg.OutputDir, logger)
	if err != nil {
		return fmt.Errorf("failed to open output directory: %w", err)
	}
	logger.Info("output directory ready",
		"dir", st.Dir(), "completed", st.Ledger().Len())

	refs, skipped, err := labels.Load(labels.DefaultFile)
	if err != nil {
		return fmt.Errorf("failed to read label file: %w", err)
	}
	if skipped > 0 {
		logger.Warn("skipped malformed label rows", "file", labels.DefaultFile, "rows", skipped)
	}
	if len(refs) > 0 {
		logger.Info("reference labels loaded", "file", labels.DefaultFile, "images", len(refs))
	}

	sess := session.New(cfg, images, st, refs)
	sess.Start()
	if sess.State() == session.StateDone {
		logger.Info("nothing left to annotate")
		return nil
	}

	fyneApp := app.New()
	win := annotator.New(fyneApp, sess, prefs.Load())
	win.ShowAndRun()
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: mask-annotator [options] <image_dir>\n\n"+
		"GUI to annotate images from within a specified directory. Options:\n")
	flag.PrintDefaults()
}
