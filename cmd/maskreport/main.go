// Command maskreport summarizes a directory of saved annotation masks:
// per-mask coverage and marked regions, plus aggregate statistics.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"mask-annotator/internal/export"
	"mask-annotator/internal/imageio"
	"mask-annotator/internal/mask"
	"mask-annotator/internal/store"
)

func main() {
	maskDir := flag.String("masks", "GT", "Directory of saved annotation masks")
	minArea := flag.Float64("min-area", 4, "Minimum contour area in pixels for a region to count")
	verbose := flag.Bool("v", false, "Print every region rectangle")
	flag.Parse()

	if flag.NArg() != 0 {
		fmt.Println("Usage: maskreport [-masks GT] [-min-area 4] [-v]")
		os.Exit(1)
	}

	paths, err := imageio.List(*maskDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list masks: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Printf("No masks found in %s\n", *maskDir)
		return
	}

	fmt.Printf("Found %d masks in %s\n\n", len(paths), *maskDir)
	fmt.Printf("%-20s %10s %8s %18s\n", "ID", "Coverage", "Regions", "Largest")
	fmt.Println(strings.Repeat("-", 58))

	var coverages []float64
	for _, path := range paths {
		m, err := loadMask(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", filepath.Base(path), err)
			continue
		}

		regions, err := export.Regions(m, *minArea)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", filepath.Base(path), err)
			continue
		}

		coverage := export.Coverage(m)
		coverages = append(coverages, coverage)

		largest := "-"
		best := 0
		for _, r := range regions {
			if a := r.Width * r.Height; a > best {
				best = a
				largest = fmt.Sprintf("%dx%d at (%d,%d)", r.Width, r.Height, r.X, r.Y)
			}
		}
		fmt.Printf("%-20s %9.2f%% %8d %18s\n",
			store.Identity(filepath.Base(path)), coverage*100, len(regions), largest)

		if *verbose {
			for _, r := range regions {
				fmt.Printf("    region (%d,%d) %dx%d\n", r.X, r.Y, r.Width, r.Height)
			}
		}
	}

	mean, stddev := export.Summary(coverages)
	fmt.Printf("\nTotal: %d masks, mean coverage %.2f%%, stddev %.2f%%\n",
		len(coverages), mean*100, stddev*100)
}

func loadMask(path string) (*mask.Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	return mask.FromImage(img), nil
}
