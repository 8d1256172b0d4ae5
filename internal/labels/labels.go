// Package labels reads the optional manlabel.txt defect database that sits
// beside the source images and provides per-image reference rectangles.
package labels

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"mask-annotator/pkg/geometry"
)

// DefaultFile is the label database filename expected in the working
// directory.
const DefaultFile = "manlabel.txt"

// Index maps an image identity to its reference rectangles, already shifted
// into the cropped image's coordinate system.
type Index map[string][]geometry.RectInt

// Lookup returns the rectangles recorded for name, nil when there are none.
func (ix Index) Lookup(name string) []geometry.RectInt {
	return ix[name]
}

// Load reads the label database at path. A missing file is not an error and
// yields an empty index. The int result counts malformed rows that were
// skipped.
func Load(path string) (Index, int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Index{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to open label file: %w", err)
	}
	defer f.Close()

	ix, skipped, err := Parse(f)
	if err != nil {
		return nil, skipped, fmt.Errorf("failed to read label file: %w", err)
	}
	return ix, skipped, nil
}

// Parse reads whitespace-separated rows of the form
//
//	filename yMin xMin yMax xMax defectType
//
// The annotated images are crops of larger originals, so every file's
// rectangles are translated by that file's anchor point, the minimum
// (xMin, yMin) over all of its rows. Rows typed "sound" contribute to the
// anchor but produce no rectangle. Malformed rows are skipped and counted.
func Parse(r io.Reader) (Index, int, error) {
	type anchor struct{ x, y int }
	anchors := make(map[string]anchor)
	raw := make(map[string][]geometry.RectInt)
	skipped := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 6 {
			skipped++
			continue
		}
		yMin, err1 := strconv.Atoi(fields[1])
		xMin, err2 := strconv.Atoi(fields[2])
		yMax, err3 := strconv.Atoi(fields[3])
		xMax, err4 := strconv.Atoi(fields[4])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			skipped++
			continue
		}
		name, defect := fields[0], fields[5]

		a, ok := anchors[name]
		if !ok {
			a = anchor{x: math.MaxInt, y: math.MaxInt}
		}
		a.x = min(a.x, xMin)
		a.y = min(a.y, yMin)
		anchors[name] = a

		if defect == "sound" {
			continue
		}
		raw[name] = append(raw[name], geometry.NewRectInt(xMin, yMin, xMax-xMin, yMax-yMin))
	}
	if err := sc.Err(); err != nil {
		return nil, skipped, err
	}

	ix := make(Index, len(raw))
	for name, rects := range raw {
		a := anchors[name]
		shifted := make([]geometry.RectInt, len(rects))
		for i, r := range rects {
			shifted[i] = geometry.NewRectInt(r.X-a.x, r.Y-a.y, r.Width, r.Height)
		}
		ix[name] = shifted
	}
	return ix, skipped, nil
}
