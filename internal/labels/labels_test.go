package labels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mask-annotator/pkg/geometry"
)

func TestParseShiftsByAnchor(t *testing.T) {
	// The sound row holds the minimum xMin/yMin, so it defines the anchor
	// (15, 5) without producing a rectangle.
	input := strings.NewReader(strings.Join([]string{
		"000122 10 20 30 50 crack",
		"000122 5 15 40 60 sound",
	}, "\n"))

	ix, skipped, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	rects := ix.Lookup("000122")
	require.Len(t, rects, 1)
	assert.Equal(t, geometry.NewRectInt(5, 5, 30, 20), rects[0])
}

func TestParseKeepsFilesSeparate(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"000122 10 20 30 50 crack",
		"000123 0 0 10 10 blob",
		"000123 4 4 8 8 blob",
	}, "\n"))

	ix, _, err := Parse(input)
	require.NoError(t, err)

	assert.Len(t, ix.Lookup("000122"), 1)
	require.Len(t, ix.Lookup("000123"), 2)
	assert.Equal(t, geometry.NewRectInt(0, 0, 10, 10), ix.Lookup("000123")[0])
	assert.Equal(t, geometry.NewRectInt(4, 4, 4, 4), ix.Lookup("000123")[1])
	assert.Nil(t, ix.Lookup("000999"))
}

func TestParseSkipsMalformedRows(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"000122 10 20 30 50 crack",
		"short row",
		"000124 1 2 3 x crack",
		"",
		"000125 0 0 5 5 scratch",
	}, "\n"))

	ix, skipped, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	assert.Len(t, ix.Lookup("000122"), 1)
	assert.Len(t, ix.Lookup("000125"), 1)
}

func TestParseSoundOnlyFileHasNoRects(t *testing.T) {
	input := strings.NewReader("000130 2 3 9 9 sound\n")

	ix, skipped, err := Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Nil(t, ix.Lookup("000130"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	ix, skipped, err := Load(filepath.Join(t.TempDir(), "manlabel.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Empty(t, ix)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manlabel.txt")
	content := "000122 10 20 30 50 crack\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ix, skipped, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	assert.Equal(t, geometry.NewRectInt(0, 0, 30, 20), ix.Lookup("000122")[0])
}
