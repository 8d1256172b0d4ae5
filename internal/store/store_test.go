package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mask-annotator/internal/mask"
	"mask-annotator/pkg/geometry"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "GT"), discardLogger())
	require.NoError(t, err)
	return s
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "GT")
	_, err := Open(dir, discardLogger())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"000123.png", "000123"},
		{filepath.Join("some", "dir", "000124.jpg"), "000124"},
		{"scan.tiff", "scan"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Identity(tt.name))
	}
}

func TestMaskRoundTrip(t *testing.T) {
	s := openTestStore(t)

	m := mask.New(64, 48)
	m.Paint(geometry.NewPointInt(30, 20), 7, true)
	m.Paint(geometry.NewPointInt(10, 10), 3, true)
	require.NoError(t, s.SaveMask("000123.png", m))

	loaded, err := s.LoadMask("000123.png", 64, 48)
	require.NoError(t, err)
	assert.Equal(t, m.Gray().Pix, loaded.Gray().Pix, "mark colors survive the cycle exactly")
}

func TestLoadMaskMissingIsBlank(t *testing.T) {
	s := openTestStore(t)

	m, err := s.LoadMask("000999.png", 32, 16)
	require.NoError(t, err)
	assert.Equal(t, 32, m.Bounds().Dx())
	assert.Equal(t, 16, m.Bounds().Dy())
	assert.Equal(t, 0, m.MarkedCount())
}

func TestLoadMaskSizeMismatch(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveMask("000123.png", mask.New(10, 10)))

	_, err := s.LoadMask("000123.png", 20, 20)
	assert.Error(t, err)
}

func TestLoadMaskCorrupted(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, os.WriteFile(s.MaskPath("000123.png"), []byte("junk"), 0o644))

	_, err := s.LoadMask("000123.png", 10, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode mask")
}

func TestSaveMaskFailureSurfaces(t *testing.T) {
	s := openTestStore(t)
	// Occupy the mask path with a directory so the create fails.
	require.NoError(t, os.Mkdir(s.MaskPath("000123.png"), 0o755))

	err := s.SaveMask("000123.png", mask.New(4, 4))
	assert.Error(t, err)
}

func TestMaskPathForcesPNG(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, filepath.Join(s.Dir(), "000123.png"), s.MaskPath("000123.jpg"))
}

func TestLedgerAppendAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LedgerFile)

	l, err := OpenLedger(path)
	require.NoError(t, err)
	assert.False(t, l.CompletedAtStart("000123"))

	require.NoError(t, l.Append("000123"))
	require.NoError(t, l.Append("000124"))
	assert.True(t, l.Contains("000123"))
	assert.False(t, l.CompletedAtStart("000123"), "appends do not join the snapshot")

	reloaded, err := OpenLedger(path)
	require.NoError(t, err)
	assert.True(t, reloaded.CompletedAtStart("000123"))
	assert.True(t, reloaded.CompletedAtStart("000124"))
	assert.Equal(t, 2, reloaded.Len())
}

func TestLedgerAppendDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), LedgerFile)

	l, err := OpenLedger(path)
	require.NoError(t, err)
	require.NoError(t, l.Append("000123"))
	require.NoError(t, l.Append("000123"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "000123\n", string(data))

	// Identities from the snapshot are not appended again either.
	reloaded, err := OpenLedger(path)
	require.NoError(t, err)
	require.NoError(t, reloaded.Append("000123"))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "000123\n", string(data))
}

func TestLedgerFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), LedgerFile)
	require.NoError(t, os.WriteFile(path, []byte("000122\n\n000123\n"), 0o644))

	l, err := OpenLedger(path)
	require.NoError(t, err)
	assert.True(t, l.CompletedAtStart("000122"))
	assert.True(t, l.CompletedAtStart("000123"))
	assert.Equal(t, 2, l.Len(), "blank lines are ignored")
}

func TestStoreLedgerIntegration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "GT")
	s, err := Open(dir, discardLogger())
	require.NoError(t, err)

	require.NoError(t, s.AppendCompleted("000122"))
	assert.False(t, s.CompletedAtStart("000122"))

	s2, err := Open(dir, discardLogger())
	require.NoError(t, err)
	assert.True(t, s2.CompletedAtStart("000122"))
}
