// Package store persists annotation output: one grayscale mask per source
// image plus the completion ledger that drives session resume.
package store

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mask-annotator/internal/mask"
)

// Store writes masks and ledger entries into a single output directory.
type Store struct {
	dir    string
	ledger *Ledger
	logger *slog.Logger
}

// Open prepares the output directory and reads the ledger snapshot.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	ledger, err := OpenLedger(filepath.Join(dir, LedgerFile))
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, ledger: ledger, logger: logger}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// Ledger returns the completion ledger.
func (s *Store) Ledger() *Ledger {
	return s.ledger
}

// Identity returns the ledger identity of an image file: its base name
// without the extension.
func Identity(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MaskPath returns where the mask for the named image is stored. Masks are
// always PNG so the mark colors survive a save/load cycle exactly.
func (s *Store) MaskPath(imageName string) string {
	return filepath.Join(s.dir, Identity(imageName)+".png")
}

// LoadMask reads the previously saved mask for the named image. When no
// mask exists yet an all-unmarked w x h mask is returned instead.
func (s *Store) LoadMask(imageName string, w, h int) (*mask.Mask, error) {
	path := s.MaskPath(imageName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return mask.New(w, h), nil
		}
		return nil, fmt.Errorf("failed to open mask: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask %s: %w", path, err)
	}
	m := mask.FromImage(img)
	if b := m.Bounds(); b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("mask %s is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), w, h)
	}
	s.logger.Debug("loaded existing mask", "path", path)
	return m, nil
}

// SaveMask writes the mask as a grayscale PNG. Any failure is returned;
// masks are never silently dropped.
func (s *Store) SaveMask(imageName string, m *mask.Mask) error {
	path := s.MaskPath(imageName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create mask file: %w", err)
	}
	if err := png.Encode(f, m.Gray()); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode mask: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write mask: %w", err)
	}
	s.logger.Debug("saved mask", "path", path, "marked", m.MarkedCount())
	return nil
}

// CompletedAtStart reports whether the identity was in the ledger when the
// store was opened.
func (s *Store) CompletedAtStart(id string) bool {
	return s.ledger.CompletedAtStart(id)
}

// AppendCompleted records the identity in the ledger.
func (s *Store) AppendCompleted(id string) error {
	return s.ledger.Append(id)
}
