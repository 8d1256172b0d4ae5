package mask

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mask-annotator/pkg/geometry"
)

func TestPaintCenteredSquare(t *testing.T) {
	m := New(100, 100)
	m.Paint(geometry.NewPointInt(50, 50), 5, true)

	// Radius 5 covers [45,55) on both axes.
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			inside := x >= 45 && x < 55 && y >= 45 && y < 55
			if m.Set(geometry.NewPointInt(x, y)) != inside {
				t.Fatalf("pixel (%d,%d): marked=%v, want %v", x, y, !inside, inside)
			}
		}
	}
	assert.Equal(t, 100, m.MarkedCount())
}

func TestPaintIsIdempotent(t *testing.T) {
	m := New(100, 100)
	m.Paint(geometry.NewPointInt(50, 50), 5, true)
	snapshot := append([]byte(nil), m.Gray().Pix...)

	m.Paint(geometry.NewPointInt(50, 50), 5, true)
	assert.True(t, bytes.Equal(snapshot, m.Gray().Pix))
}

func TestClearRemovesOnlyItsSquare(t *testing.T) {
	m := New(100, 100)
	m.Paint(geometry.NewPointInt(50, 50), 5, true)
	m.Paint(geometry.NewPointInt(46, 46), 2, false)

	// The clear square is [44,48) x [44,48).
	assert.False(t, m.Set(geometry.NewPointInt(45, 45)))
	assert.False(t, m.Set(geometry.NewPointInt(47, 47)))
	assert.True(t, m.Set(geometry.NewPointInt(48, 48)))
	assert.True(t, m.Set(geometry.NewPointInt(47, 49)), "outside the clear square on y")
	assert.True(t, m.Set(geometry.NewPointInt(54, 54)))
}

func TestPaintClipsAtBorders(t *testing.T) {
	m := New(100, 100)

	m.Paint(geometry.NewPointInt(0, 0), 5, true)
	assert.Equal(t, 25, m.MarkedCount(), "corner square clips to 5x5")

	m.Paint(geometry.NewPointInt(0, 0), 5, false)
	m.Paint(geometry.NewPointInt(99, 99), 5, true)
	assert.Equal(t, 36, m.MarkedCount(), "far corner square clips to 6x6")
}

func TestPaintOutsideBoundsIsNoop(t *testing.T) {
	m := New(100, 100)
	m.Paint(geometry.NewPointInt(200, 50), 5, true)
	m.Paint(geometry.NewPointInt(-20, -20), 5, true)
	m.Paint(geometry.NewPointInt(50, 50), 0, true)

	assert.Equal(t, 0, m.MarkedCount())
}

func TestFromImagePreservesMarkColors(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				src.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
			} else {
				src.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
			}
		}
	}

	m := FromImage(src)
	require.Equal(t, image.Rect(0, 0, 4, 4), m.Bounds())
	assert.True(t, m.Set(geometry.NewPointInt(0, 0)))
	assert.True(t, m.Set(geometry.NewPointInt(1, 3)))
	assert.False(t, m.Set(geometry.NewPointInt(2, 0)))
	assert.Equal(t, 8, m.MarkedCount())
}

func TestCloneIsIndependent(t *testing.T) {
	m := New(10, 10)
	m.Paint(geometry.NewPointInt(5, 5), 2, true)

	c := m.Clone()
	c.Paint(geometry.NewPointInt(5, 5), 2, false)

	assert.Equal(t, 16, m.MarkedCount())
	assert.Equal(t, 0, c.MarkedCount())
}
