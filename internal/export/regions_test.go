package export

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mask-annotator/internal/mask"
	"mask-annotator/pkg/geometry"
)

func TestRegionsFindsSingleSquare(t *testing.T) {
	m := mask.New(64, 64)
	m.Paint(geometry.NewPointInt(32, 32), 8, true)

	regions, err := Regions(m, 0)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, geometry.NewRectInt(24, 24, 16, 16), regions[0])
}

func TestRegionsSeparatesDisjointMarks(t *testing.T) {
	m := mask.New(64, 64)
	m.Paint(geometry.NewPointInt(12, 12), 4, true)
	m.Paint(geometry.NewPointInt(48, 48), 8, true)

	regions, err := Regions(m, 0)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
}

func TestRegionsMinAreaFilter(t *testing.T) {
	m := mask.New(64, 64)
	m.Paint(geometry.NewPointInt(12, 12), 4, true)
	m.Paint(geometry.NewPointInt(48, 48), 8, true)

	// The 8x8 square has contour area 49, the 16x16 one 225.
	regions, err := Regions(m, 100)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, geometry.NewRectInt(40, 40, 16, 16), regions[0])
}

func TestRegionsEmptyMask(t *testing.T) {
	regions, err := Regions(mask.New(32, 32), 0)
	require.NoError(t, err)
	assert.Empty(t, regions)
}

func TestCoverage(t *testing.T) {
	m := mask.New(16, 16)
	assert.Equal(t, 0.0, Coverage(m))

	m.Paint(geometry.NewPointInt(8, 8), 4, true)
	assert.InDelta(t, 64.0/256.0, Coverage(m), 1e-9)
}

func TestSummary(t *testing.T) {
	mean, stddev := Summary([]float64{0.25, 0.75})
	assert.InDelta(t, 0.5, mean, 1e-9)
	assert.InDelta(t, math.Sqrt(0.125), stddev, 1e-9)

	mean, stddev = Summary([]float64{0.4})
	assert.InDelta(t, 0.4, mean, 1e-9)
	assert.Equal(t, 0.0, stddev)

	mean, stddev = Summary(nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, stddev)
}
