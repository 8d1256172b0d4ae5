package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectIntContains(t *testing.T) {
	r := NewRectInt(10, 20, 30, 40)

	assert.True(t, r.Contains(PointInt{X: 10, Y: 20}))
	assert.True(t, r.Contains(PointInt{X: 39, Y: 59}))
	assert.False(t, r.Contains(PointInt{X: 40, Y: 20}), "right edge is exclusive")
	assert.False(t, r.Contains(PointInt{X: 10, Y: 60}), "bottom edge is exclusive")
	assert.False(t, r.Contains(PointInt{X: 9, Y: 20}))
}

func TestRectIntIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b RectInt
		want RectInt
	}{
		{
			name: "overlap",
			a:    NewRectInt(0, 0, 10, 10),
			b:    NewRectInt(5, 5, 10, 10),
			want: NewRectInt(5, 5, 5, 5),
		},
		{
			name: "contained",
			a:    NewRectInt(0, 0, 100, 100),
			b:    NewRectInt(20, 30, 10, 10),
			want: NewRectInt(20, 30, 10, 10),
		},
		{
			name: "disjoint",
			a:    NewRectInt(0, 0, 10, 10),
			b:    NewRectInt(20, 20, 5, 5),
			want: RectInt{},
		},
		{
			name: "touching edges do not overlap",
			a:    NewRectInt(0, 0, 10, 10),
			b:    NewRectInt(10, 0, 10, 10),
			want: RectInt{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Intersect(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersect(tt.a))
		})
	}
}

func TestRectIntImageRectRoundTrip(t *testing.T) {
	r := NewRectInt(3, 4, 5, 6)
	ir := r.ToImageRect()

	assert.Equal(t, image.Rect(3, 4, 8, 10), ir)
	assert.Equal(t, r, RectIntFromImageRect(ir))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 5, ClampInt(5, 0, 10))
	assert.Equal(t, 0, ClampInt(-3, 0, 10))
	assert.Equal(t, 10, ClampInt(42, 0, 10))
}
