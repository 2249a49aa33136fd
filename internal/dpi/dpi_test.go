package dpi

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/mosiko1234/trayicon/internal/platform"
)

func TestScaleFactor(t *testing.T) {
	tests := []struct {
		dpi  uint32
		want float64
	}{
		{0, 1.0},
		{96, 1.0},
		{120, 1.25},
		{144, 1.5},
		{192, 2.0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScaleFactor(tt.dpi), "dpi %d", tt.dpi)
	}
}

func TestFromRECT(t *testing.T) {
	rc := platform.RECT{Left: 100, Top: 200, Right: 124, Bottom: 224}

	r := FromRECT(rc, 1.5)
	assert.Equal(t, PhysicalPosition{X: 150, Y: 300}, r.Position)
	assert.Equal(t, PhysicalSize{Width: 36, Height: 36}, r.Size)
	assert.False(t, r.Empty())
}

func TestFromRECTInvertedEdges(t *testing.T) {
	r := FromRECT(platform.RECT{Left: 50, Top: 50, Right: 10, Bottom: 10}, 2.0)
	assert.Equal(t, PhysicalSize{}, r.Size)
	assert.True(t, r.Empty())
}

func TestZeroRectIsEmpty(t *testing.T) {
	assert.True(t, Rect{}.Empty())
}

func TestProperty_PhysicalIsLogicalTimesScale(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("rect position and size scale exactly",
		prop.ForAll(
			func(left, top int32, w, h uint16, dpi uint32) bool {
				rc := platform.RECT{Left: left, Top: top, Right: left + int32(w), Bottom: top + int32(h)}
				scale := ScaleFactor(dpi)
				r := FromRECT(rc, scale)

				return r.Position.X == float64(left)*scale &&
					r.Position.Y == float64(top)*scale &&
					r.Size.Width == float64(w)*scale &&
					r.Size.Height == float64(h)*scale &&
					r.Size.Width >= 0 && r.Size.Height >= 0
			},
			gen.Int32Range(-10000, 10000),
			gen.Int32Range(-10000, 10000),
			gen.UInt16(),
			gen.UInt16(),
			gen.UInt32Range(96, 480),
		))

	properties.Property("cursor position scales exactly",
		prop.ForAll(
			func(x, y int32, dpi uint32) bool {
				scale := ScaleFactor(dpi)
				p := FromPoint(platform.Point{X: x, Y: y}, scale)
				return p.X == float64(x)*scale && p.Y == float64(y)*scale
			},
			gen.Int32Range(-10000, 10000),
			gen.Int32Range(-10000, 10000),
			gen.UInt32Range(96, 480),
		))

	properties.TestingRun(t)
}
