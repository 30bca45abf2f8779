package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

func TestChannelOverflowPolicies(t *testing.T) {
	tests := []struct {
		name   string
		v      float64
		scale  float64
		policy OverflowPolicy
		want   uint8
	}{
		{"min maps to zero", 0, 1, OverflowClamp, 0},
		{"max maps to 255", 10, 1, OverflowClamp, 255},
		{"midpoint", 5, 1, OverflowClamp, 127},
		{"clamp saturates", 10, 2, OverflowClamp, 255},
		{"wrap keeps low bits", 10, 2, OverflowWrap, 254},
		{"wrap below range untouched", 5, 1, OverflowWrap, 127},
		{"huge scale clamps", 10, 1e300, OverflowClamp, 255},
		{"infinite wraps to zero", 10, math.Inf(1), OverflowWrap, 0},
		{"NaN is zero", math.NaN(), 1, OverflowClamp, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, channel(tt.v, 0, 10, tt.scale, tt.policy))
		})
	}
}

func TestColorizeFieldNoCharges(t *testing.T) {
	g := field.Square(20)
	buf := raster.New(g)
	buf.Fill(color.RGBA{9, 9, 9, 9})
	cfg := DefaultConfig()

	ok := ColorizeField(buf, field.Sample(g, nil), cfg)
	assert.False(t, ok)
	for i, c := range buf.Pix {
		require.Equal(t, cfg.Palette.Background, c, "pixel %d", i)
	}

	assert.False(t, ColorizeField(buf, nil, cfg))
}

func TestColorizeFieldChannels(t *testing.T) {
	g := field.Square(30)
	charges := field.ChargeSet{{Pos: field.Vec2{X: -10}, Strength: 20}, {Pos: field.Vec2{X: 10}, Strength: -20}}
	s := field.Sample(g, charges)
	cfg := DefaultConfig()
	cfg.ColorScale = 1

	buf := raster.New(g)
	require.True(t, ColorizeField(buf, s, cfg))

	for i, c := range buf.Pix {
		assert.Zero(t, c.R)
		assert.Equal(t, uint8(255), c.A)
		if !s.Sampled[i] {
			assert.Equal(t, cfg.Palette.Background, c)
		}
	}

	v, ok := s.At(0, 7)
	require.True(t, ok)
	want := FieldColor(v, s.Bounds, 1, OverflowClamp)
	assert.Equal(t, want, buf.At(0, 7))
	assert.Equal(t, cfg.Palette.Background, buf.At(-10, 0))
}

func TestColorizeFieldWrapDiffersFromClamp(t *testing.T) {
	g := field.Square(30)
	charges := field.ChargeSet{{Pos: field.Vec2{X: 5, Y: 3}, Strength: 60}}
	s := field.Sample(g, charges)

	clamp := DefaultConfig()
	wrap := DefaultConfig()
	wrap.Overflow = OverflowWrap

	a, b := raster.New(g), raster.New(g)
	ColorizeField(a, s, clamp)
	ColorizeField(b, s, wrap)

	differ := 0
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			differ++
		}
	}
	assert.Positive(t, differ, "scale 100 must overflow somewhere")
}
