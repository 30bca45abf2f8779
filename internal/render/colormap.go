package render

import (
	"image/color"
	"math"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

// channel maps a component into 0..255 relative to [lo, lo+span], scaled by
// scale. Overflow follows policy; NaN maps to 0.
func channel(v, lo, span, scale float64, policy OverflowPolicy) uint8 {
	x := (v - lo) / span * 255 * scale
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if policy == OverflowWrap {
		if math.IsInf(x, 1) {
			return 0
		}
		return uint8(math.Mod(math.Trunc(x), 256))
	}
	if x >= 255 {
		return 255
	}
	return uint8(x)
}

// FieldColor returns the color for one sampled vector: G carries the
// vertical component, B the horizontal one.
func FieldColor(v field.Vec2, b field.Bounds, scale float64, policy OverflowPolicy) color.RGBA {
	d := b.Delta()
	return color.RGBA{
		R: 0,
		G: channel(v.Y, b.Min.Y, d.Y, scale, policy),
		B: channel(v.X, b.Min.X, d.X, scale, policy),
		A: 255,
	}
}

// ColorizeField paints every cell of buf from the sampled field. When the
// bounds cannot normalize (no samples or zero extent) the whole buffer gets
// the background color and false is returned.
func ColorizeField(buf *raster.Buffer, s *field.SampledField, cfg Config) bool {
	bg := cfg.Palette.Background
	if s == nil || !s.Bounds.Valid() {
		buf.Fill(bg)
		return false
	}
	policy := cfg.Overflow
	if policy == "" {
		policy = OverflowClamp
	}
	buf.Fill(bg)
	for i, v := range s.Vecs {
		if !s.Sampled[i] {
			continue
		}
		p := s.Grid.Point(i)
		buf.Set(int(p.X), int(p.Y), FieldColor(v, s.Bounds, cfg.ColorScale, policy))
	}
	return true
}
