package render

import (
	"math"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

// ThresholdEquipotentials marks every sampled cell whose force magnitude is
// within Epsilon·(i+1) of FirstRing·(i+1) for some ring i. It returns the
// number of marked cells.
func ThresholdEquipotentials(buf *raster.Buffer, s *field.SampledField, cfg Config) int {
	if s == nil || cfg.RingCount <= 0 {
		return 0
	}
	n := 0
	for i, v := range s.Vecs {
		if !s.Sampled[i] {
			continue
		}
		mag := v.Len()
		for ring := 0; ring < cfg.RingCount; ring++ {
			k := float64(ring + 1)
			if math.Abs(mag-cfg.FirstRing*k) < cfg.Epsilon*k {
				p := s.Grid.Point(i)
				if buf.Set(int(p.X), int(p.Y), cfg.Palette.Equipotential) {
					n++
				}
				break
			}
		}
	}
	return n
}

// WalkSeed returns the start of ring i around c, offset along c's own
// position direction. ok is false for a charge at the origin, which has no
// such direction.
func WalkSeed(c field.Charge, ring int, spacing float64) (field.Vec2, bool) {
	dir := c.Pos.Normalize()
	if dir.IsZero() {
		return field.Vec2{}, false
	}
	return c.Pos.Add(dir.Scale(spacing * float64(ring+1))), true
}

// WalkContour follows the field normal from seed for at most steps steps,
// returning the visited points. It stops early where the force vanishes.
func WalkContour(seed field.Vec2, charges field.ChargeSet, steps int, scale float64) []field.Vec2 {
	if steps <= 0 {
		return nil
	}
	var pts []field.Vec2
	p := seed
	for i := 0; i < steps; i++ {
		f := field.Force(p, charges)
		if f.IsZero() || !f.Finite() {
			break
		}
		pts = append(pts, p)
		ahead := p.Add(f.Normalize())
		tangent := ahead.Sub(p).Normalize()
		p = p.Add(tangent.Perp().Scale(scale))
	}
	return pts
}

// WalkEquipotentials walks RingCount contours around every charge and plots
// each visited point together with its mirror across the x axis. Contours
// are not closed and may drift. It returns the number of plotted pixels.
func WalkEquipotentials(buf *raster.Buffer, charges field.ChargeSet, cfg Config) int {
	n := 0
	for _, c := range charges {
		for ring := 0; ring < cfg.RingCount; ring++ {
			seed, ok := WalkSeed(c, ring, cfg.RingSpacing)
			if !ok {
				continue
			}
			for _, p := range WalkContour(seed, charges, cfg.WalkSteps, cfg.WalkScale) {
				if buf.Plot(p, cfg.Palette.Equipotential) {
					n++
				}
				if buf.Plot(p.MirrorX(), cfg.Palette.Equipotential) {
					n++
				}
			}
		}
	}
	return n
}
