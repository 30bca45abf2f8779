package render

import (
	"math"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

// Termination says why a trace stopped.
type Termination int

const (
	ZeroForce Termination = iota
	LeftGrid
	StepLimit
)

func (t Termination) String() string {
	switch t {
	case ZeroForce:
		return "zero-force"
	case LeftGrid:
		return "left-grid"
	case StepLimit:
		return "step-limit"
	}
	return "unknown"
}

// Trace is one integrated field line. Points[t] is the position at step t,
// before the step is taken; len(Points) == Steps.
type Trace struct {
	Owner  int
	Points []field.Vec2
	Steps  int
	End    Termination
}

// Seeds returns the start points around charges[owner] that survive the
// same-sign filter. Angles are i·2π/n for i = 1..n.
func Seeds(owner int, charges field.ChargeSet, cfg Config) []field.Vec2 {
	n := cfg.LinesPerCharge
	if n <= 0 || owner < 0 || owner >= len(charges) {
		return nil
	}
	c := charges[owner]
	var seeds []field.Vec2
	for i := 1; i <= n; i++ {
		theta := float64(i) * 2 * math.Pi / float64(n)
		s, co := math.Sincos(theta)
		p := c.Pos.Add(field.Vec2{X: co, Y: s}.Scale(cfg.SeedDistance))
		if field.PointsTowardSameSign(p, owner, charges, cfg.SeedTolerance) {
			continue
		}
		seeds = append(seeds, p)
	}
	return seeds
}

// TraceLine integrates from seed along sign(q_owner)·normalize(F) with a
// fixed step length. It stops on zero force, on leaving the grid, or after
// maxSteps steps, whichever comes first.
func TraceLine(seed field.Vec2, owner int, charges field.ChargeSet, g field.Grid, stepSize float64, maxSteps int) Trace {
	tr := Trace{Owner: owner}
	if owner < 0 || owner >= len(charges) {
		return tr
	}
	dir := charges[owner].Sign() * stepSize
	p := seed
	for {
		if !g.Contains(p) {
			tr.End = LeftGrid
			break
		}
		if tr.Steps >= maxSteps {
			tr.End = StepLimit
			break
		}
		f := field.Force(p, charges)
		if f.IsZero() || !f.Finite() {
			tr.End = ZeroForce
			break
		}
		tr.Points = append(tr.Points, p)
		p = p.Add(f.Normalize().Scale(dir))
		tr.Steps++
	}
	return tr
}

// DrawTrace rasterizes one trace and returns how many pixels landed on the
// grid. Culled steps and off-grid pixels are skipped.
func DrawTrace(buf *raster.Buffer, tr Trace, charges field.ChargeSet, cfg Config) int {
	n := 0
	for t, p := range tr.Points {
		if cfg.SymmetryCulling && field.CloserToOther(p, tr.Owner, charges) {
			continue
		}
		if cfg.DrawArrows && t == cfg.ArrowStep {
			travel := field.Force(p, charges).Normalize().Scale(charges[tr.Owner].Sign())
			n += drawArrow(buf, p, travel, cfg)
			continue
		}
		if buf.Plot(p, cfg.Palette.Line) {
			n++
		}
	}
	return n
}

// drawArrow strokes two wings from tip, each the reversed travel direction
// turned by ±45°. Rotating the reversed tangent rather than the tangent
// itself makes the wings trail behind the tip, so the head points along
// the line.
func drawArrow(buf *raster.Buffer, tip, travel field.Vec2, cfg Config) int {
	if travel.IsZero() {
		return 0
	}
	back := travel.Scale(-1)
	n := 0
	for _, wing := range []field.Vec2{back.Rotate(math.Pi / 4), back.Rotate(-math.Pi / 4)} {
		across := wing.Perp()
		for s := 0; s < cfg.ArrowLength; s++ {
			base := tip.Add(wing.Scale(float64(s)))
			for k := 0; k < cfg.ArrowThickness; k++ {
				off := float64(k) - float64(cfg.ArrowThickness-1)/2
				if buf.Plot(base.Add(across.Scale(off)), cfg.Palette.Line) {
					n++
				}
			}
		}
	}
	return n
}

// DrawFieldLines seeds, traces and rasterizes lines for every charge.
func DrawFieldLines(buf *raster.Buffer, charges field.ChargeSet, cfg Config) []Trace {
	var traces []Trace
	for owner := range charges {
		for _, seed := range Seeds(owner, charges, cfg) {
			tr := TraceLine(seed, owner, charges, buf.Grid, cfg.StepSize, cfg.MaxSteps)
			DrawTrace(buf, tr, charges, cfg)
			traces = append(traces, tr)
		}
	}
	return traces
}
