package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

func lineOnly() Config {
	cfg := DefaultConfig()
	cfg.ColorizeField = false
	cfg.DrawEquipotential = false
	return cfg
}

func TestSeeds(t *testing.T) {
	single := field.ChargeSet{{Pos: field.Vec2{X: 3, Y: -4}, Strength: 10}}
	cfg := DefaultConfig()

	seeds := Seeds(0, single, cfg)
	require.Len(t, seeds, cfg.LinesPerCharge)
	for _, s := range seeds {
		assert.InDelta(t, cfg.SeedDistance, s.Dist(single[0].Pos), 1e-9)
	}

	cfg.LinesPerCharge = 0
	assert.Empty(t, Seeds(0, single, cfg))
	assert.Empty(t, Seeds(5, single, DefaultConfig()))
}

func TestSeedsSkipLikeNeighbor(t *testing.T) {
	pair := field.ChargeSet{{Pos: field.Vec2{X: -60}, Strength: -60}, {Pos: field.Vec2{X: 60}, Strength: -60}}
	cfg := DefaultConfig()

	left := Seeds(0, pair, cfg)
	right := Seeds(1, pair, cfg)
	assert.Len(t, left, cfg.LinesPerCharge-1)
	assert.Len(t, right, cfg.LinesPerCharge-1)
	for _, s := range left {
		assert.False(t, s.X > -59 && s.Y*s.Y < 1e-6, "seed %v points at the like charge", s)
	}

	pair[1].Strength = 60
	assert.Len(t, Seeds(0, pair, cfg), cfg.LinesPerCharge)
}

func TestTraceLineLeavesGrid(t *testing.T) {
	g := field.Square(field.DefaultRadius)
	charges := field.ChargeSet{{Strength: 60}}

	tr := TraceLine(field.Vec2{X: 2}, 0, charges, g, 1, 1000)
	assert.Equal(t, LeftGrid, tr.End)
	assert.Equal(t, 119, tr.Steps)
	require.Len(t, tr.Points, tr.Steps)
	for k, p := range tr.Points {
		assert.Equal(t, float64(2+k), p.X)
		assert.Zero(t, p.Y)
	}
}

func TestTraceLineNegativeRunsAgainstField(t *testing.T) {
	g := field.Square(50)
	charges := field.ChargeSet{{Strength: -10}}

	f := field.Force(field.Vec2{X: 2}, charges)
	require.Negative(t, f.X, "force points into the sink")

	tr := TraceLine(field.Vec2{X: 2}, 0, charges, g, 1, 1000)
	assert.Equal(t, LeftGrid, tr.End)
	assert.Equal(t, 49, tr.Steps)
	assert.Equal(t, field.Vec2{X: 50}, tr.Points[len(tr.Points)-1])
}

func TestTraceLineTermination(t *testing.T) {
	g := field.Square(50)
	charges := field.ChargeSet{{Strength: 10}}

	t.Run("step limit", func(t *testing.T) {
		tr := TraceLine(field.Vec2{X: 2}, 0, charges, g, 1, 10)
		assert.Equal(t, StepLimit, tr.End)
		assert.Equal(t, 10, tr.Steps)
	})
	t.Run("zero steps", func(t *testing.T) {
		tr := TraceLine(field.Vec2{X: 2}, 0, charges, g, 1, 0)
		assert.Equal(t, StepLimit, tr.End)
		assert.Zero(t, tr.Steps)
	})
	t.Run("seed on charge", func(t *testing.T) {
		tr := TraceLine(field.Vec2{}, 0, charges, g, 1, 10)
		assert.Equal(t, ZeroForce, tr.End)
		assert.Zero(t, tr.Steps)
	})
	t.Run("seed off grid", func(t *testing.T) {
		tr := TraceLine(field.Vec2{X: 51}, 0, charges, g, 1, 10)
		assert.Equal(t, LeftGrid, tr.End)
		assert.Empty(t, tr.Points)
	})
	t.Run("bad owner", func(t *testing.T) {
		assert.Zero(t, TraceLine(field.Vec2{X: 2}, 3, charges, g, 1, 10).Steps)
	})
	assert.Equal(t, "left-grid", LeftGrid.String())
}

func TestSeedsAtLineLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LinesPerCharge = MaxLinesPerCharge
	charges := field.ChargeSet{{Strength: 10}}
	assert.Len(t, Seeds(0, charges, cfg), MaxLinesPerCharge)
}

func TestRenderAtWorkLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DrawFieldLines = true
	cfg.DrawEquipotential = true
	cfg.Equipotential = EquipotentialWalk
	cfg.LinesPerCharge = MaxLinesPerCharge
	cfg.WalkSteps = MaxTraceSteps
	cfg.RingCount = 1
	require.NoError(t, cfg.Validate())

	buf := raster.New(field.Square(20))
	assert.NotPanics(t, func() {
		NewRenderer(nil).Render(buf, field.ChargeSet{{Strength: 10}}, cfg)
	})
}

func TestDrawFieldLinesRespectLimits(t *testing.T) {
	g := field.Square(80)
	buf := raster.New(g)
	charges := field.ChargeSet{
		{Pos: field.Vec2{X: -60}, Strength: -20},
		{Pos: field.Vec2{X: 60}, Strength: -20},
		{Pos: field.Vec2{Y: 60}, Strength: 20},
	}
	cfg := lineOnly()
	cfg.MaxSteps = 37

	traces := DrawFieldLines(buf, charges, cfg)
	require.NotEmpty(t, traces)
	for _, tr := range traces {
		assert.LessOrEqual(t, tr.Steps, cfg.MaxSteps)
		for _, p := range tr.Points {
			assert.True(t, g.Contains(p), "point %v off grid", p)
		}
	}
}

func TestSymmetryCullingStopsAtBisector(t *testing.T) {
	const d = 30.0
	g := field.Square(60)
	charges := field.ChargeSet{{Pos: field.Vec2{X: -d}, Strength: 25}, {Pos: field.Vec2{X: d}, Strength: -25}}
	cfg := lineOnly()
	cfg.SymmetryCulling = true

	tr := TraceLine(field.Vec2{X: -d + 2}, 0, charges, g, 1, 1000)
	require.Equal(t, ZeroForce, tr.End)
	crossed := false
	for _, p := range tr.Points {
		crossed = crossed || p.X > 0
	}
	require.True(t, crossed, "trace must run past the bisector")

	buf := raster.New(g)
	plotted := DrawTrace(buf, tr, charges, cfg)
	assert.Positive(t, plotted)
	for i, c := range buf.Pix {
		if c == cfg.Palette.Line {
			p := g.Point(i)
			assert.LessOrEqual(t, p.X, 0.0, "pixel %v beyond the bisector", p)
		}
	}

	cfg.SymmetryCulling = false
	full := raster.New(g)
	assert.Greater(t, DrawTrace(full, tr, charges, cfg), plotted)
}

func TestArrowhead(t *testing.T) {
	g := field.Square(40)
	charges := field.ChargeSet{{Strength: 10}}
	tr := TraceLine(field.Vec2{X: 2}, 0, charges, g, 1, 30)

	cfg := lineOnly()
	plain := raster.New(g)
	base := DrawTrace(plain, tr, charges, cfg)
	assert.Equal(t, tr.Steps, base)
	assert.Zero(t, plain.At(5, -2).A)

	cfg.DrawArrows = true
	cfg.ArrowStep = 5
	cfg.ArrowLength = 4
	cfg.ArrowThickness = 1
	arrow := raster.New(g)
	withArrow := DrawTrace(arrow, tr, charges, cfg)
	assert.Equal(t, tr.Steps-1+2*cfg.ArrowLength, withArrow)
	assert.Equal(t, cfg.Palette.Line, arrow.At(5, -2))
	assert.Equal(t, cfg.Palette.Line, arrow.At(5, 1))

	cfg.ArrowThickness = 3
	thick := raster.New(g)
	assert.Greater(t, DrawTrace(thick, tr, charges, cfg), withArrow)

	cfg.ArrowLength = 0
	none := raster.New(g)
	assert.Equal(t, tr.Steps-1, DrawTrace(none, tr, charges, cfg))
}
