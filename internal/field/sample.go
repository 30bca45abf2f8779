package field

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// Bounds is the running component-wise extent of the sampled vectors.
type Bounds struct {
	Min, Max Vec2
	Count    int
}

// NewBounds starts at the sentinel extremes so the first sample replaces them.
func NewBounds() Bounds {
	return Bounds{
		Min: Vec2{math.MaxFloat64, math.MaxFloat64},
		Max: Vec2{-math.MaxFloat64, -math.MaxFloat64},
	}
}

// Add widens b to include v.
func (b *Bounds) Add(v Vec2) {
	b.Min = Vec2{math.Min(b.Min.X, v.X), math.Min(b.Min.Y, v.Y)}
	b.Max = Vec2{math.Max(b.Max.X, v.X), math.Max(b.Max.Y, v.Y)}
	b.Count++
}

// Merge widens b to include everything o has seen.
func (b *Bounds) Merge(o Bounds) {
	if o.Count == 0 {
		return
	}
	b.Min = Vec2{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y)}
	b.Max = Vec2{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y)}
	b.Count += o.Count
}

// Delta is Max - Min.
func (b Bounds) Delta() Vec2 { return b.Max.Sub(b.Min) }

// Valid reports whether the bounds can normalize values: at least one sample
// and a strictly positive, finite extent on both axes.
func (b Bounds) Valid() bool {
	d := b.Delta()
	return b.Count > 0 && d.Finite() && d.X > 0 && d.Y > 0
}

// SampledField is the force evaluated at every grid cell. Cells coincident
// with a charge are not sampled: they hold the zero vector and Sampled is
// false for them.
type SampledField struct {
	Grid    Grid
	Vecs    []Vec2
	Sampled []bool
	Bounds  Bounds
}

func newSampledField(g Grid) *SampledField {
	n := g.Len()
	return &SampledField{
		Grid:    g,
		Vecs:    make([]Vec2, n),
		Sampled: make([]bool, n),
		Bounds:  NewBounds(),
	}
}

// At returns the sample for cell (x, y).
func (s *SampledField) At(x, y int) (Vec2, bool) {
	i, ok := s.Grid.Index(x, y)
	if !ok || !s.Sampled[i] {
		return Vec2{}, false
	}
	return s.Vecs[i], true
}

// sampleRows fills rows [y0, y1) and returns their bounds.
func (s *SampledField) sampleRows(y0, y1 int, charges ChargeSet) Bounds {
	b := NewBounds()
	dx := s.Grid.DeltaX()
	for row := y0; row < y1; row++ {
		for col := 0; col < dx; col++ {
			p := Vec2{float64(col + s.Grid.XMin), float64(row + s.Grid.YMin)}
			if charges.At(p) {
				continue
			}
			f := Force(p, charges)
			i := row*dx + col
			s.Vecs[i] = f
			s.Sampled[i] = true
			b.Add(f)
		}
	}
	return b
}

// Sample evaluates Force over every cell of g.
func Sample(g Grid, charges ChargeSet) *SampledField {
	s := newSampledField(g)
	if g.Empty() {
		return s
	}
	s.Bounds = s.sampleRows(0, g.DeltaY(), charges)
	return s
}

// SampleParallel is Sample split into row bands across at most workers
// goroutines. Bands write disjoint cells so the result is identical to
// Sample. The context is checked before each band starts.
func SampleParallel(ctx context.Context, g Grid, charges ChargeSet, workers int) (*SampledField, error) {
	if workers <= 1 || g.Empty() {
		return Sample(g, charges), nil
	}
	s := newSampledField(g)
	rows := g.DeltaY()
	bands := workers * 4
	if bands > rows {
		bands = rows
	}
	per := (rows + bands - 1) / bands
	partial := make([]Bounds, bands)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for band := 0; band < bands; band++ {
		y0 := band * per
		y1 := min(y0+per, rows)
		if y0 >= y1 {
			partial[band] = NewBounds()
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partial[band] = s.sampleRows(y0, y1, charges)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for _, b := range partial {
		s.Bounds.Merge(b)
	}
	return s, nil
}
