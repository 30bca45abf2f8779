package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-9

func TestForceSingleCharge(t *testing.T) {
	points := []Vec2{{1, 0}, {0, -3}, {5, 7}, {-12.5, 0.25}, {100, -100}}
	for _, q := range []float64{60, -60, 0.5} {
		charges := ChargeSet{{Pos: Vec2{}, Strength: q}}
		for _, p := range points {
			f := Force(p, charges)
			want := math.Abs(q) / p.LenSq()
			assert.InDelta(t, want, f.Len(), want*1e-9, "magnitude at %v for q=%v", p, q)

			dir := p.Normalize().Scale(math.Copysign(1, q))
			got := f.Normalize()
			assert.InDelta(t, dir.X, got.X, tol)
			assert.InDelta(t, dir.Y, got.Y, tol)
		}
	}
}

func TestForceSuperposition(t *testing.T) {
	a := ChargeSet{{Pos: Vec2{-60, 0}, Strength: -60}, {Pos: Vec2{10, 30}, Strength: 15}}
	b := ChargeSet{{Pos: Vec2{60, 0}, Strength: -60}, {Pos: Vec2{0, 60}, Strength: 20}}
	all := append(a.Clone(), b...)

	for _, p := range []Vec2{{0, 0}, {3, 4}, {-50, 25}, {119, -119}, {0.5, 0.5}} {
		sum := Force(p, a).Add(Force(p, b))
		got := Force(p, all)
		assert.InDelta(t, sum.X, got.X, 1e-12)
		assert.InDelta(t, sum.Y, got.Y, 1e-12)
	}
}

func TestForceAtChargeIsZero(t *testing.T) {
	charges := ChargeSet{{Pos: Vec2{-60, 0}, Strength: -60}, {Pos: Vec2{60, 0}, Strength: 60}}
	for _, c := range charges {
		f := Force(c.Pos, charges)
		assert.True(t, f.IsZero(), "force at %v should be zero, got %v", c.Pos, f)
		assert.Zero(t, Potential(c.Pos, charges))
	}
}

func TestForceDipoleMidpoint(t *testing.T) {
	const s, d = 40.0, 30.0
	charges := ChargeSet{{Pos: Vec2{-d, 0}, Strength: s}, {Pos: Vec2{d, 0}, Strength: -s}}

	f := Force(Vec2{}, charges)
	assert.InDelta(t, 0, f.Y, tol)
	assert.InDelta(t, 2*s/(d*d), f.Len(), tol)
	assert.Greater(t, f.X, 0.0, "force should point toward the negative charge")
}

func TestForceNoCharges(t *testing.T) {
	assert.True(t, Force(Vec2{1, 2}, nil).IsZero())
}

func TestPointsTowardSameSign(t *testing.T) {
	charges := ChargeSet{
		{Pos: Vec2{-60, 0}, Strength: -60},
		{Pos: Vec2{60, 0}, Strength: -60},
		{Pos: Vec2{0, 60}, Strength: 20},
	}

	t.Run("seed facing like neighbor", func(t *testing.T) {
		assert.True(t, PointsTowardSameSign(Vec2{-58, 0}, 0, charges, 0.05))
		assert.True(t, PointsTowardSameSign(Vec2{58, 0}, 1, charges, 0.05))
	})
	t.Run("seed facing away", func(t *testing.T) {
		assert.False(t, PointsTowardSameSign(Vec2{-62, 0}, 0, charges, 0.05))
	})
	t.Run("opposite sign neighbor ignored", func(t *testing.T) {
		seed := charges[2].Pos.Add(charges[0].Pos.Sub(charges[2].Pos).Normalize().Scale(2))
		assert.False(t, PointsTowardSameSign(seed, 2, charges, 0.05))
	})
	t.Run("zero tolerance never matches", func(t *testing.T) {
		assert.False(t, PointsTowardSameSign(Vec2{-58, 0}, 0, charges, 0))
	})
}

func TestCloserToOther(t *testing.T) {
	charges := ChargeSet{{Pos: Vec2{-30, 0}, Strength: 10}, {Pos: Vec2{30, 0}, Strength: -10}}

	assert.False(t, CloserToOther(Vec2{-1, 5}, 0, charges))
	assert.False(t, CloserToOther(Vec2{0, 5}, 0, charges), "on the bisector is not strictly closer")
	assert.True(t, CloserToOther(Vec2{1, 5}, 0, charges))
	assert.True(t, CloserToOther(Vec2{-1, 5}, 1, charges))

	require.False(t, CloserToOther(Vec2{7, 7}, 0, charges[:1]))
}

func TestVecHelpers(t *testing.T) {
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
	r := Vec2{1, 0}.Rotate(math.Pi / 2)
	assert.InDelta(t, 0, r.X, tol)
	assert.InDelta(t, 1, r.Y, tol)
	assert.Equal(t, Vec2{-2, 1}, Vec2{1, 2}.Perp())
	assert.Equal(t, Vec2{3, -4}, Vec2{3, 4}.MirrorX())
	assert.False(t, Vec2{math.NaN(), 0}.Finite())
}
