package field

import "math"

// Charge is a point source (Strength > 0) or sink (Strength < 0).
type Charge struct {
	Pos      Vec2    `json:"pos" mapstructure:"pos"`
	Strength float64 `json:"strength" mapstructure:"strength"`
}

// Sign returns +1 for positive charges and -1 otherwise.
func (c Charge) Sign() float64 {
	if c.Strength > 0 {
		return 1
	}
	return -1
}

// SameSign reports whether both charges are strictly positive or both
// strictly negative. Neutral charges match nothing.
func (c Charge) SameSign(o Charge) bool {
	return (c.Strength > 0 && o.Strength > 0) || (c.Strength < 0 && o.Strength < 0)
}

// ChargeSet is the ordered collection every pass reads from.
type ChargeSet []Charge

// At reports whether some charge sits exactly at p.
func (cs ChargeSet) At(p Vec2) bool {
	for _, c := range cs {
		if c.Pos == p {
			return true
		}
	}
	return false
}

// Clone returns an independent copy so callers can keep editing theirs.
func (cs ChargeSet) Clone() ChargeSet {
	out := make(ChargeSet, len(cs))
	copy(out, cs)
	return out
}

// Force returns the Coulomb superposition of all charges at p. A point
// sitting exactly on any charge yields the zero vector instead of a
// singular value.
func Force(p Vec2, charges ChargeSet) Vec2 {
	var sum Vec2
	for _, c := range charges {
		r := p.Sub(c.Pos)
		d2 := r.LenSq()
		if d2 == 0 {
			return Vec2{}
		}
		sum = sum.Add(r.Scale(c.Strength / (d2 * math.Sqrt(d2))))
	}
	return sum
}

// Potential returns sum(q/|r|) at p, zero on a charge.
func Potential(p Vec2, charges ChargeSet) float64 {
	var sum float64
	for _, c := range charges {
		d := p.Dist(c.Pos)
		if d == 0 {
			return 0
		}
		sum += c.Strength / d
	}
	return sum
}

// PointsTowardSameSign reports whether the direction from charges[owner]
// to seed matches, within tol per component, the direction toward another
// charge of the same polarity.
func PointsTowardSameSign(seed Vec2, owner int, charges ChargeSet, tol float64) bool {
	c := charges[owner]
	v1 := seed.Sub(c.Pos).Normalize()
	for i, o := range charges {
		if i == owner || !c.SameSign(o) {
			continue
		}
		v2 := o.Pos.Sub(c.Pos).Normalize()
		if v2.IsZero() {
			continue
		}
		if math.Abs(v1.X-v2.X) < tol && math.Abs(v1.Y-v2.Y) < tol {
			return true
		}
	}
	return false
}

// CloserToOther reports whether p is strictly nearer to some other charge
// than to charges[owner].
func CloserToOther(p Vec2, owner int, charges ChargeSet) bool {
	own := p.DistSq(charges[owner].Pos)
	for i, o := range charges {
		if i != owner && p.DistSq(o.Pos) < own {
			return true
		}
	}
	return false
}
