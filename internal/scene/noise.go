package scene

import (
	"math"

	"github.com/aquilax/go-perlin"

	"github.com/olivierh59500/gauss-field/internal/field"
)

// NoiseParams drives Perlin. Alpha, Beta and Octaves feed the noise
// generator; Spread is the mean ring radius the charges sit on and
// MaxStrength bounds |strength|.
type NoiseParams struct {
	Count       int     `mapstructure:"count" json:"count"`
	Seed        int64   `mapstructure:"seed" json:"seed"`
	Alpha       float64 `mapstructure:"alpha" json:"alpha"`
	Beta        float64 `mapstructure:"beta" json:"beta"`
	Octaves     int32   `mapstructure:"octaves" json:"octaves"`
	Frequency   float64 `mapstructure:"frequency" json:"frequency"`
	Spread      float64 `mapstructure:"spread" json:"spread"`
	MaxStrength float64 `mapstructure:"max_strength" json:"max_strength"`
}

// DefaultNoiseParams places four charges on a ring of radius 60.
func DefaultNoiseParams() NoiseParams {
	return NoiseParams{
		Count:       4,
		Seed:        1,
		Alpha:       2,
		Beta:        2,
		Octaves:     3,
		Frequency:   0.37,
		Spread:      60,
		MaxStrength: 60,
	}
}

// Perlin lays Count charges around a ring whose radius and strengths are
// perturbed by Perlin noise. Positions are snapped to whole cells. The same
// params always produce the same layout.
func Perlin(p NoiseParams) field.ChargeSet {
	if p.Count <= 0 {
		return nil
	}
	noise := perlin.NewPerlin(p.Alpha, p.Beta, p.Octaves, p.Seed)
	out := make(field.ChargeSet, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		x := float64(i)*p.Frequency + 0.5
		theta := 2 * math.Pi * float64(i) / float64(p.Count)
		radius := p.Spread * (1 + noise.Noise2D(x, 0.25))
		pos := field.Vec2{X: math.Round(radius * math.Cos(theta)), Y: math.Round(radius * math.Sin(theta))}

		strength := p.MaxStrength * clamp(2*noise.Noise2D(x, 3.75), -1, 1)
		if math.Abs(strength) < 1 {
			strength = math.Copysign(1, strength)
		}
		out = append(out, field.Charge{Pos: pos, Strength: math.Round(strength)})
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
