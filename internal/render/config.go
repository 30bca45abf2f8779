package render

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// EquipotentialMode picks how contours are extracted.
type EquipotentialMode string

const (
	// EquipotentialThreshold marks sampled cells whose force magnitude is
	// near a ring value. Cheap, topologically noisy.
	EquipotentialThreshold EquipotentialMode = "threshold"
	// EquipotentialWalk follows the local normal of the field from a seed
	// near each charge.
	EquipotentialWalk EquipotentialMode = "walk"
)

// OverflowPolicy decides what happens when a scaled color channel exceeds 255.
type OverflowPolicy string

const (
	// OverflowClamp saturates at 255.
	OverflowClamp OverflowPolicy = "clamp"
	// OverflowWrap keeps the low 8 bits, reproducing integer truncation.
	OverflowWrap OverflowPolicy = "wrap"
)

// Palette holds the flat colors used by every pass.
type Palette struct {
	Background    color.RGBA
	Line          color.RGBA
	Equipotential color.RGBA
	Positive      color.RGBA
	Negative      color.RGBA
}

// DefaultPalette is black background, white lines, green contours, red
// sources and blue sinks.
func DefaultPalette() Palette {
	return Palette{
		Background:    color.RGBA{0, 0, 0, 255},
		Line:          color.RGBA{255, 255, 255, 255},
		Equipotential: color.RGBA{0, 255, 0, 255},
		Positive:      color.RGBA{255, 0, 0, 255},
		Negative:      color.RGBA{0, 0, 255, 255},
	}
}

// Config is the per-frame render record. The renderer never modifies it.
type Config struct {
	DrawFieldLines    bool
	DrawEquipotential bool
	ColorizeField     bool
	DrawArrows        bool
	SymmetryCulling   bool

	Equipotential EquipotentialMode

	// Field lines.
	LinesPerCharge int
	SeedDistance   float64
	SeedTolerance  float64
	StepSize       float64
	MaxSteps       int

	// Threshold contours.
	RingCount int
	FirstRing float64
	Epsilon   float64

	// Walked contours.
	RingSpacing float64
	WalkSteps   int
	WalkScale   float64

	// Arrowheads.
	ArrowStep      int
	ArrowLength    int
	ArrowThickness int

	// Field color map.
	ColorScale float64
	Overflow   OverflowPolicy

	// Workers > 1 samples the grid concurrently.
	Workers int

	Palette Palette
}

// DefaultConfig mirrors the interactive defaults: 16 lines per charge,
// 100 integration steps, one threshold ring at magnitude 1.
func DefaultConfig() Config {
	return Config{
		DrawFieldLines:    true,
		DrawEquipotential: true,
		ColorizeField:     true,
		DrawArrows:        false,
		SymmetryCulling:   false,
		Equipotential:     EquipotentialThreshold,
		LinesPerCharge:    16,
		SeedDistance:      2,
		SeedTolerance:     0.05,
		StepSize:          1,
		MaxSteps:          100,
		RingCount:         1,
		FirstRing:         1,
		Epsilon:           0.1,
		RingSpacing:       10,
		WalkSteps:         2000,
		WalkScale:         0.5,
		ArrowStep:         20,
		ArrowLength:       4,
		ArrowThickness:    1,
		ColorScale:        100,
		Overflow:          OverflowClamp,
		Workers:           1,
		Palette:           DefaultPalette(),
	}
}

// ParseEquipotentialMode accepts "threshold" or "walk", case-insensitively.
func ParseEquipotentialMode(s string) (EquipotentialMode, error) {
	switch m := EquipotentialMode(strings.ToLower(strings.TrimSpace(s))); m {
	case EquipotentialThreshold, EquipotentialWalk:
		return m, nil
	}
	return "", fmt.Errorf("unknown equipotential mode %q (want threshold or walk)", s)
}

// ParseOverflowPolicy accepts "clamp" or "wrap", case-insensitively.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case OverflowClamp, OverflowWrap:
		return p, nil
	}
	return "", fmt.Errorf("unknown overflow policy %q (want clamp or wrap)", s)
}

// Upper bounds on per-pass work counts.
const (
	MaxLinesPerCharge = 360
	MaxTraceSteps     = 1 << 16
)

// Validate checks the documented safe ranges: bounded non-negative counts
// and distances, positive scales. Render tolerates anything, but values
// outside these ranges draw nothing useful or never finish.
func (c Config) Validate() error {
	var errs []error
	nonNeg := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative, got %v", name, v))
		}
	}
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	nonNeg("lines_per_charge", float64(c.LinesPerCharge))
	nonNeg("seed_distance", c.SeedDistance)
	nonNeg("seed_tolerance", c.SeedTolerance)
	positive("step_size", c.StepSize)
	nonNeg("max_steps", float64(c.MaxSteps))
	nonNeg("ring_count", float64(c.RingCount))
	nonNeg("first_ring", c.FirstRing)
	nonNeg("epsilon", c.Epsilon)
	nonNeg("ring_spacing", c.RingSpacing)
	nonNeg("walk_steps", float64(c.WalkSteps))
	positive("walk_scale", c.WalkScale)
	nonNeg("arrow_step", float64(c.ArrowStep))
	nonNeg("arrow_length", float64(c.ArrowLength))
	nonNeg("arrow_thickness", float64(c.ArrowThickness))
	positive("color_scale", c.ColorScale)
	nonNeg("workers", float64(c.Workers))
	atMost := func(name string, v, limit int) {
		if v > limit {
			errs = append(errs, fmt.Errorf("%s must be at most %d, got %d", name, limit, v))
		}
	}
	atMost("lines_per_charge", c.LinesPerCharge, MaxLinesPerCharge)
	atMost("max_steps", c.MaxSteps, MaxTraceSteps)
	atMost("walk_steps", c.WalkSteps, MaxTraceSteps)
	if _, err := ParseEquipotentialMode(string(c.Equipotential)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseOverflowPolicy(string(c.Overflow)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
