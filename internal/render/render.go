// Package render turns a charge set into pixels: field color map,
// equipotential contours, field lines and charge markers.
package render

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

// Stats summarizes one render pass.
type Stats struct {
	Sampled       bool
	Colorized     bool
	ContourPixels int
	Traces        int
	TraceSteps    int
	SampleTime    time.Duration
	RasterTime    time.Duration
}

// Renderer runs render passes and reports their timings to its logger.
// It keeps no state between calls.
type Renderer struct {
	log *zap.Logger
}

// NewRenderer returns a Renderer logging to log; nil discards.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Render draws one frame of charges into buf. The buffer is leased for the
// whole pass; charges and cfg are only read.
func Render(buf *raster.Buffer, charges field.ChargeSet, cfg Config) {
	NewRenderer(nil).Render(buf, charges, cfg)
}

func needsSample(cfg Config) bool {
	return cfg.ColorizeField || (cfg.DrawEquipotential && cfg.Equipotential != EquipotentialWalk)
}

func (r *Renderer) sample(g field.Grid, charges field.ChargeSet, workers int) *field.SampledField {
	if workers > 1 {
		s, err := field.SampleParallel(context.Background(), g, charges, workers)
		if err == nil {
			return s
		}
		r.log.Warn("parallel sampling failed, falling back", zap.Error(err))
	}
	return field.Sample(g, charges)
}

// Render is the logging variant of the package-level Render.
func (r *Renderer) Render(buf *raster.Buffer, charges field.ChargeSet, cfg Config) Stats {
	release := buf.Lease()
	defer release()

	var st Stats
	var sampled *field.SampledField
	start := time.Now()
	if needsSample(cfg) {
		sampled = r.sample(buf.Grid, charges, cfg.Workers)
		st.Sampled = true
	}
	st.SampleTime = time.Since(start)

	start = time.Now()
	if cfg.ColorizeField {
		st.Colorized = ColorizeField(buf, sampled, cfg)
		if !st.Colorized {
			r.log.Debug("field has no extent, using background")
		}
	} else {
		buf.Fill(cfg.Palette.Background)
	}

	if cfg.DrawEquipotential {
		switch cfg.Equipotential {
		case EquipotentialWalk:
			st.ContourPixels = WalkEquipotentials(buf, charges, cfg)
		default:
			st.ContourPixels = ThresholdEquipotentials(buf, sampled, cfg)
		}
	}

	if cfg.DrawFieldLines {
		traces := DrawFieldLines(buf, charges, cfg)
		st.Traces = len(traces)
		for _, tr := range traces {
			st.TraceSteps += tr.Steps
		}
	}

	StampCharges(buf, charges, cfg.Palette)
	st.RasterTime = time.Since(start)

	r.log.Debug("render pass",
		zap.Int("charges", len(charges)),
		zap.Duration("sample", st.SampleTime),
		zap.Duration("raster", st.RasterTime),
		zap.Int("traces", st.Traces),
		zap.Int("trace_steps", st.TraceSteps),
		zap.Int("contour_pixels", st.ContourPixels),
	)
	return st
}
