// Package session holds the interactive state shared by the window and the
// terminal preview: the charge set, render toggles, the probe cursor and
// render-on-demand bookkeeping.
package session

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
	"github.com/olivierh59500/gauss-field/internal/render"
)

const (
	// MaxStrength bounds interactive strength edits.
	MaxStrength = 100.0

	// PickRadius is how close, in grid units, a cursor must be to grab a charge.
	PickRadius = 6.0

	maxLines  = 32
	maxSteps  = 1000
	maxScale  = 10000.0
	minScale  = 1.0
	maxRings  = 10
	stepDelta = 50
)

// Options configures a new Session.
type Options struct {
	Grid      field.Grid
	Charges   field.ChargeSet
	Render    render.Config
	Live      bool
	PNGPath   string
	ScenePath string
	Logger    *zap.Logger

	// LiveRate caps live re-renders per second; zero means every frame.
	LiveRate float64
}

// Session is driven from a single goroutine (the UI loop).
type Session struct {
	id       string
	log      *zap.Logger
	renderer *render.Renderer
	limiter  *rate.Limiter

	cfg     render.Config
	charges field.ChargeSet
	buf     *raster.Buffer

	live   bool
	dirty  bool
	gen    uint64
	last   render.Stats
	preset int

	cursor   field.Vec2
	dragging int

	pngPath   string
	scenePath string
	status    string
}

// New creates a session. The first Frame always renders.
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	pngPath := opts.PNGPath
	if pngPath == "" {
		pngPath = "out.png"
	}
	scenePath := opts.ScenePath
	if scenePath == "" {
		scenePath = "scene.json"
	}
	limit := rate.Inf
	if opts.LiveRate > 0 {
		limit = rate.Limit(opts.LiveRate)
	}
	id := uuid.NewString()
	log = log.With(zap.String("session_id", id))
	return &Session{
		id:        id,
		log:       log,
		renderer:  render.NewRenderer(log.Named("render")),
		limiter:   rate.NewLimiter(limit, 1),
		cfg:       opts.Render,
		charges:   opts.Charges.Clone(),
		buf:       raster.New(opts.Grid),
		live:      opts.Live,
		dirty:     true,
		preset:    -1,
		dragging:  -1,
		pngPath:   pngPath,
		scenePath: scenePath,
	}
}

// Frame re-renders when a render was requested, or in live mode when the
// live rate allows it, and reports whether the buffer changed.
func (s *Session) Frame() bool {
	if !s.dirty && !(s.live && s.limiter.Allow()) {
		return false
	}
	s.last = s.renderer.Render(s.buf, s.charges, s.cfg)
	s.dirty = false
	s.gen++
	return true
}

// ID identifies the session in logs and saved scenes.
func (s *Session) ID() string { return s.id }

// Generation counts completed renders.
func (s *Session) Generation() uint64 { return s.gen }

// Buffer is the frame buffer Frame renders into.
func (s *Session) Buffer() *raster.Buffer { return s.buf }

// Grid is the sampled region.
func (s *Session) Grid() field.Grid { return s.buf.Grid }

// Config returns the current render record.
func (s *Session) Config() render.Config { return s.cfg }

// Charges returns a copy of the charge set.
func (s *Session) Charges() field.ChargeSet { return s.charges.Clone() }

// Live reports whether every frame re-renders.
func (s *Session) Live() bool { return s.live }

// Stats returns the statistics of the last render.
func (s *Session) Stats() render.Stats { return s.last }

// Status is the message left by the last file action.
func (s *Session) Status() string { return s.status }

// RequestRender schedules a render for the next Frame.
func (s *Session) RequestRender() { s.dirty = true }

// SetCharges replaces the charge set. It takes effect on the next render.
func (s *Session) SetCharges(cs field.ChargeSet) {
	s.charges = cs.Clone()
	s.dragging = -1
}

// SetCursor moves the probe cursor to grid point p.
func (s *Session) SetCursor(p field.Vec2) { s.cursor = p }

// Cursor returns the probe cursor.
func (s *Session) Cursor() field.Vec2 { return s.cursor }

// MoveCursor shifts the cursor by (dx, dy) cells, staying on the grid.
func (s *Session) MoveCursor(dx, dy int) {
	g := s.buf.Grid
	x := clampInt(int(s.cursor.X)+dx, g.XMin, g.XMax)
	y := clampInt(int(s.cursor.Y)+dy, g.YMin, g.YMax)
	s.cursor = field.V(float64(x), float64(y))
}

// CellAt maps a position in buffer pixels (column, row from the top-left)
// to its grid point.
func CellAt(g field.Grid, col, row int) field.Vec2 {
	return field.V(float64(g.XMin+col), float64(g.YMin+row))
}

// Probe is the field evaluated at one point.
type Probe struct {
	Pos       field.Vec2
	Force     field.Vec2
	Magnitude float64
	Potential float64
}

// ProbeAt evaluates charges at p.
func ProbeAt(p field.Vec2, charges field.ChargeSet) Probe {
	f := field.Force(p, charges)
	return Probe{Pos: p, Force: f, Magnitude: f.Len(), Potential: field.Potential(p, charges)}
}

// String formats the probe the way the readout shows it.
func (p Probe) String() string {
	return fmt.Sprintf("x:%d y:%d\n%.3fi%+.3fj |F|=%.3f V=%.3f",
		int(p.Pos.X), int(p.Pos.Y), p.Force.X, p.Force.Y, p.Magnitude, p.Potential)
}

// Probe evaluates the live charge set under the cursor.
func (s *Session) Probe() Probe { return ProbeAt(s.cursor, s.charges) }

// Nearest finds the charge closest to p within radius.
func (s *Session) Nearest(p field.Vec2, radius float64) (int, bool) {
	best, bestD := -1, radius*radius
	for i, c := range s.charges {
		if d := c.Pos.DistSq(p); d <= bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}

// BeginDrag grabs the charge nearest to p, if any.
func (s *Session) BeginDrag(p field.Vec2) bool {
	i, ok := s.Nearest(p, PickRadius)
	if ok {
		s.dragging = i
	}
	return ok
}

// Dragging returns the index of the grabbed charge.
func (s *Session) Dragging() (int, bool) { return s.dragging, s.dragging >= 0 }

// DragTo moves the grabbed charge to p, snapped to the grid.
func (s *Session) DragTo(p field.Vec2) {
	if s.dragging < 0 || s.dragging >= len(s.charges) {
		return
	}
	s.charges[s.dragging].Pos = field.V(math.Round(p.X), math.Round(p.Y))
}

// Hovered is the grabbed charge, or else the one under the cursor.
func (s *Session) Hovered() (int, bool) {
	if s.dragging >= 0 {
		return s.dragging, true
	}
	return s.Nearest(s.cursor, PickRadius)
}

// EndDrag releases the grabbed charge.
func (s *Session) EndDrag() { s.dragging = -1 }

// AdjustStrength adds delta to the charge nearest to p, keeping the
// strength within MaxStrength and away from zero.
func (s *Session) AdjustStrength(p field.Vec2, delta float64) bool {
	i, ok := s.Nearest(p, PickRadius)
	if !ok {
		return false
	}
	q := s.charges[i].Strength + delta
	q = math.Max(-MaxStrength, math.Min(MaxStrength, q))
	if q == 0 {
		q = math.Copysign(1, delta)
	}
	s.charges[i].Strength = q
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
