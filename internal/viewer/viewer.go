// Package viewer shows a session in an ebiten window.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"

	"github.com/olivierh59500/gauss-field/internal/session"
)

const (
	// WheelStrength is the strength change per wheel notch.
	WheelStrength = 5.0
	handleRadius  = 4
)

var keymap = map[ebiten.Key]session.Action{
	ebiten.KeyF:      session.ToggleFieldLines,
	ebiten.KeyE:      session.ToggleEquipotential,
	ebiten.KeyC:      session.ToggleFieldColor,
	ebiten.KeyA:      session.ToggleArrows,
	ebiten.KeyU:      session.ToggleCulling,
	ebiten.KeyM:      session.CycleEquipotentialMode,
	ebiten.KeyV:      session.ToggleLive,
	ebiten.KeyR:      session.Rerender,
	ebiten.KeySpace:  session.Rerender,
	ebiten.KeyP:      session.SavePNG,
	ebiten.KeyS:      session.SaveScene,
	ebiten.KeyL:      session.LoadScene,
	ebiten.KeyN:      session.NextPreset,
	ebiten.KeyUp:     session.MoreLines,
	ebiten.KeyDown:   session.FewerLines,
	ebiten.KeyRight:  session.MoreSteps,
	ebiten.KeyLeft:   session.FewerSteps,
	ebiten.KeyPeriod: session.MoreRings,
	ebiten.KeyComma:  session.FewerRings,
	ebiten.KeyEqual:  session.ScaleUp,
	ebiten.KeyMinus:  session.ScaleDown,
}

// Options configures the window.
type Options struct {
	Title      string
	PixelScale int
	TPS        int
	Logger     *zap.Logger
}

// Viewer implements ebiten.Game on top of a session.
type Viewer struct {
	ctx  context.Context
	s    *session.Session
	log  *zap.Logger
	w, h int

	img     *ebiten.Image
	pix     []byte
	shown   uint64
	overlay bool
}

// New wraps s. The window itself opens in Run.
func New(ctx context.Context, s *session.Session, log *zap.Logger) *Viewer {
	if log == nil {
		log = zap.NewNop()
	}
	g := s.Grid()
	return &Viewer{
		ctx:     ctx,
		s:       s,
		log:     log,
		w:       g.DeltaX(),
		h:       g.DeltaY(),
		pix:     make([]byte, 4*g.DeltaX()*g.DeltaY()),
		overlay: true,
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, s *session.Session, opts Options) error {
	v := New(ctx, s, opts.Logger)
	scale := max(opts.PixelScale, 1)
	ebiten.SetWindowSize(v.w*scale, v.h*scale)
	ebiten.SetWindowTitle(opts.Title)
	if opts.TPS > 0 {
		ebiten.SetTPS(opts.TPS)
	}
	v.log.Info("opening window",
		zap.Int("width", v.w*scale), zap.Int("height", v.h*scale), zap.Int("pixel_scale", scale))
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// Update is called each tick by Ebitengine.
func (v *Viewer) Update() error {
	if v.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	v.handleInput()
	v.s.Frame()
	return nil
}

// Draw is called each frame by Ebitengine.
func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.img == nil {
		v.img = ebiten.NewImage(v.w, v.h)
	}
	if gen := v.s.Generation(); gen != v.shown {
		v.s.Buffer().CopyTo(v.pix)
		v.img.WritePixels(v.pix)
		v.shown = gen
	}
	screen.DrawImage(v.img, nil)

	if !v.overlay {
		return
	}
	if i, ok := v.s.Hovered(); ok {
		g := v.s.Grid()
		c := v.s.Charges()[i]
		sx := float32(c.Pos.X - float64(g.XMin))
		sy := float32(c.Pos.Y - float64(g.YMin))
		vector.StrokeCircle(screen, sx, sy, handleRadius, 1, session.HandleColor(c.Strength), false)
	}
	st := v.s.Stats()
	text := fmt.Sprintf("%s\n%d lines in %v", v.s.Probe().String(), st.Traces,
		(st.SampleTime + st.RasterTime).Round(time.Millisecond))
	if msg := v.s.Status(); msg != "" {
		text += "\n" + msg
	}
	ebitenutil.DebugPrint(screen, text)
}

// Layout keeps one logical pixel per grid cell; the window scales it.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.w, v.h
}

func (v *Viewer) handleInput() {
	for key, action := range keymap {
		if inpututil.IsKeyJustPressed(key) {
			_ = v.s.Apply(action)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.overlay = !v.overlay
	}

	mx, my := ebiten.CursorPosition()
	p := session.CellAt(v.s.Grid(), mx, my)
	v.s.SetCursor(p)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		v.s.BeginDrag(p)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		v.s.EndDrag()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		v.s.DragTo(p)
	}

	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		v.s.AdjustStrength(p, wheelY*WheelStrength)
	}
}
