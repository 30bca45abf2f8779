// Package termview previews a session in a terminal using half-block
// characters: each cell shows two vertically stacked pixels.
package termview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/olivierh59500/gauss-field/internal/raster"
	"github.com/olivierh59500/gauss-field/internal/session"
)

const (
	halfBlock    = '▀'
	statusLines  = 2
	strengthStep = 5.0

	// FrameInterval is the redraw period of Run.
	FrameInterval = 33 * time.Millisecond
)

var runemap = map[rune]session.Action{
	'f': session.ToggleFieldLines,
	'e': session.ToggleEquipotential,
	'c': session.ToggleFieldColor,
	'a': session.ToggleArrows,
	'u': session.ToggleCulling,
	'm': session.CycleEquipotentialMode,
	'v': session.ToggleLive,
	'r': session.Rerender,
	' ': session.Rerender,
	'p': session.SavePNG,
	'w': session.SaveScene,
	'o': session.LoadScene,
	'n': session.NextPreset,
	']': session.MoreLines,
	'[': session.FewerLines,
	'}': session.MoreSteps,
	'{': session.FewerSteps,
	'>': session.MoreRings,
	'<': session.FewerRings,
	'+': session.ScaleUp,
	'-': session.ScaleDown,
}

// View draws a session onto a tcell screen.
type View struct {
	screen tcell.Screen
	s      *session.Session
	log    *zap.Logger
}

// New binds s to an initialized screen.
func New(screen tcell.Screen, s *session.Session, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{screen: screen, s: s, log: log}
}

// Run opens the terminal, runs the event loop and restores the terminal
// on return.
func Run(ctx context.Context, s *session.Session, log *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("termview: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("termview: %w", err)
	}
	defer screen.Fini()
	return New(screen, s, log).Loop(ctx, FrameInterval)
}

// Loop handles events and redraws every interval until the user quits or
// ctx is done. The event reader exits once the screen is finalized or on
// the first event after Loop returns.
func (v *View) Loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case <-done:
				return
			default:
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	g := v.s.Grid()
	v.s.SetCursor(session.CellAt(g, g.DeltaX()/2, g.DeltaY()/2))
	v.s.Frame()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			v.s.Frame()
			v.Draw()
		}
	}
}

// HandleEvent applies one event and reports whether the loop should go on.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.move(-1, 0)
		case tcell.KeyRight:
			v.move(1, 0)
		case tcell.KeyUp:
			v.move(0, -1)
		case tcell.KeyDown:
			v.move(0, 1)
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'h':
		v.move(-1, 0)
	case 'l':
		v.move(1, 0)
	case 'k':
		v.move(0, -1)
	case 'j':
		v.move(0, 1)
	case 'g':
		if _, ok := v.s.Dragging(); ok {
			v.s.EndDrag()
		} else {
			v.s.BeginDrag(v.s.Cursor())
		}
	case 'x':
		v.s.AdjustStrength(v.s.Cursor(), strengthStep)
	case 'z':
		v.s.AdjustStrength(v.s.Cursor(), -strengthStep)
	default:
		if a, ok := runemap[r]; ok {
			if err := v.s.Apply(a); err != nil {
				v.log.Debug("action failed", zap.Stringer("action", a), zap.Error(err))
			}
		}
	}
	return true
}

// move shifts the cursor by one terminal cell and drags any grabbed charge.
func (v *View) move(dx, dy int) {
	cols, rows := v.imageSize()
	g := v.s.Grid()
	sx, sy := 1, 1
	if cols > 0 {
		sx = max(g.DeltaX()/cols, 1)
	}
	if rows > 0 {
		sy = max(g.DeltaY()/rows, 1)
	}
	v.s.MoveCursor(dx*sx, dy*sy*2)
	v.s.DragTo(v.s.Cursor())
}

// imageSize is the image area in pixels (cells wide, two pixels per cell
// high), fitted to the grid's aspect ratio.
func (v *View) imageSize() (int, int) {
	w, h := v.screen.Size()
	g := v.s.Grid()
	return Fit(g.DeltaX(), g.DeltaY(), w, 2*(h-statusLines))
}

// Fit scales a gw x gh image into maxW x maxH keeping its aspect ratio.
// The height is rounded down to an even number of pixels.
func Fit(gw, gh, maxW, maxH int) (int, int) {
	if gw <= 0 || gh <= 0 || maxW <= 0 || maxH <= 1 {
		return 0, 0
	}
	w, h := maxW, maxW*gh/gw
	if h > maxH {
		w, h = maxH*gw/gh, maxH
	}
	return w, h &^ 1
}

// Downsample scales the buffer to cols x rows pixels with nearest-neighbour
// sampling, row-major from the grid's YMin row.
func Downsample(buf *raster.Buffer, cols, rows int) []color.RGBA {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	src := buf.Image()
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make([]color.RGBA, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			out[j*cols+i] = dst.RGBAAt(i, j)
		}
	}
	return out
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw paints the frame, cursor and status lines.
func (v *View) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	cols, rows := v.imageSize()
	px := Downsample(v.s.Buffer(), cols, rows)
	for y := 0; y < rows/2; y++ {
		for x := 0; x < cols; x++ {
			top, bottom := px[2*y*cols+x], px[(2*y+1)*cols+x]
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			v.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	if cols > 0 && rows > 0 {
		g := v.s.Grid()
		c := v.s.Cursor()
		cx := int(c.X-float64(g.XMin)) * cols / g.DeltaX()
		cy := int(c.Y-float64(g.YMin)) * rows / g.DeltaY() / 2
		style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
		if _, ok := v.s.Dragging(); ok {
			style = style.Foreground(tcell.ColorYellow)
		}
		v.screen.SetContent(cx, cy, '+', nil, style)
	}

	probe := strings.ReplaceAll(v.s.Probe().String(), "\n", "  ")
	summary := v.s.Summary()
	if st := v.s.Status(); st != "" {
		summary += "  " + st
	}
	drawText(v.screen, 0, h-2, w, probe)
	drawText(v.screen, 0, h-1, w, summary)
	v.screen.Show()
}

func drawText(screen tcell.Screen, x, y, width int, text string) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		x++
	}
}
