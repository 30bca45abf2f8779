package termview

import (
	"context"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
	"github.com/olivierh59500/gauss-field/internal/render"
	"github.com/olivierh59500/gauss-field/internal/session"
)

func newTestView(t *testing.T) (*View, tcell.SimulationScreen, *session.Session) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	s := session.New(session.Options{
		Grid:    field.Square(10),
		Charges: field.ChargeSet{{Pos: field.V(0, 0), Strength: 10}},
		Render:  render.DefaultConfig(),
	})
	return New(screen, s, nil), screen, s
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestFit(t *testing.T) {
	tests := []struct {
		name           string
		gw, gh, mw, mh int
		wantW, wantH   int
	}{
		{"square into wide", 241, 241, 80, 44, 44, 44},
		{"wide into wide", 100, 50, 80, 44, 80, 40},
		{"odd height rounds down", 10, 10, 7, 100, 7, 6},
		{"no room", 10, 10, 0, 10, 0, 0},
		{"empty grid", 0, 10, 80, 44, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := Fit(tt.gw, tt.gh, tt.mw, tt.mh)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestDownsample(t *testing.T) {
	buf := raster.New(field.Grid{XMin: 0, XMax: 3, YMin: 0, YMax: 1})
	for x := 0; x < 4; x++ {
		buf.Set(x, 0, color.RGBA{uint8(x), 0, 0, 255})
		buf.Set(x, 1, color.RGBA{uint8(x), 1, 0, 255})
	}

	px := Downsample(buf, 2, 1)
	assert.Equal(t, []color.RGBA{{1, 1, 0, 255}, {3, 1, 0, 255}}, px, "samples pixel centres")

	px = Downsample(buf, 4, 2)
	require.Len(t, px, 8)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, px[0])
	assert.Equal(t, color.RGBA{3, 1, 0, 255}, px[7])

	assert.Nil(t, Downsample(buf, 0, 2))
}

func TestDraw(t *testing.T) {
	v, screen, s := newTestView(t)
	s.Frame()
	v.Draw()

	r, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, halfBlock, r)

	r, _, _, _ = screen.GetContent(20, 10)
	assert.Equal(t, '+', r, "cursor sits over the origin")

	_, _, style, _ := screen.GetContent(21, 10)
	fg, bg, _ := style.Decompose()
	pos := rgb(render.DefaultPalette().Positive)
	assert.Equal(t, pos, fg)
	assert.Equal(t, pos, bg)

	assert.True(t, strings.HasPrefix(rowText(screen, 22), "x:0 y:0"))
	assert.True(t, strings.HasPrefix(rowText(screen, 23), "lines:on(16)"))
}

func TestHandleEvent(t *testing.T) {
	v, _, s := newTestView(t)
	s.Frame()
	v.Draw()

	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))

	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'f', tcell.ModNone)))
	assert.False(t, s.Config().DrawFieldLines)

	assert.True(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Equal(t, 15.0, s.Charges()[0].Strength)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	_, grabbed := s.Dragging()
	require.True(t, grabbed)
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone))
	assert.Equal(t, field.V(1, 2), s.Cursor())
	assert.Equal(t, field.V(1, 2), s.Charges()[0].Pos)

	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	_, grabbed = s.Dragging()
	assert.False(t, grabbed)
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'h', tcell.ModNone))
	assert.Equal(t, field.V(1, 2), s.Charges()[0].Pos)
}

func TestEveryActionIsBound(t *testing.T) {
	bound := map[session.Action]bool{}
	for _, a := range runemap {
		bound[a] = true
	}
	for a := session.ToggleFieldLines; a <= session.ScaleDown; a++ {
		assert.True(t, bound[a], "no key for %s", a)
	}
}

func TestLoopQuits(t *testing.T) {
	v, screen, s := newTestView(t)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- v.Loop(context.Background(), time.Millisecond) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop on q")
	}
	assert.Equal(t, uint64(1), s.Generation())
}

func TestLoopStopsOnCancel(t *testing.T) {
	v, _, _ := newTestView(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, v.Loop(ctx, time.Millisecond))
}

func TestLoopReaderStopsAfterReturn(t *testing.T) {
	v, screen, _ := newTestView(t)
	ignore := goleak.IgnoreCurrent()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, v.Loop(ctx, time.Hour))

	// More events than the reader can buffer, with nobody left to read them.
	for i := 0; i < 120; i++ {
		screen.InjectKey(tcell.KeyF1, 0, tcell.ModNone)
	}
	goleak.VerifyNone(t, ignore)
}
