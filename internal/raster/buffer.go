// Package raster holds the pixel buffer the renderer writes into.
//
// Pixels are stored row-major, one color.RGBA per grid cell, with row 0 at
// the grid's YMin. The field color map writes the normalized vertical force
// component into G and the horizontal component into B; R stays 0 and A is
// opaque.
package raster

import (
	"image"
	"image/color"
	"sync"

	"github.com/olivierh59500/gauss-field/internal/field"
)

// Buffer is a caller-owned pixel grid. The renderer only writes into Pix;
// it never resizes or reallocates it.
type Buffer struct {
	Grid field.Grid
	Pix  []color.RGBA

	mu sync.Mutex
}

// New allocates a buffer covering g.
func New(g field.Grid) *Buffer {
	return &Buffer{Grid: g, Pix: make([]color.RGBA, g.Len())}
}

// Lease takes exclusive access to the buffer until the returned func runs.
func (b *Buffer) Lease() (release func()) {
	b.mu.Lock()
	return b.mu.Unlock
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.RGBA) {
	for i := range b.Pix {
		b.Pix[i] = c
	}
}

// Set writes cell (x, y) in grid coordinates. Writes outside the grid are
// dropped and reported as false.
func (b *Buffer) Set(x, y int, c color.RGBA) bool {
	i, ok := b.Grid.Index(x, y)
	if !ok || i >= len(b.Pix) {
		return false
	}
	b.Pix[i] = c
	return true
}

// Plot writes the cell containing p.
func (b *Buffer) Plot(p field.Vec2, c color.RGBA) bool {
	x, y, ok := b.Grid.Cell(p)
	if !ok {
		return false
	}
	return b.Set(x, y, c)
}

// At reads cell (x, y); off-grid reads return the zero color.
func (b *Buffer) At(x, y int) color.RGBA {
	i, ok := b.Grid.Index(x, y)
	if !ok || i >= len(b.Pix) {
		return color.RGBA{}
	}
	return b.Pix[i]
}

// Image copies the buffer into an *image.RGBA. Image row 0 is grid row YMin.
func (b *Buffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Grid.DeltaX(), b.Grid.DeltaY()))
	b.CopyTo(img.Pix)
	return img
}

// CopyTo writes the pixels as packed RGBA bytes into dst and returns the
// number of pixels copied.
func (b *Buffer) CopyTo(dst []byte) int {
	n := 0
	for i, c := range b.Pix {
		o := i * 4
		if o+3 >= len(dst) {
			break
		}
		dst[o], dst[o+1], dst[o+2], dst[o+3] = c.R, c.G, c.B, c.A
		n++
	}
	return n
}
