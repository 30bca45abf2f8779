package render

import (
	"math"

	"github.com/olivierh59500/gauss-field/internal/field"
	"github.com/olivierh59500/gauss-field/internal/raster"
)

// markerKernel is the center cell and its eight neighbors.
var markerKernel = [9][2]int{
	{0, 0}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// StampCharges draws a 3x3 marker on every charge, overwriting whatever is
// there: Positive for strength > 0, Negative otherwise.
func StampCharges(buf *raster.Buffer, charges field.ChargeSet, pal Palette) {
	for _, c := range charges {
		if !c.Pos.Finite() {
			continue
		}
		col := pal.Negative
		if c.Strength > 0 {
			col = pal.Positive
		}
		cx, cy := int(math.Floor(c.Pos.X)), int(math.Floor(c.Pos.Y))
		for _, k := range markerKernel {
			buf.Set(cx+k[0], cy+k[1], col)
		}
	}
}
