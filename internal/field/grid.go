package field

import "math"

// DefaultRadius gives a 241x241 grid centered on the origin.
const DefaultRadius = 120

// Grid is the inclusive integer extent [XMin,XMax] x [YMin,YMax].
type Grid struct {
	XMin int `mapstructure:"xmin" json:"xmin"`
	XMax int `mapstructure:"xmax" json:"xmax"`
	YMin int `mapstructure:"ymin" json:"ymin"`
	YMax int `mapstructure:"ymax" json:"ymax"`
}

// Square returns the grid [-radius,radius]².
func Square(radius int) Grid {
	return Grid{XMin: -radius, XMax: radius, YMin: -radius, YMax: radius}
}

func (g Grid) DeltaX() int { return g.XMax - g.XMin + 1 }
func (g Grid) DeltaY() int { return g.YMax - g.YMin + 1 }

// Len is the number of cells.
func (g Grid) Len() int {
	if g.Empty() {
		return 0
	}
	return g.DeltaX() * g.DeltaY()
}

// Empty reports an inverted extent.
func (g Grid) Empty() bool { return g.XMax < g.XMin || g.YMax < g.YMin }

// Contains reports whether p lies inside the inclusive float bounds.
// NaN coordinates are never contained.
func (g Grid) Contains(p Vec2) bool {
	return p.X >= float64(g.XMin) && p.X <= float64(g.XMax) &&
		p.Y >= float64(g.YMin) && p.Y <= float64(g.YMax)
}

// ContainsCell reports whether integer cell (x, y) is on the grid.
func (g Grid) ContainsCell(x, y int) bool {
	return x >= g.XMin && x <= g.XMax && y >= g.YMin && y <= g.YMax
}

// Cell floors p onto the integer lattice.
func (g Grid) Cell(p Vec2) (x, y int, ok bool) {
	if !g.Contains(p) {
		return 0, 0, false
	}
	x = int(math.Floor(p.X))
	y = int(math.Floor(p.Y))
	return x, y, g.ContainsCell(x, y)
}

// Index returns the row-major offset of cell (x, y); row 0 is YMin.
func (g Grid) Index(x, y int) (int, bool) {
	if !g.ContainsCell(x, y) {
		return 0, false
	}
	return (y-g.YMin)*g.DeltaX() + (x - g.XMin), true
}

// Point returns the grid-space coordinates of row-major offset i.
func (g Grid) Point(i int) Vec2 {
	dx := g.DeltaX()
	return Vec2{X: float64(i%dx + g.XMin), Y: float64(i/dx + g.YMin)}
}
