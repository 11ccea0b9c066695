// Package worldgrid provides the flat, non-toroidal cell grid shared by
// every generation stage: dense per-cell fields, Moore/von Neumann
// neighbor iteration, the latitude proxy, and per-stage RNG derivation.
package worldgrid

import "math"

// EdgePolicy controls how an out-of-domain neighbor is handled.
type EdgePolicy int

const (
	// EdgeClamp folds an out-of-range coordinate back onto the nearest
	// in-domain cell. Used for diffusion-style neighborhoods.
	EdgeClamp EdgePolicy = iota
	// EdgeSink reports out-of-range coordinates as absent. Used for
	// flow-style neighborhoods, where off-grid is a drain.
	EdgeSink
)

// Grid describes the W×H cell lattice. It carries no field data itself;
// Field[T] values are indexed against it.
type Grid struct {
	Width  int
	Height int
}

// NewGrid constructs a Grid, returning false if either dimension is not
// strictly positive.
func NewGrid(width, height int) (Grid, bool) {
	if width <= 0 || height <= 0 {
		return Grid{}, false
	}
	return Grid{Width: width, Height: height}, true
}

// Cells returns the total cell count, W*H.
func (g Grid) Cells() int { return g.Width * g.Height }

// InBounds reports whether (x,y) is a valid cell coordinate.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index maps (x,y) to the row-major offset used by every Field.
func (g Grid) Index(x, y int) int { return y*g.Width + x }

// Coord maps a row-major offset back to (x,y).
func (g Grid) Coord(idx int) (x, y int) {
	return idx % g.Width, idx / g.Width
}

// Latitude returns the latitude proxy for row y: linear in [-1,+1], with
// y=0 at one polar edge and y=Height-1 at the other. No spherical
// correction is applied, per the flat-grid data model.
func (g Grid) Latitude(y int) float64 {
	if g.Height <= 1 {
		return 0
	}
	return 2*float64(y)/float64(g.Height-1) - 1
}

// EquatorDistance returns |y - H/2|, the distance in rows from the
// equator band.
func (g Grid) EquatorDistance(y int) float64 {
	return math.Abs(float64(y) - float64(g.Height)/2)
}

// Moore8 lists the eight relative offsets of the Moore (8-connected)
// neighborhood, starting north and proceeding clockwise. Flow-direction
// codes elsewhere in the pipeline index into this fixed order so that
// tie-breaking stays deterministic across reimplementations.
var Moore8 = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// VonNeumann4 lists the four relative offsets of the 4-connected
// neighborhood, in the same clockwise-from-north order as Moore8's
// axis-aligned entries.
var VonNeumann4 = [4][2]int{
	{0, -1}, {1, 0}, {0, 1}, {-1, 0},
}

// Neighbor8 resolves the idx'th Moore neighbor of (x,y) under policy.
// ok is false when the neighbor falls off the grid under EdgeSink.
func (g Grid) Neighbor8(x, y, idx int, policy EdgePolicy) (nx, ny int, ok bool) {
	off := Moore8[idx%8]
	return g.resolve(x+off[0], y+off[1], policy)
}

// Neighbor4 resolves the idx'th von Neumann neighbor of (x,y).
func (g Grid) Neighbor4(x, y, idx int, policy EdgePolicy) (nx, ny int, ok bool) {
	off := VonNeumann4[idx%4]
	return g.resolve(x+off[0], y+off[1], policy)
}

func (g Grid) resolve(x, y int, policy EdgePolicy) (nx, ny int, ok bool) {
	if g.InBounds(x, y) {
		return x, y, true
	}
	if policy == EdgeSink {
		return 0, 0, false
	}
	return clampInt(x, 0, g.Width-1), clampInt(y, 0, g.Height-1), true
}

// EachNeighbor8 invokes fn for every in-domain Moore neighbor of (x,y),
// in fixed clockwise order, passing the Moore8 index so callers can
// encode flow_dir deterministically.
func (g Grid) EachNeighbor8(x, y int, policy EdgePolicy, fn func(idx, nx, ny int)) {
	for i := range Moore8 {
		if nx, ny, ok := g.Neighbor8(x, y, i, policy); ok {
			fn(i, nx, ny)
		}
	}
}

// EachNeighbor4 invokes fn for every in-domain von Neumann neighbor of
// (x,y), in fixed clockwise order.
func (g Grid) EachNeighbor4(x, y int, policy EdgePolicy, fn func(idx, nx, ny int)) {
	for i := range VonNeumann4 {
		if nx, ny, ok := g.Neighbor4(x, y, i, policy); ok {
			fn(i, nx, ny)
		}
	}
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
