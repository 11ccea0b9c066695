package geography

import (
	"math"

	"worldgen/internal/worldgrid"
)

// boundaryTau is the relative-velocity dot-normal threshold separating
// convergent/divergent boundaries from transform ones.
const boundaryTau = 0.1

// convergenceRate is a uniform multiplier on every boundary target in
// equilibriumTarget. ComputeUplift deposits contributions in a single
// pass; there are no repeated passes.
const convergenceRate = 1.0

// boundaryCell records one plate-boundary cell discovered while scanning
// adjacent-cell pairs with differing plate_id.
type boundaryCell struct {
	x, y     int
	boundary BoundaryType
	target   float64
}

// ComputeUplift derives base_elevation from plate geometry and motion
// (S2): boundary cells are classified by relative velocity against the
// boundary normal, each boundary deposits a contribution that decays
// exponentially with distance, and every plate contributes a flat bias
// (continental positive, oceanic negative).
func ComputeUplift(grid worldgrid.Grid, plates []Plate, plateID worldgrid.Field[int]) worldgrid.Field[float64] {
	elevation := worldgrid.NewField[float64](grid)

	for i := range elevation.Data {
		x, y := grid.Coord(i)
		p := plates[plateID.At(x, y)]
		if p.Type == PlateContinental {
			elevation.Data[i] = 200
		} else {
			elevation.Data[i] = -4000
		}
	}

	boundaries := findBoundaries(grid, plates, plateID)

	lRange := math.Sqrt(float64(grid.Width*grid.Height)) / 20.0
	if lRange < 1 {
		lRange = 1
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			idx := grid.Index(x, y)
			contribution := 0.0
			for _, b := range boundaries {
				dx, dy := float64(x-b.x), float64(y-b.y)
				dist := math.Sqrt(dx*dx + dy*dy)
				contribution += b.target * math.Exp(-dist/lRange)
			}
			elevation.Data[idx] = clampElevation(elevation.Data[idx] + contribution)
		}
	}

	return elevation
}

// findBoundaries scans every 4-connected adjacent cell pair with
// differing plate_id and classifies the boundary, producing one
// boundaryCell record for each (cell, differing neighbor) pair so the
// decay pass in ComputeUplift has a cell to measure distance from. Cells
// on both sides of a boundary produce records, and a cell with several
// differing neighbors produces one record per neighbor.
func findBoundaries(grid worldgrid.Grid, plates []Plate, plateID worldgrid.Field[int]) []boundaryCell {
	var boundaries []boundaryCell
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			a := plates[plateID.At(x, y)]
			grid.EachNeighbor4(x, y, worldgrid.EdgeSink, func(_ int, nx, ny int) {
				bID := plateID.At(nx, ny)
				if bID == a.ID {
					return
				}
				b := plates[bID]
				normX, normY := normalize(float64(nx-x), float64(ny-y))
				relVx, relVy := a.VelX-b.VelX, a.VelY-b.VelY
				score := relVx*normX + relVy*normY

				kind := BoundaryTransform
				switch {
				case score < -boundaryTau:
					kind = BoundaryConvergent
				case score > boundaryTau:
					kind = BoundaryDivergent
				}

				target := equilibriumTarget(a, b, kind)
				boundaries = append(boundaries, boundaryCell{x: x, y: y, boundary: kind, target: target})
			})
		}
	}
	return boundaries
}

// equilibriumTarget returns the contribution a boundary record of the
// given kind and plate-type pairing deposits at distance zero, before
// exponential decay.
func equilibriumTarget(a, b Plate, kind BoundaryType) float64 {
	switch kind {
	case BoundaryConvergent:
		switch {
		case a.Type == PlateContinental && b.Type == PlateContinental:
			return 6000 * convergenceRate // continent-continent: high mountains
		case a.Type == PlateOceanic && b.Type == PlateOceanic:
			return -8000 * convergenceRate // oceanic-oceanic: deep trench only; no raised island arc is deposited
		default:
			return 3500 * convergenceRate // oceanic-continental coastal range
		}
	case BoundaryDivergent:
		if a.Type == PlateOceanic && b.Type == PlateOceanic {
			return -2000 * convergenceRate // mid-ocean ridge
		}
		return -500 * convergenceRate // continental rift valley
	default: // transform: mild shear, negligible vertical contribution
		return 50 * convergenceRate
	}
}

func normalize(x, y float64) (float64, float64) {
	mag := math.Sqrt(x*x + y*y)
	if mag == 0 {
		return 0, 0
	}
	return x / mag, y / mag
}

func clampElevation(v float64) float64 {
	if v > MaxElevation {
		return MaxElevation
	}
	if v < MinElevation {
		return MinElevation
	}
	return v
}
