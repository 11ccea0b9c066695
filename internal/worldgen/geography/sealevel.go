package geography

import (
	"sort"

	"worldgen/internal/worldgrid"
)

// ComputeSeaLevel chooses a sea_level scalar so that the fraction of
// cells with elevation below it equals waterFrac (S4). It sorts a copy of
// the elevations once (O(N log N)) and reads sea_level directly off the
// sorted distribution at index waterFrac*N; no iterative search is run.
func ComputeSeaLevel(elevation worldgrid.Field[float64], waterFrac float64) float64 {
	sorted := make([]float64, len(elevation.Data))
	copy(sorted, elevation.Data)
	sort.Float64s(sorted)

	target := int(waterFrac * float64(len(sorted)))
	if target <= 0 {
		return sorted[0] - 1
	}
	if target >= len(sorted) {
		return sorted[len(sorted)-1] + 1
	}
	// The midpoint of sorted[target-1] and sorted[target] puts exactly
	// `target` cells strictly below sea_level when those two values
	// differ; when they are equal, cells of that value are not below it.
	return sorted[target-1] + (sorted[target]-sorted[target-1])/2
}

// ComputeOceanMask derives is_ocean (S4): a cell is ocean iff its
// elevation is below sea_level AND it is 4-connected to a grid edge
// through other below-sea-level cells, so below-sea-level basins fully
// enclosed by land are left as inland lakes for hydrology to fill later.
func ComputeOceanMask(grid worldgrid.Grid, elevation worldgrid.Field[float64], seaLevel float64) worldgrid.Field[bool] {
	isOcean := worldgrid.NewField[bool](grid)
	visited := worldgrid.NewField[bool](grid)

	queue := make([]int, 0, grid.Width*2+grid.Height*2)
	push := func(x, y int) {
		if elevation.At(x, y) >= seaLevel || visited.At(x, y) {
			return
		}
		visited.Set(x, y, true)
		queue = append(queue, grid.Index(x, y))
	}

	for x := 0; x < grid.Width; x++ {
		push(x, 0)
		push(x, grid.Height-1)
	}
	for y := 0; y < grid.Height; y++ {
		push(0, y)
		push(grid.Width-1, y)
	}

	for len(queue) > 0 {
		idx := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := grid.Coord(idx)
		isOcean.Set(x, y, true)
		grid.EachNeighbor4(x, y, worldgrid.EdgeSink, func(_ int, nx, ny int) {
			push(nx, ny)
		})
	}

	return isOcean
}
