package geography

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgrid"
)

// Given a heightmap with a closed interior pit below its rim but above
// sea level, when priority-flood runs, then the pit is raised to drain
// toward the rim and marked as a lake.
func TestPriorityFlood_GivenClosedPit_WhenFlooded_ThenRaisedAndMarkedLake(t *testing.T) {
	grid, _ := worldgrid.NewGrid(7, 7)
	elevation := worldgrid.NewFieldFilled(grid, 100.0)
	elevation.Set(3, 3, 10) // deep interior pit
	isOcean := worldgrid.NewField[bool](grid)
	for x := 0; x < 7; x++ {
		isOcean.Set(x, 0, true)
	}

	hydro, lake := PriorityFlood(grid, elevation, isOcean)

	assert.True(t, lake.At(3, 3))
	assert.Greater(t, hydro.At(3, 3), elevation.At(3, 3))
}

// Given a filled heightmap, when flow directions are computed, then
// every land cell's flow_dir points to a strictly lower hydro_elevation
// neighbor.
func TestComputeFlowDirections_GivenFilledSurface_WhenComputed_ThenEveryLandCellDescends(t *testing.T) {
	grid, _ := worldgrid.NewGrid(12, 12)
	elevation := worldgrid.NewField[float64](grid)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			elevation.Set(x, y, float64(x+y))
		}
	}
	isOcean := worldgrid.NewField[bool](grid)
	for y := 0; y < grid.Height; y++ {
		isOcean.Set(0, y, true)
	}

	hydro, _ := PriorityFlood(grid, elevation, isOcean)
	flowDir := ComputeFlowDirections(grid, hydro, isOcean)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if isOcean.At(x, y) {
				assert.Equal(t, Sink, flowDir.At(x, y))
				continue
			}
			dir := flowDir.At(x, y)
			assert.NotEqual(t, Sink, dir, "every land cell on a monotone slope should find a descent")
			nx, ny, ok := grid.Neighbor8(x, y, int(dir), worldgrid.EdgeSink)
			assert.True(t, ok)
			assert.Less(t, hydro.At(nx, ny), hydro.At(x, y))
		}
	}
}

func TestComputeFlowAccumulationIsAtLeastRainfall(t *testing.T) {
	grid, _ := worldgrid.NewGrid(10, 10)
	elevation := worldgrid.NewField[float64](grid)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			elevation.Set(x, y, float64(x+y))
		}
	}
	isOcean := worldgrid.NewField[bool](grid)
	for y := 0; y < grid.Height; y++ {
		isOcean.Set(0, y, true)
	}
	rainfall := worldgrid.NewFieldFilled(grid, 5.0)

	hydro, _ := PriorityFlood(grid, elevation, isOcean)
	flowDir := ComputeFlowDirections(grid, hydro, isOcean)
	flowAccum := ComputeFlowAccumulation(grid, hydro, flowDir, rainfall, isOcean)

	for i, v := range flowAccum.Data {
		x, y := grid.Coord(i)
		if !isOcean.At(x, y) {
			assert.GreaterOrEqual(t, v, rainfall.Data[i])
		}
	}
}

func TestComputeRiverFlagRespectsPercentile(t *testing.T) {
	grid, _ := worldgrid.NewGrid(10, 1)
	flowAccum := worldgrid.NewField[float64](grid)
	for i := range flowAccum.Data {
		flowAccum.Data[i] = float64(i)
	}
	isOcean := worldgrid.NewField[bool](grid)

	riverFlag := ComputeRiverFlag(grid, flowAccum, isOcean, 0.9)

	count := 0
	for _, v := range riverFlag.Data {
		if v {
			count++
		}
	}
	assert.LessOrEqual(t, count, 2)
}
