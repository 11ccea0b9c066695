package geography

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgrid"
)

func TestComputeSeaLevelMatchesWaterFraction(t *testing.T) {
	grid, _ := worldgrid.NewGrid(20, 20)
	elevation := worldgrid.NewField[float64](grid)
	for i := range elevation.Data {
		elevation.Data[i] = float64(i)
	}

	seaLevel := ComputeSeaLevel(elevation, 0.5)

	below := 0
	for _, v := range elevation.Data {
		if v < seaLevel {
			below++
		}
	}
	tolerance := int(math.Ceil(0.005 * float64(len(elevation.Data))))
	assert.InDelta(t, 0.5*float64(len(elevation.Data)), float64(below), float64(tolerance)+1)
}

func TestComputeOceanMaskOnlyFloodsFromEdge(t *testing.T) {
	grid, _ := worldgrid.NewGrid(10, 10)
	elevation := worldgrid.NewFieldFilled(grid, 100.0)
	// An enclosed basin in the interior, below sea level, not touching the edge.
	elevation.Set(5, 5, -10)

	isOcean := ComputeOceanMask(grid, elevation, 0)

	assert.False(t, isOcean.At(5, 5), "interior basin should not be ocean, it has no edge connection")
}

func TestComputeOceanMaskFloodsEdgeConnectedWater(t *testing.T) {
	grid, _ := worldgrid.NewGrid(10, 10)
	elevation := worldgrid.NewFieldFilled(grid, 100.0)
	for x := 0; x < 10; x++ {
		elevation.Set(x, 0, -10)
	}

	isOcean := ComputeOceanMask(grid, elevation, 0)

	for x := 0; x < 10; x++ {
		assert.True(t, isOcean.At(x, 0))
	}
}
