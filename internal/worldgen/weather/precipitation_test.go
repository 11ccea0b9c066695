package weather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgrid"
)

// Given a range of mountains with an ocean to its windward side, the
// windward slope should receive more rainfall than the leeward slope
// (rain shadow), matching the rain-shadow testable property.
func TestComputeRainfall_GivenMountainRange_ThenWindwardWetterThanLeeward(t *testing.T) {
	grid, _ := worldgrid.NewGrid(30, 6)
	elevation := worldgrid.NewField[float64](grid)
	isOcean := worldgrid.NewField[bool](grid)
	temperature := worldgrid.NewFieldFilled(grid, 20.0)

	for x := 0; x < 5; x++ {
		for y := 0; y < grid.Height; y++ {
			isOcean.Set(x, y, true)
			elevation.Set(x, y, -100)
		}
	}
	for x := 5; x < 30; x++ {
		for y := 0; y < grid.Height; y++ {
			elevation.Set(x, y, 0)
		}
	}
	// A mountain ridge partway across, with wind blowing west-to-east
	// (+x) so the windward slope is the western face and leeward the
	// eastern face.
	for x := 14; x < 18; x++ {
		for y := 0; y < grid.Height; y++ {
			elevation.Set(x, y, 3000)
		}
	}

	windX := worldgrid.NewFieldFilled(grid, 1.0)
	windY := worldgrid.NewField[float64](grid)

	rainfall := ComputeRainfall(grid, elevation, temperature, isOcean, windX, windY, DefaultPrecipitationParams(1.0))

	windwardSum, leewardSum := 0.0, 0.0
	for y := 0; y < grid.Height; y++ {
		for x := 9; x <= 13; x++ {
			windwardSum += rainfall.At(x, y) // approaching the ridge, moisture still fresh
		}
		for x := 19; x <= 23; x++ {
			leewardSum += rainfall.At(x, y) // past the ridge, moisture depleted by orographic rain
		}
	}

	assert.Greater(t, windwardSum, leewardSum)
}

func TestComputeRainfall_OceanCellsReceiveRainfall(t *testing.T) {
	grid, _ := worldgrid.NewGrid(12, 8)
	elevation := worldgrid.NewField[float64](grid)
	isOcean := worldgrid.NewFieldFilled(grid, true)
	for i := range elevation.Data {
		elevation.Data[i] = -200
	}
	temperature := worldgrid.NewFieldFilled(grid, 18.0)
	windX := worldgrid.NewFieldFilled(grid, 1.0)
	windY := worldgrid.NewField[float64](grid)

	rainfall := ComputeRainfall(grid, elevation, temperature, isOcean, windX, windY, DefaultPrecipitationParams(1.0))

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			assert.Greater(t, rainfall.At(x, y), 0.0)
		}
	}
}

func TestComputeRainfallProducesNoNaN(t *testing.T) {
	grid, _ := worldgrid.NewGrid(10, 10)
	elevation := worldgrid.NewField[float64](grid)
	isOcean := worldgrid.NewField[bool](grid)
	temperature := worldgrid.NewFieldFilled(grid, 15.0)
	windX, windY := ComputePrevailingWinds(grid)

	rainfall := ComputeRainfall(grid, elevation, temperature, isOcean, windX, windY, DefaultPrecipitationParams(1.0))

	for _, v := range rainfall.Data {
		assert.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
	}
}
