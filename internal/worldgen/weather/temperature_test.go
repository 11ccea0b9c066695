package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgrid"
)

func TestComputeTemperatureColderAtPolesThanEquator(t *testing.T) {
	grid, _ := worldgrid.NewGrid(4, 101)
	elevation := worldgrid.NewField[float64](grid)
	isOcean := worldgrid.NewField[bool](grid)
	params := DefaultTemperatureParams()

	temperature := ComputeTemperature(grid, elevation, 0, isOcean, params)

	equator := temperature.At(0, 50)
	pole := temperature.At(0, 0)
	assert.Greater(t, equator, pole)
}

func TestComputeTemperatureCoolsWithElevation(t *testing.T) {
	grid, _ := worldgrid.NewGrid(2, 1)
	elevation := worldgrid.NewField[float64](grid)
	elevation.Set(1, 0, 3000)
	isOcean := worldgrid.NewField[bool](grid)
	params := DefaultTemperatureParams()

	temperature := ComputeTemperature(grid, elevation, 0, isOcean, params)

	assert.Greater(t, temperature.At(0, 0), temperature.At(1, 0))
}
