package geography

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgrid"
)

func TestApplyNoiseErosionSmoothingProducesFiniteElevation(t *testing.T) {
	grid, _ := worldgrid.NewGrid(30, 30)
	base := worldgrid.NewFieldFilled(grid, 100.0)
	r := rand.New(rand.NewSource(9))

	elevation := ApplyNoiseErosionSmoothing(grid, base, DefaultErosionParams(grid, 1.0), r)

	assert.Len(t, elevation.Data, grid.Cells())
	for _, v := range elevation.Data {
		assert.False(t, math.IsNaN(v))
	}
}

func TestDiffuseSmoothsASingleSpike(t *testing.T) {
	grid, _ := worldgrid.NewGrid(5, 5)
	field := worldgrid.NewField[float64](grid)
	field.Set(2, 2, 100)

	out := diffuse(grid, field)

	assert.Less(t, out.At(2, 2), 100.0)
	assert.Greater(t, out.At(2, 1), 0.0)
}
