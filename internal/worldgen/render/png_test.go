package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldgen/internal/worldgen/geography"
	"worldgen/internal/worldgrid"
)

func tinyWorld(t *testing.T) *geography.World {
	t.Helper()
	grid, ok := worldgrid.NewGrid(8, 6)
	require.True(t, ok)
	world := geography.NewWorld(grid)
	world.Elevation = worldgrid.NewField[float64](grid)
	world.BiomeField = worldgrid.NewFieldFilled(grid, geography.BiomeGrassland)
	world.RiverFlag = worldgrid.NewField[bool](grid)
	world.RiverFlag.Set(3, 2, true)
	return world
}

func TestEncodePNGProducesDecodableImageOfCorrectSize(t *testing.T) {
	world := tinyWorld(t)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(world, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 8, bounds.Dx())
	assert.Equal(t, 6, bounds.Dy())
}

func TestEncodePNGPaintsRiverCellsDistinctFromLand(t *testing.T) {
	world := tinyWorld(t)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(world, &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	riverR, riverG, riverB, _ := img.At(3, 2).RGBA()
	landR, landG, landB, _ := img.At(0, 0).RGBA()

	assert.False(t, riverR == landR && riverG == landG && riverB == landB)
}
