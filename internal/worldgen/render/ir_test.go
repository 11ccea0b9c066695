package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldgen/internal/worldgen/geography"
	"worldgen/internal/worldgen/pipeline"
	"worldgen/internal/worldgrid"
)

func TestBuildIRFlattensFieldsRowMajor(t *testing.T) {
	grid, ok := worldgrid.NewGrid(4, 3)
	require.True(t, ok)
	world := geography.NewWorld(grid)
	world.Elevation = worldgrid.NewField[float64](grid)
	world.Elevation.Set(2, 1, 123.456789)
	world.Temperature = worldgrid.NewField[float64](grid)
	world.Rainfall = worldgrid.NewField[float64](grid)
	world.PlateID = worldgrid.NewField[int](grid)
	world.PlateID.Set(2, 1, 5)
	world.BiomeField = worldgrid.NewFieldFilled(grid, geography.BiomeDesert)
	world.FlowAccum = worldgrid.NewField[float64](grid)
	world.RiverFlag = worldgrid.NewField[bool](grid)
	world.SeaLevel = -42.0
	world.Plates = []geography.Plate{{ID: 0, Type: geography.PlateContinental, SeedX: 1, SeedY: 2, VelX: 0.1, VelY: -0.2}}

	cfg := pipeline.Config{Width: 4, Height: 3, Seed: 7, Water: 0.6, Plates: 1, Scale: 1.0, RainIntensity: 1.0, RiverPercentile: 0.98}

	ir := BuildIR(world, cfg)

	assert.Equal(t, 4, ir.Width)
	assert.Equal(t, 3, ir.Height)
	assert.Equal(t, -42.0, ir.SeaLevel)
	require.Len(t, ir.Plates, 1)
	assert.Equal(t, "continental", ir.Plates[0].Type)

	idx := grid.Index(2, 1)
	assert.InDelta(t, 123.456789, ir.Cells.Elevation[idx], 1e-6)
	assert.Equal(t, 5, ir.Cells.PlateID[idx])
	assert.Equal(t, "desert", ir.Cells.Biome[0])
}

func TestEncodeIRRoundTripsThroughJSON(t *testing.T) {
	grid, ok := worldgrid.NewGrid(2, 2)
	require.True(t, ok)
	world := geography.NewWorld(grid)
	world.Elevation = worldgrid.NewField[float64](grid)
	world.Temperature = worldgrid.NewField[float64](grid)
	world.Rainfall = worldgrid.NewField[float64](grid)
	world.PlateID = worldgrid.NewField[int](grid)
	world.BiomeField = worldgrid.NewFieldFilled(grid, geography.BiomeOcean)
	world.FlowAccum = worldgrid.NewField[float64](grid)
	world.RiverFlag = worldgrid.NewField[bool](grid)
	cfg := pipeline.Config{Width: 2, Height: 2, Seed: 1, Plates: 1}

	var buf bytes.Buffer
	require.NoError(t, EncodeIR(world, cfg, &buf))

	var decoded IR
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, irVersion, decoded.Version)
	assert.Len(t, decoded.Cells.Biome, 4)
}
