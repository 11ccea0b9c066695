package render

import (
	"encoding/json"
	"io"
	"math"

	"worldgen/internal/worldgen/geography"
	"worldgen/internal/worldgen/pipeline"
)

// irVersion is bumped whenever the IR schema's field set or encoding
// changes shape in a way that breaks older readers.
const irVersion = 1

// IR is the self-describing JSON intermediate representation: enough to
// reconstruct every derived product (PNG, further analysis) without
// rerunning generation. Cell arrays are row-major, origin top-left.
type IR struct {
	Version  int          `json:"version"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Params   irParams     `json:"params"`
	Plates   []irPlate    `json:"plates"`
	SeaLevel float64      `json:"sea_level"`
	Cells    irCells      `json:"cells"`
}

type irParams struct {
	Seed            uint64  `json:"seed"`
	Water           float64 `json:"water"`
	PlateCount      int     `json:"plates"`
	Scale           float64 `json:"scale"`
	RainIntensity   float64 `json:"rain_intensity"`
	RiverPercentile float64 `json:"river_percentile"`
}

type irPlate struct {
	ID    int     `json:"id"`
	Type  string  `json:"type"`
	SeedX float64 `json:"seed_x"`
	SeedY float64 `json:"seed_y"`
	VelX  float64 `json:"vel_x"`
	VelY  float64 `json:"vel_y"`
}

// irCells holds one flat, row-major array per attribute rather than an
// array of per-cell structs: smaller on the wire and trivial to decode
// into parallel slices.
type irCells struct {
	Elevation  []float64 `json:"elevation"`
	Temperature []float64 `json:"temperature"`
	Rainfall   []float64 `json:"rainfall"`
	PlateID    []int     `json:"plate_id"`
	Biome      []string  `json:"biome"`
	FlowAccum  []float64 `json:"flow_accum"`
	River      []bool    `json:"river"`
}

// round6 keeps the JSON output compact and diff-friendly while retaining
// enough precision that re-deriving biomes from the dump matches the
// original run.
func round6(v float64) float64 {
	const p = 1e6
	return math.Round(v*p) / p
}

// BuildIR flattens world and cfg into the wire-format IR value.
func BuildIR(world *geography.World, cfg pipeline.Config) IR {
	n := world.Grid.Cells()

	plates := make([]irPlate, len(world.Plates))
	for i, p := range world.Plates {
		plates[i] = irPlate{
			ID: p.ID, Type: p.Type.String(),
			SeedX: round6(p.SeedX), SeedY: round6(p.SeedY),
			VelX: round6(p.VelX), VelY: round6(p.VelY),
		}
	}

	cells := irCells{
		Elevation:   make([]float64, n),
		Temperature: make([]float64, n),
		Rainfall:    make([]float64, n),
		PlateID:     make([]int, n),
		Biome:       make([]string, n),
		FlowAccum:   make([]float64, n),
		River:       make([]bool, n),
	}
	for i := 0; i < n; i++ {
		cells.Elevation[i] = round6(world.Elevation.Data[i])
		cells.Temperature[i] = round6(world.Temperature.Data[i])
		cells.Rainfall[i] = round6(world.Rainfall.Data[i])
		cells.PlateID[i] = world.PlateID.Data[i]
		cells.Biome[i] = world.BiomeField.Data[i].String()
		cells.FlowAccum[i] = round6(world.FlowAccum.Data[i])
		cells.River[i] = world.RiverFlag.Data[i]
	}

	return IR{
		Version: irVersion,
		Width:   world.Grid.Width,
		Height:  world.Grid.Height,
		Params: irParams{
			Seed: cfg.Seed, Water: cfg.Water, PlateCount: cfg.Plates,
			Scale: cfg.Scale, RainIntensity: cfg.RainIntensity,
			RiverPercentile: cfg.RiverPercentile,
		},
		Plates:   plates,
		SeaLevel: round6(world.SeaLevel),
		Cells:    cells,
	}
}

// EncodeIR writes the IR as indent-free JSON to w.
func EncodeIR(world *geography.World, cfg pipeline.Config, w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(BuildIR(world, cfg))
}
