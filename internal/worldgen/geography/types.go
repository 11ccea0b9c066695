// Package geography implements the solid-earth stages of generation:
// plate synthesis, tectonic uplift, noise/erosion/smoothing, sea level
// and the ocean mask, hydrology, and biome assignment.
package geography

import "worldgen/internal/worldgrid"

// PlateType distinguishes oceanic from continental crust.
type PlateType int

const (
	PlateOceanic PlateType = iota
	PlateContinental
)

func (t PlateType) String() string {
	if t == PlateContinental {
		return "continental"
	}
	return "oceanic"
}

// BoundaryType classifies the interaction at a plate boundary cell.
type BoundaryType int

const (
	BoundaryTransform BoundaryType = iota
	BoundaryConvergent
	BoundaryDivergent
)

// Plate is one tectonic plate: a seed point, a rigid velocity, and a
// type. Region membership lives in the plate_id field, not here, so a
// Plate value stays small and copyable.
type Plate struct {
	ID        int
	Type      PlateType
	SeedX     float64
	SeedY     float64
	VelX      float64
	VelY      float64
	Thickness float64 // km, informs equilibrium elevation targets
}

// Biome enumerates the land/water classifications assigned in S9.
type Biome int

const (
	BiomeUnset Biome = iota
	BiomeOcean
	BiomeShallowOcean
	BiomeDeepOcean
	BiomeIce
	BiomeTundra
	BiomeTaiga
	BiomeBorealForest
	BiomeAlpine
	BiomeSnow
	BiomeShrubland
	BiomeGrassland
	BiomeDesert
	BiomeDeciduousForest
	BiomeRainforest
	BiomeSavanna
)

func (b Biome) String() string {
	switch b {
	case BiomeOcean:
		return "ocean"
	case BiomeShallowOcean:
		return "shallow_ocean"
	case BiomeDeepOcean:
		return "deep_ocean"
	case BiomeIce:
		return "ice"
	case BiomeTundra:
		return "tundra"
	case BiomeTaiga:
		return "taiga"
	case BiomeBorealForest:
		return "boreal_forest"
	case BiomeAlpine:
		return "alpine"
	case BiomeSnow:
		return "snow"
	case BiomeShrubland:
		return "shrubland"
	case BiomeGrassland:
		return "grassland"
	case BiomeDesert:
		return "desert"
	case BiomeDeciduousForest:
		return "deciduous_forest"
	case BiomeRainforest:
		return "rainforest"
	case BiomeSavanna:
		return "savanna"
	default:
		return "unset"
	}
}

// FlowDir encodes a land cell's downhill direction as one of the eight
// worldgrid.Moore8 indices, or Sink for a cell that drains directly into
// ocean or a filled lake.
type FlowDir int

const Sink FlowDir = -1

// Physical elevation bounds, enforced by clampElevation in uplift.go after
// summing boundary contributions and after adding S3 noise.
const (
	MaxElevation = 9000.0
	MinElevation = -11000.0
)

// World carries every field produced by the geography stages, one owner
// per field per the append-only lifecycle: a stage writes its field(s)
// once and every later stage only reads them.
type World struct {
	Grid worldgrid.Grid

	Plates    []Plate
	PlateID   worldgrid.Field[int]
	PlateVelX worldgrid.Field[float64]
	PlateVelY worldgrid.Field[float64]

	BaseElevation worldgrid.Field[float64]
	Elevation     worldgrid.Field[float64]

	SeaLevel float64
	IsOcean  worldgrid.Field[bool]

	// HydroElevation shadows Elevation from S8 onward: it is Elevation
	// with depressions raised just enough to guarantee drainage.
	HydroElevation worldgrid.Field[float64]
	FlowDirField   worldgrid.Field[FlowDir]
	FlowAccum      worldgrid.Field[float64]
	RiverFlag      worldgrid.Field[bool]
	LakeFlag       worldgrid.Field[bool]

	Temperature worldgrid.Field[float64]
	WindVecX    worldgrid.Field[float64]
	WindVecY    worldgrid.Field[float64]
	Rainfall    worldgrid.Field[float64]

	BiomeField worldgrid.Field[Biome]
}

// NewWorld allocates an empty World over grid. Stages fill in fields as
// they run; fields not yet produced are left at their zero value.
func NewWorld(grid worldgrid.Grid) *World {
	return &World{Grid: grid}
}
