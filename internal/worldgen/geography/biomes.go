package geography

import "worldgen/internal/worldgrid"

// BiomeParams configures the elevation override and rainfall/temperature
// band edges used by AssignBiomes.
type BiomeParams struct {
	AlpineAltitude float64 // meters above sea_level; land above this is alpine/snow
	RainLowHigh    float64 // mm/year boundary between low and medium rainfall
	RainMediumHigh float64 // mm/year boundary between medium and high rainfall
	TempHotTemp    float64 // °C boundary between hot and temperate
	TempTempCold   float64 // °C boundary between temperate and cold
	TempColdFrozen float64 // °C boundary between cold and frozen
}

// DefaultBiomeParams matches the representative Whittaker partition in
// the component design.
func DefaultBiomeParams() BiomeParams {
	return BiomeParams{
		AlpineAltitude: 2500,
		RainLowHigh:    500,
		RainMediumHigh: 1500,
		TempHotTemp:    20,
		TempTempCold:   5,
		TempColdFrozen: -10,
	}
}

// AssignBiomes classifies every cell (S9) by a Whittaker-style lookup on
// (temperature, rainfall, elevation-sea_level). Ocean cells are OCEAN,
// split into shallow/deep by depth below sea_level; land above
// AlpineAltitude is overridden to alpine/snow regardless of the lookup.
func AssignBiomes(grid worldgrid.Grid, elevation worldgrid.Field[float64], seaLevel float64, temperature, rainfall worldgrid.Field[float64], isOcean worldgrid.Field[bool], params BiomeParams) worldgrid.Field[Biome] {
	out := worldgrid.NewField[Biome](grid)

	const shallowDepth = 200.0

	for i := range out.Data {
		x, y := grid.Coord(i)
		elev := elevation.At(x, y)

		if isOcean.At(x, y) {
			if seaLevel-elev <= shallowDepth {
				out.Data[i] = BiomeShallowOcean
			} else {
				out.Data[i] = BiomeDeepOcean
			}
			continue
		}

		temp := temperature.At(x, y)
		rain := rainfall.At(x, y)
		altitude := elev - seaLevel

		if altitude >= params.AlpineAltitude {
			if temp <= params.TempColdFrozen {
				out.Data[i] = BiomeSnow
			} else {
				out.Data[i] = BiomeAlpine
			}
			continue
		}

		out.Data[i] = lookupBiome(temp, rain, params)
	}

	return out
}

// lookupBiome implements the representative Whittaker partition:
// temperature rows {hot, temperate, cold, frozen} crossed with rainfall
// columns {low, medium, high}.
func lookupBiome(temp, rain float64, params BiomeParams) Biome {
	switch {
	case temp >= params.TempHotTemp:
		switch {
		case rain < params.RainLowHigh:
			return BiomeDesert
		case rain < params.RainMediumHigh:
			return BiomeSavanna
		default:
			return BiomeRainforest
		}
	case temp >= params.TempTempCold:
		switch {
		case rain < params.RainLowHigh:
			return BiomeShrubland
		case rain < params.RainMediumHigh:
			return BiomeGrassland
		default:
			return BiomeDeciduousForest
		}
	case temp >= params.TempColdFrozen:
		switch {
		case rain < params.RainLowHigh:
			return BiomeTundra
		case rain < params.RainMediumHigh:
			return BiomeTaiga
		default:
			return BiomeBorealForest
		}
	default:
		if rain < params.RainMediumHigh {
			return BiomeIce
		}
		return BiomeSnow
	}
}
