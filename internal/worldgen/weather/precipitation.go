package weather

import (
	"math"

	"worldgen/internal/worldgrid"
)

// PrecipitationParams tunes the orographic streamline pass.
type PrecipitationParams struct {
	BaseRate       float64 // mm of rain per streamline step regardless of orography
	OrographicGain float64 // mm per meter of windward elevation gain
	LeakFactor     float64 // (0,1): fraction of remaining moisture carried past each cell
	EvapPerDegree  float64 // moisture added per step over ocean, per degree above freezing
	StreamlineRows int     // each row also starts streamlines on rows offset by up to ±StreamlineRows, for full coverage
}

// DefaultPrecipitationParams scales with rainIntensity (the CLI's
// --rain-intensity multiplier on evaporation and orographic gain).
func DefaultPrecipitationParams(rainIntensity float64) PrecipitationParams {
	return PrecipitationParams{
		BaseRate:       0.2 * rainIntensity,
		OrographicGain: 0.01 * rainIntensity,
		LeakFactor:     0.92,
		EvapPerDegree:  0.15 * rainIntensity,
		StreamlineRows: 3,
	}
}

// ComputeRainfall produces rainfall (S7) by stepping a moisture-carrying
// streamline across each row in that row's prevailing-wind direction.
// Streamlines step cell-by-cell along the dominant (horizontal)
// component of the wind vector using a fixed Bresenham-like rule for the
// minor (vertical) component, so the same rasterization is used
// everywhere and the result is deterministic. Additional offset
// streamlines per row fill in any cells the primary pass's vertical
// drift skips.
func ComputeRainfall(grid worldgrid.Grid, elevation worldgrid.Field[float64], temperature worldgrid.Field[float64], isOcean worldgrid.Field[bool], windX, windY worldgrid.Field[float64], params PrecipitationParams) worldgrid.Field[float64] {
	rainfall := worldgrid.NewField[float64](grid)

	offsets := make([]int, 0, 2*params.StreamlineRows+1)
	for d := -params.StreamlineRows; d <= params.StreamlineRows; d++ {
		offsets = append(offsets, d)
	}

	for y := 0; y < grid.Height; y++ {
		wx := windX.At(0, y)
		wy := windY.At(0, y)
		for _, offset := range offsets {
			runStreamline(grid, elevation, temperature, isOcean, rainfall, y, offset, wx, wy, params)
		}
	}

	return rainfall
}

// runStreamline steps one moisture-carrying streamline entering row
// startY+rowOffset from the edge the wind vector points away from.
func runStreamline(grid worldgrid.Grid, elevation worldgrid.Field[float64], temperature worldgrid.Field[float64], isOcean worldgrid.Field[bool], rainfall worldgrid.Field[float64], startY, rowOffset int, wx, wy float64, params PrecipitationParams) {
	stepX := 1
	startX := 0
	if wx < 0 {
		stepX = -1
		startX = grid.Width - 1
	}

	y := startY + rowOffset
	if y < 0 || y >= grid.Height {
		return
	}

	// Bresenham-style accumulator for the minor (vertical) axis, driven
	// by the ratio of vertical to horizontal wind components.
	var slope float64
	if wx != 0 {
		slope = wy / math.Abs(wx)
	}
	yAcc := 0.0

	x := startX
	moisture := 0.0
	havePrev := false
	prevElev := 0.0

	first := true
	for x >= 0 && x < grid.Width {
		if y < 0 || y >= grid.Height {
			break
		}

		if first {
			if isOcean.At(x, y) {
				moisture = 10 + temperature.At(x, y)*0.2
			}
			first = false
		}

		if isOcean.At(x, y) {
			idx := grid.Index(x, y)
			rainfall.Data[idx] += params.BaseRate
			moisture += evapRate(temperature.At(x, y), params)
			havePrev = true
			prevElev = elevation.At(x, y)
		} else {
			elev := elevation.At(x, y)
			deltaH := 0.0
			if havePrev && elev > prevElev {
				deltaH = elev - prevElev
			}
			precip := math.Min(moisture, params.BaseRate+params.OrographicGain*deltaH)
			if precip < 0 {
				precip = 0
			}
			idx := grid.Index(x, y)
			rainfall.Data[idx] += precip
			moisture = (moisture - precip) * params.LeakFactor
			havePrev = true
			prevElev = elev
		}

		x += stepX
		yAcc += slope
		for yAcc >= 0.5 {
			y++
			yAcc -= 1
		}
		for yAcc < -0.5 {
			y--
			yAcc += 1
		}
	}
}

// evapRate models warm oceans evaporating more: a linear function of
// temperature above freezing, clamped at zero for ice-cold water.
func evapRate(temperature float64, params PrecipitationParams) float64 {
	above := temperature
	if above < 0 {
		above = 0
	}
	return above * params.EvapPerDegree
}
