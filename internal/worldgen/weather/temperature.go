// Package weather implements the atmospheric stages of generation:
// temperature, prevailing winds, and orographic precipitation.
package weather

import (
	"worldgen/internal/worldgrid"
)

// TemperatureParams names the climate coefficients from the component
// design's temperature formula.
type TemperatureParams struct {
	Equator float64 // T_equator, °C at the equator at sea level
	KLat    float64 // lapse-with-latitude coefficient
	KElev   float64 // lapse-with-elevation coefficient, °C per meter above sea_level
}

// DefaultTemperatureParams gives a 30°C equator cooling to roughly -20°C
// at the poles, with a standard ~6.5°C/km lapse rate above sea level.
func DefaultTemperatureParams() TemperatureParams {
	return TemperatureParams{
		Equator: 30,
		KLat:    50,
		KElev:   0.0065,
	}
}

// ComputeTemperature derives temperature (S5):
// T = T_equator − k_lat·f(|latitude|) − k_elev·max(0, elevation−sea_level),
// with f the square of the latitude proxy. Ocean cells use the same
// latitude term but a reduced elevation term (sea-surface temperature
// does not cool with bathymetric depth).
func ComputeTemperature(grid worldgrid.Grid, elevation worldgrid.Field[float64], seaLevel float64, isOcean worldgrid.Field[bool], params TemperatureParams) worldgrid.Field[float64] {
	temperature := worldgrid.NewField[float64](grid)

	for y := 0; y < grid.Height; y++ {
		lat := grid.Latitude(y)
		latTerm := params.Equator - params.KLat*(lat*lat)
		for x := 0; x < grid.Width; x++ {
			idx := grid.Index(x, y)
			if isOcean.At(x, y) {
				temperature.Data[idx] = latTerm
				continue
			}
			above := elevation.At(x, y) - seaLevel
			if above < 0 {
				above = 0
			}
			temperature.Data[idx] = latTerm - params.KElev*above
		}
	}

	return temperature
}
