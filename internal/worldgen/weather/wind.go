package weather

import (
	"math"

	"worldgen/internal/worldgrid"
)

// band names the six latitude bands, symmetric about the equator, that
// the component design derives prevailing winds from.
type band int

const (
	bandPolarNorth band = iota
	bandTemperateNorth
	bandTropicalNorth
	bandTropicalSouth
	bandTemperateSouth
	bandPolarSouth
)

// bandEdges are the |latitude| boundaries between tropical, temperate,
// and polar cells, in the [0,1] latitude-proxy magnitude.
const (
	tropicalEdge  = 1.0 / 3.0
	temperateEdge = 2.0 / 3.0
)

// bandVector returns the unit wind_vec for one of the six bands: trade
// winds blow toward the equator and to the west in the tropics,
// westerlies dominate the temperate bands, and polar easterlies close
// out the model at the edges.
func bandVector(b band) (x, y float64) {
	switch b {
	case bandTropicalNorth:
		return -1, 0.4 // trades: westward, drifting toward equator
	case bandTropicalSouth:
		return -1, -0.4
	case bandTemperateNorth:
		return 1, -0.2 // westerlies: eastward, drifting poleward
	case bandTemperateSouth:
		return 1, 0.2
	case bandPolarNorth:
		return -1, 0.2 // polar easterlies
	default: // bandPolarSouth
		return -1, -0.2
	}
}

func bandForLatitude(lat float64) band {
	abs := math.Abs(lat)
	north := lat < 0 // y=0 is one polar edge; negative latitude is "north" by convention
	switch {
	case abs < tropicalEdge:
		if north {
			return bandTropicalNorth
		}
		return bandTropicalSouth
	case abs < temperateEdge:
		if north {
			return bandTemperateNorth
		}
		return bandTemperateSouth
	default:
		if north {
			return bandPolarNorth
		}
		return bandPolarSouth
	}
}

// smoothRows sets the blend width on either side of a band boundary as
// smoothRows/180 of the [-1,1] latitude proxy. That width is smoothRows
// rows only on a 361-row grid; it does not scale with grid height, so
// on grids under 181 rows it is narrower than one row.
const smoothRows = 3.0

// ComputePrevailingWinds derives wind_vec (S6): latitude is split into
// six bands symmetric about the equator, each with a fixed vector; the
// tropical/temperate and temperate/polar boundaries are linearly blended
// over the smoothRows width. The equator, where the two tropical bands
// meet, is not blended.
func ComputePrevailingWinds(grid worldgrid.Grid) (windX, windY worldgrid.Field[float64]) {
	windX = worldgrid.NewField[float64](grid)
	windY = worldgrid.NewField[float64](grid)

	for y := 0; y < grid.Height; y++ {
		lat := grid.Latitude(y)
		vx, vy := blendedBandVector(lat)
		for x := 0; x < grid.Width; x++ {
			idx := grid.Index(x, y)
			windX.Data[idx] = vx
			windY.Data[idx] = vy
		}
	}

	return windX, windY
}

// blendedBandVector linearly interpolates between a latitude's own band
// vector and its nearest neighbor band's vector when within smoothRows'
// worth of latitude-proxy distance of a boundary.
func blendedBandVector(lat float64) (x, y float64) {
	abs := math.Abs(lat)
	current := bandForLatitude(lat)
	cx, cy := bandVector(current)

	edges := []float64{tropicalEdge, temperateEdge}
	for _, edge := range edges {
		dist := math.Abs(abs - edge)
		proxyWidth := smoothRows / 180.0 // a few rows' worth of the [-1,1] latitude proxy
		if dist < proxyWidth {
			var neighborLat float64
			if abs < edge {
				neighborLat = math.Copysign(edge+1e-6, lat)
			} else {
				neighborLat = math.Copysign(edge-1e-6, lat)
			}
			nx, ny := bandVector(bandForLatitude(neighborLat))
			t := 0.5 + 0.5*(dist/proxyWidth)
			cx = cx*t + nx*(1-t)
			cy = cy*t + ny*(1-t)
		}
	}

	mag := math.Sqrt(cx*cx + cy*cy)
	if mag == 0 {
		return 0, 0
	}
	return cx / mag, cy / mag
}
