// Package render implements S10: PNG encoding with hillshade and a river
// overlay, and the JSON intermediate-representation dump.
package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"worldgen/internal/worldgen/geography"
)

// biomePalette maps each biome to its base RGB color. Ocean shades get
// darker with depth via BiomeDeepOcean; everything else is a flat color
// modulated by hillshade.
var biomePalette = map[geography.Biome]color.RGBA{
	geography.BiomeShallowOcean:    {64, 128, 200, 255},
	geography.BiomeDeepOcean:       {16, 48, 120, 255},
	geography.BiomeIce:             {230, 240, 250, 255},
	geography.BiomeSnow:            {245, 245, 250, 255},
	geography.BiomeTundra:          {170, 170, 150, 255},
	geography.BiomeTaiga:           {90, 120, 90, 255},
	geography.BiomeBorealForest:    {60, 100, 70, 255},
	geography.BiomeAlpine:          {150, 140, 130, 255},
	geography.BiomeShrubland:       {170, 150, 90, 255},
	geography.BiomeGrassland:       {140, 180, 90, 255},
	geography.BiomeDesert:          {220, 190, 120, 255},
	geography.BiomeDeciduousForest: {70, 140, 70, 255},
	geography.BiomeRainforest:      {20, 110, 50, 255},
	geography.BiomeSavanna:         {190, 170, 90, 255},
}

var riverColor = color.RGBA{40, 90, 200, 255}

// defaultColor guards against a biome value not in the palette (should
// never happen once S9's no-UNSET invariant holds).
var defaultColor = color.RGBA{128, 128, 128, 255}

// EncodePNG writes an 8-bit RGBA PNG of world to w: per-cell color from
// the biome palette, shaded by a hillshade derived from the elevation
// gradient, with river_flag cells overlaid in blue. Row-major from the
// top-left, dimensions exactly W×H.
func EncodePNG(world *geography.World, w io.Writer) error {
	grid := world.Grid
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			base, ok := biomePalette[world.BiomeField.At(x, y)]
			if !ok {
				base = defaultColor
			}

			shade := hillshade(world, x, y)
			shaded := applyShade(base, shade)

			if world.RiverFlag.At(x, y) {
				shaded = riverColor
			}

			img.SetRGBA(x, y, shaded)
		}
	}

	return png.Encode(w, img)
}

// hillshade derives a simple directional shading factor in [0.6,1.4]
// from the elevation gradient at (x,y), clamped at the grid edges.
func hillshade(world *geography.World, x, y int) float64 {
	grid := world.Grid
	elev := world.Elevation
	left, right := x-1, x+1
	up, down := y-1, y+1
	if left < 0 {
		left = 0
	}
	if right >= grid.Width {
		right = grid.Width - 1
	}
	if up < 0 {
		up = 0
	}
	if down >= grid.Height {
		down = grid.Height - 1
	}

	gradX := elev.At(right, y) - elev.At(left, y)
	gradY := elev.At(x, down) - elev.At(x, up)
	mag := math.Sqrt(gradX*gradX+gradY*gradY) / 2000.0

	// A light from the northwest: positive gradients (terrain rises
	// toward the southeast, so the slope faces the light) brighten the
	// cell.
	dirTerm := (gradX + gradY) / (2000.0 + mag*2000.0)
	shade := 1.0 + clamp(dirTerm, -0.4, 0.4)
	return shade
}

func applyShade(c color.RGBA, shade float64) color.RGBA {
	scale := func(v uint8) uint8 {
		f := float64(v) * shade
		if f > 255 {
			f = 255
		}
		if f < 0 {
			f = 0
		}
		return uint8(f)
	}
	return color.RGBA{scale(c.R), scale(c.G), scale(c.B), 255}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
