package geography

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"worldgen/internal/worldgrid"
)

// ErosionParams tunes the droplet hydraulic-erosion pass.
type ErosionParams struct {
	NoiseAmplitude float64 // added before erosion to break symmetry
	Droplets       int
	DiffusionPasses int
}

// DefaultErosionParams scales droplet count and noise amplitude with the
// grid's global length scale.
func DefaultErosionParams(grid worldgrid.Grid, scale float64) ErosionParams {
	return ErosionParams{
		NoiseAmplitude:  80 * scale,
		Droplets:        grid.Cells() / 4,
		DiffusionPasses: 1,
	}
}

// ApplyNoiseErosionSmoothing produces the elevation field from
// base_elevation (S3): multi-octave coherent noise breaks symmetry,
// bounded hydraulic-erosion droplets carve drainage, and a light
// diffusion pass removes single-cell noise.
func ApplyNoiseErosionSmoothing(grid worldgrid.Grid, base worldgrid.Field[float64], params ErosionParams, r *rand.Rand) worldgrid.Field[float64] {
	elevation := base.Clone()

	noise := perlin.NewPerlin(2, 2, 4, r.Int63())
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			n := noise.Noise2D(float64(x)/64.0, float64(y)/64.0)
			idx := grid.Index(x, y)
			elevation.Data[idx] = clampElevation(elevation.Data[idx] + n*params.NoiseAmplitude)
		}
	}

	applyHydraulicErosion(grid, elevation, params.Droplets, r)

	for i := 0; i < params.DiffusionPasses; i++ {
		elevation = diffuse(grid, elevation)
	}

	return elevation
}

// applyHydraulicErosion simulates independent droplets: each carries a
// sediment capacity proportional to slope and velocity, eroding when
// under capacity and depositing when over. A droplet that leaves the
// grid is discarded rather than clamped back in, per the S3 edge policy.
func applyHydraulicErosion(grid worldgrid.Grid, elevation worldgrid.Field[float64], drops int, r *rand.Rand) {
	const (
		dt              = 1.2
		evapRate        = 0.02
		depositionRate  = 0.3
		erosionRate     = 0.3
		minVolume       = 0.01
		friction        = 0.1
		capacityScale   = 4.0
	)

	get := func(x, y int) float64 {
		if x < 0 || x >= grid.Width || y < 0 || y >= grid.Height {
			return math.NaN()
		}
		return elevation.At(x, y)
	}
	add := func(x, y int, delta float64) {
		elevation.Set(x, y, elevation.At(x, y)+delta)
	}

	for i := 0; i < drops; i++ {
		x := r.Float64() * float64(grid.Width)
		y := r.Float64() * float64(grid.Height)
		velX, velY := 0.0, 0.0
		volume, sediment := 1.0, 0.0

		for volume > minVolume {
			ix, iy := int(x), int(y)
			if ix < 0 || ix >= grid.Width-1 || iy < 0 || iy >= grid.Height-1 {
				break // off-grid: discard the droplet
			}

			n00, n10 := get(ix, iy), get(ix+1, iy)
			n01, n11 := get(ix, iy+1), get(ix+1, iy+1)
			gradX := (n10 + n11) - (n00 + n01)
			gradY := (n01 + n11) - (n00 + n10)

			velX = velX*(1-friction) - gradX*0.5
			velY = velY*(1-friction) - gradY*0.5
			x += velX * dt
			y += velY * dt

			newIx, newIy := int(x), int(y)
			if newIx < 0 || newIx >= grid.Width || newIy < 0 || newIy >= grid.Height {
				break
			}

			heightDiff := get(newIx, newIy) - get(ix, iy)
			speed := math.Sqrt(velX*velX + velY*velY)
			capacity := math.Max(-heightDiff, minVolume) * speed * volume * capacityScale

			switch {
			case heightDiff > 0:
				amount := math.Min(sediment, heightDiff)
				sediment -= amount
				add(ix, iy, amount)
			case sediment > capacity:
				amount := (sediment - capacity) * depositionRate
				sediment -= amount
				add(ix, iy, amount)
			default:
				amount := math.Min((capacity-sediment)*erosionRate, -heightDiff)
				sediment += amount
				add(ix, iy, -amount)
			}

			volume *= 1 - evapRate
		}
	}
}

// diffuse applies one pass of a light 4-connected Gaussian-style blur,
// clamped at the grid edges rather than wrapping, to remove single-cell
// noise left by the droplet pass.
func diffuse(grid worldgrid.Grid, in worldgrid.Field[float64]) worldgrid.Field[float64] {
	out := worldgrid.NewField[float64](grid)
	const centerWeight = 0.6
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			sum := in.At(x, y) * centerWeight
			count := centerWeight
			grid.EachNeighbor4(x, y, worldgrid.EdgeClamp, func(_ int, nx, ny int) {
				weight := (1 - centerWeight) / 4
				sum += in.At(nx, ny) * weight
				count += weight
			})
			out.Set(x, y, sum/count)
		}
	}
	return out
}
