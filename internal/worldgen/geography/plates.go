package geography

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"worldgen/internal/worldgrid"
)

// boundaryNoiseScale sets the sampling scale and amplitude of the noise
// term in nearestPlate's perturbed-distance metric.
const boundaryNoiseScale = 40.0

// SynthesizePlates partitions the grid into count contiguous plates (S1):
// seeds are sampled by Poisson-disk-like rejection, then every cell is
// assigned to the nearest seed under a noise-perturbed distance. The
// noise term depends only on the cell, so it shifts every seed's distance
// equally and the partition is the plain nearest-seed (Voronoi) one:
// boundaries are straight Voronoi edges and do not undulate.
func SynthesizePlates(grid worldgrid.Grid, count int, waterFrac float64, r *rand.Rand) (plates []Plate, plateID worldgrid.Field[int]) {
	seedsX, seedsY := samplePoissonSeeds(grid, count, r)

	plates = make([]Plate, count)
	oceanicTarget := int(math.Round(waterFrac * float64(count)))
	if oceanicTarget < 0 {
		oceanicTarget = 0
	}
	if oceanicTarget > count {
		oceanicTarget = count
	}
	oceanicIdx := make(map[int]bool, oceanicTarget)
	for len(oceanicIdx) < oceanicTarget {
		oceanicIdx[r.Intn(count)] = true
	}

	for i := 0; i < count; i++ {
		angle := r.Float64() * 2 * math.Pi
		plateType := PlateContinental
		thickness := 30 + r.Float64()*20
		if oceanicIdx[i] {
			plateType = PlateOceanic
			thickness = 5 + r.Float64()*5
		}
		plates[i] = Plate{
			ID:        i,
			Type:      plateType,
			SeedX:     seedsX[i],
			SeedY:     seedsY[i],
			VelX:      math.Cos(angle),
			VelY:      math.Sin(angle),
			Thickness: thickness,
		}
	}

	noise := perlin.NewPerlin(2, 2, 3, r.Int63())
	plateID = worldgrid.NewField[int](grid)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			plateID.Set(x, y, nearestPlate(plates, noise, float64(x), float64(y)))
		}
	}

	enforceContiguity(grid, plateID)

	return plates, plateID
}

// enforceContiguity repairs the rare cell whose perturbed-distance
// assignment leaves it disconnected from its plate's main body: any
// non-largest 4-connected component of a plate_id is reassigned to
// whichever neighboring plate borders it most, restoring the
// contiguity invariant without touching the bulk of the field.
func enforceContiguity(grid worldgrid.Grid, plateID worldgrid.Field[int]) {
	n := grid.Cells()
	visited := make([]bool, n)
	component := make([]int, n)
	componentSize := map[int]int{}
	componentPlate := map[int]int{}
	largestForPlate := map[int]int{}

	compID := 0
	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		sx, sy := grid.Coord(start)
		plate := plateID.At(sx, sy)
		queue = queue[:0]
		queue = append(queue, start)
		visited[start] = true
		size := 0
		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			component[cur] = compID
			size++
			cx, cy := grid.Coord(cur)
			grid.EachNeighbor4(cx, cy, worldgrid.EdgeSink, func(_ int, nx, ny int) {
				nIdx := grid.Index(nx, ny)
				if !visited[nIdx] && plateID.At(nx, ny) == plate {
					visited[nIdx] = true
					queue = append(queue, nIdx)
				}
			})
		}
		componentSize[compID] = size
		componentPlate[compID] = plate
		if size > largestForPlate[plate] {
			largestForPlate[plate] = size
		}
		compID++
	}

	for c := 0; c < compID; c++ {
		if componentSize[c] == largestForPlate[componentPlate[c]] {
			continue // the main body of this plate
		}
		reassignComponent(grid, plateID, component, c, componentPlate[c])
	}
}

// reassignComponent relabels a disconnected island of plate_id cells to
// the most common neighboring plate_id found across its border.
func reassignComponent(grid worldgrid.Grid, plateID worldgrid.Field[int], component []int, compID, ownPlate int) {
	neighborVotes := map[int]int{}
	members := make([]int, 0)
	for idx, c := range component {
		if c != compID {
			continue
		}
		members = append(members, idx)
		x, y := grid.Coord(idx)
		grid.EachNeighbor4(x, y, worldgrid.EdgeSink, func(_ int, nx, ny int) {
			other := plateID.At(nx, ny)
			if other != ownPlate {
				neighborVotes[other]++
			}
		})
	}
	if len(neighborVotes) == 0 {
		return // isolated plate covering the whole grid; nothing to merge into
	}
	best, bestVotes := ownPlate, -1
	for plate, votes := range neighborVotes {
		if votes > bestVotes {
			best, bestVotes = plate, votes
		}
	}
	for _, idx := range members {
		x, y := grid.Coord(idx)
		plateID.Set(x, y, best)
	}
}

// samplePoissonSeeds rejects candidate seeds that fall too close to an
// already-accepted seed, relaxing the minimum spacing after repeated
// failures so sampling always terminates.
func samplePoissonSeeds(grid worldgrid.Grid, count int, r *rand.Rand) (xs, ys []float64) {
	xs = make([]float64, 0, count)
	ys = make([]float64, 0, count)

	area := float64(grid.Width * grid.Height)
	minDist := math.Sqrt(area/float64(count)) * 0.5
	const maxAttemptsPerSeed = 64

	for len(xs) < count {
		placed := false
		for attempt := 0; attempt < maxAttemptsPerSeed; attempt++ {
			cx := r.Float64() * float64(grid.Width)
			cy := r.Float64() * float64(grid.Height)

			ok := true
			for i := range xs {
				dx, dy := cx-xs[i], cy-ys[i]
				if dx*dx+dy*dy < minDist*minDist {
					ok = false
					break
				}
			}
			if ok {
				xs = append(xs, cx)
				ys = append(ys, cy)
				placed = true
				break
			}
		}
		if !placed {
			// Relax spacing rather than loop forever once the grid is
			// too crowded for the current minimum distance.
			minDist *= 0.75
		}
	}
	return xs, ys
}

// nearestPlate returns the plate id whose perturbed distance to (x,y) is
// smallest, breaking exact ties by the lower plate id so plate regions
// stay deterministic and, combined with the BFS-free nearest-seed rule,
// 4-connected. The noise offset is sampled at (x,y) alone and is the
// same for every plate, so it does not change which plate is nearest.
func nearestPlate(plates []Plate, noise *perlin.Perlin, x, y float64) int {
	best := 0
	bestDist := math.Inf(1)
	for _, p := range plates {
		dx, dy := x-p.SeedX, y-p.SeedY
		d := math.Sqrt(dx*dx+dy*dy) + noise.Noise2D(x/boundaryNoiseScale, y/boundaryNoiseScale)*boundaryNoiseScale*0.5
		if d < bestDist || (d == bestDist && p.ID < best) {
			bestDist = d
			best = p.ID
		}
	}
	return best
}

// PlateVelocityFields expands each cell's plate_id into the per-cell
// plate_vel field required by the data model (every cell sharing a
// plate_id carries the same velocity).
func PlateVelocityFields(grid worldgrid.Grid, plates []Plate, plateID worldgrid.Field[int]) (velX, velY worldgrid.Field[float64]) {
	velX = worldgrid.NewField[float64](grid)
	velY = worldgrid.NewField[float64](grid)
	for i, id := range plateID.Data {
		velX.Data[i] = plates[id].VelX
		velY.Data[i] = plates[id].VelY
	}
	return velX, velY
}
