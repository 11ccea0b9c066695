package geography

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgrid"
)

func TestSynthesizePlatesAssignsEveryCell(t *testing.T) {
	grid, _ := worldgrid.NewGrid(40, 40)
	r := rand.New(rand.NewSource(1))

	plates, plateID := SynthesizePlates(grid, 8, 0.6, r)

	assert.Len(t, plates, 8)
	for _, id := range plateID.Data {
		assert.True(t, id >= 0 && id < 8)
	}
}

func TestSynthesizePlatesContiguousUnder4Connectivity(t *testing.T) {
	grid, _ := worldgrid.NewGrid(48, 48)
	r := rand.New(rand.NewSource(42))

	_, plateID := SynthesizePlates(grid, 10, 0.5, r)

	n := grid.Cells()
	visited := make([]bool, n)
	components := 0
	plateComponents := map[int]int{}

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		components++
		sx, sy := grid.Coord(start)
		plate := plateID.At(sx, sy)
		plateComponents[plate]++

		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			cx, cy := grid.Coord(cur)
			grid.EachNeighbor4(cx, cy, worldgrid.EdgeSink, func(_ int, nx, ny int) {
				idx := grid.Index(nx, ny)
				if !visited[idx] && plateID.At(nx, ny) == plate {
					visited[idx] = true
					queue = append(queue, idx)
				}
			})
		}
	}

	for plate, count := range plateComponents {
		assert.Equal(t, 1, count, "plate %d should be a single 4-connected component", plate)
	}
}

func TestPlateVelocityFieldsMatchOwningPlate(t *testing.T) {
	grid, _ := worldgrid.NewGrid(10, 10)
	r := rand.New(rand.NewSource(7))
	plates, plateID := SynthesizePlates(grid, 4, 0.6, r)

	velX, velY := PlateVelocityFields(grid, plates, plateID)

	for i, id := range plateID.Data {
		assert.Equal(t, plates[id].VelX, velX.Data[i])
		assert.Equal(t, plates[id].VelY, velY.Data[i])
	}
}
