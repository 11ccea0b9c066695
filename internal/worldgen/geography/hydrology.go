package geography

import (
	"container/heap"
	"sort"

	"worldgen/internal/worldgrid"
)

// fillEpsilon is the small positive strict-descent margin added at each
// priority-flood step, per the component design's pit-filling algorithm.
const fillEpsilon = 1e-4

// pfItem is one entry in the priority-flood queue.
type pfItem struct {
	x, y int
	elev float64
	seq  int // insertion order, for deterministic tie-breaking
}

type pfQueue []pfItem

func (q pfQueue) Len() int { return len(q) }
func (q pfQueue) Less(i, j int) bool {
	if q[i].elev != q[j].elev {
		return q[i].elev < q[j].elev
	}
	return q[i].seq < q[j].seq
}
func (q pfQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pfQueue) Push(x any)        { *q = append(*q, x.(pfItem)) }
func (q *pfQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// PriorityFlood fills depressions (S8) so every land cell has a strictly
// descending path to the ocean or to a filled lake surface. It seeds a
// priority queue with every ocean and grid-edge cell, then repeatedly
// pops the lowest cell and raises each unvisited neighbor to at least
// current+epsilon. Cells raised above their original elevation are
// marked lake_flag.
func PriorityFlood(grid worldgrid.Grid, elevation worldgrid.Field[float64], isOcean worldgrid.Field[bool]) (hydroElevation worldgrid.Field[float64], lakeFlag worldgrid.Field[bool]) {
	hydroElevation = worldgrid.NewField[float64](grid)
	lakeFlag = worldgrid.NewField[bool](grid)
	visited := worldgrid.NewField[bool](grid)

	q := make(pfQueue, 0, grid.Width*2+grid.Height*2)
	seq := 0
	push := func(x, y int, elev float64) {
		heap.Push(&q, pfItem{x: x, y: y, elev: elev, seq: seq})
		seq++
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if isOcean.At(x, y) {
				hydroElevation.Set(x, y, elevation.At(x, y))
				visited.Set(x, y, true)
				push(x, y, elevation.At(x, y))
			}
		}
	}
	// Grid-edge land cells (no ocean reachable along an edge) also seed
	// the flood, so finite grids without a border ocean still drain.
	seedEdge := func(x, y int) {
		if visited.At(x, y) {
			return
		}
		hydroElevation.Set(x, y, elevation.At(x, y))
		visited.Set(x, y, true)
		push(x, y, elevation.At(x, y))
	}
	for x := 0; x < grid.Width; x++ {
		seedEdge(x, 0)
		seedEdge(x, grid.Height-1)
	}
	for y := 0; y < grid.Height; y++ {
		seedEdge(0, y)
		seedEdge(grid.Width-1, y)
	}

	heap.Init(&q)

	for q.Len() > 0 {
		cur := heap.Pop(&q).(pfItem)
		grid.EachNeighbor8(cur.x, cur.y, worldgrid.EdgeSink, func(_ int, nx, ny int) {
			if visited.At(nx, ny) {
				return
			}
			visited.Set(nx, ny, true)
			raised := elevation.At(nx, ny)
			if raised < cur.elev+fillEpsilon {
				raised = cur.elev + fillEpsilon
				lakeFlag.Set(nx, ny, true)
			}
			hydroElevation.Set(nx, ny, raised)
			push(nx, ny, raised)
		})
	}

	return hydroElevation, lakeFlag
}

// ComputeFlowDirections derives flow_dir (S8): every land cell points to
// its steepest-descent Moore neighbor in hydro_elevation, ties broken by
// the fixed worldgrid.Moore8 index order. Ocean cells get Sink.
func ComputeFlowDirections(grid worldgrid.Grid, hydroElevation worldgrid.Field[float64], isOcean worldgrid.Field[bool]) worldgrid.Field[FlowDir] {
	flowDir := worldgrid.NewField[FlowDir](grid)

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if isOcean.At(x, y) {
				flowDir.Set(x, y, Sink)
				continue
			}
			current := hydroElevation.At(x, y)
			best := Sink
			bestElev := current
			grid.EachNeighbor8(x, y, worldgrid.EdgeSink, func(idx, nx, ny int) {
				e := hydroElevation.At(nx, ny)
				if e < bestElev {
					bestElev = e
					best = FlowDir(idx)
				}
			})
			flowDir.Set(x, y, best)
		}
	}

	return flowDir
}

// ComputeFlowAccumulation sums rainfall over each cell's upstream
// catchment (S8): land cells are processed in descending
// hydro_elevation order (a valid topological order, since flow_dir
// always points to a strictly lower cell), accumulating local rainfall
// plus inflow before routing the total to flow_dir.
func ComputeFlowAccumulation(grid worldgrid.Grid, hydroElevation worldgrid.Field[float64], flowDir worldgrid.Field[FlowDir], rainfall worldgrid.Field[float64], isOcean worldgrid.Field[bool]) worldgrid.Field[float64] {
	flowAccum := worldgrid.NewField[float64](grid)
	copy(flowAccum.Data, rainfall.Data)

	order := make([]int, grid.Cells())
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return hydroElevation.Data[order[i]] > hydroElevation.Data[order[j]]
	})

	for _, idx := range order {
		x, y := grid.Coord(idx)
		if isOcean.At(x, y) {
			continue
		}
		dir := flowDir.At(x, y)
		if dir == Sink {
			continue
		}
		nx, ny, ok := grid.Neighbor8(x, y, int(dir), worldgrid.EdgeSink)
		if !ok {
			continue
		}
		flowAccum.Set(nx, ny, flowAccum.At(nx, ny)+flowAccum.At(x, y))
	}

	return flowAccum
}

// ComputeRiverFlag marks river_flag true where flow_accum reaches the
// given percentile of the land, non-ocean flow_accum distribution.
func ComputeRiverFlag(grid worldgrid.Grid, flowAccum worldgrid.Field[float64], isOcean worldgrid.Field[bool], percentile float64) worldgrid.Field[bool] {
	riverFlag := worldgrid.NewField[bool](grid)

	values := make([]float64, 0, grid.Cells())
	for i := range flowAccum.Data {
		x, y := grid.Coord(i)
		if !isOcean.At(x, y) {
			values = append(values, flowAccum.Data[i])
		}
	}
	if len(values) == 0 {
		return riverFlag
	}
	sort.Float64s(values)
	idx := int(percentile * float64(len(values)))
	if idx >= len(values) {
		idx = len(values) - 1
	}
	threshold := values[idx]

	for i := range flowAccum.Data {
		x, y := grid.Coord(i)
		if !isOcean.At(x, y) && flowAccum.Data[i] >= threshold {
			riverFlag.Set(x, y, true)
		}
	}

	return riverFlag
}
