package pipeline

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"worldgen/internal/apperr"
	"worldgen/internal/debug"
	"worldgen/internal/logging"
	"worldgen/internal/metrics"
	"worldgen/internal/worldgen/geography"
	"worldgen/internal/worldgen/weather"
	"worldgen/internal/worldgrid"
)

// timeStage runs fn, recording its duration to both the debug logger (if
// s's diagnostics are active and perf timing is on) and the
// stage-duration histogram.
func timeStage(s debug.Stage, name string, fn func()) {
	stop := debug.Time(s, name)
	start := time.Now()
	fn()
	metrics.RecordStageDuration(name, time.Since(start))
	stop()
}

// Generate runs every stage (S1-S9) in strict order against cfg and
// returns the completed World. It is a single synchronous call: there
// are no suspension points from the caller's perspective, matching the
// concurrency model's scheduling guarantee. Cancellation is cooperative:
// ctx is polled at each stage boundary and partial work is discarded.
func Generate(ctx context.Context, cfg Config) (world *geography.World, err error) {
	defer func() {
		if err != nil {
			metrics.RecordGeneration(outcomeFor(err))
		}
	}()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	generationID := uuid.New()
	ctx, _ = logging.WithGeneration(ctx, generationID)
	logger := logging.FromContext(ctx)
	logger.Info().
		Int("width", cfg.Width).Int("height", cfg.Height).
		Uint64("seed", cfg.Seed).Int("plates", cfg.Plates).
		Msg("generation started")

	grid, ok := worldgrid.NewGrid(cfg.Width, cfg.Height)
	if !ok {
		return nil, apperr.Config("invalid grid dimensions %dx%d", cfg.Width, cfg.Height)
	}

	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	world = geography.NewWorld(grid)

	// S1: plate synthesis.
	timeStage(debug.StagePlates, "plates", func() {
		r := worldgrid.StageRand(cfg.Seed, "plates")
		world.Plates, world.PlateID = geography.SynthesizePlates(grid, cfg.Plates, cfg.Water, r)
		world.PlateVelX, world.PlateVelY = geography.PlateVelocityFields(grid, world.Plates, world.PlateID)
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := checkPlateContiguity(grid, world.PlateID); err != nil {
		return nil, err
	}

	// S2: tectonic uplift.
	timeStage(debug.StageUplift, "uplift", func() {
		world.BaseElevation = geography.ComputeUplift(grid, world.Plates, world.PlateID)
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// S3: noise, erosion, smoothing.
	timeStage(debug.StageErosion, "erosion", func() {
		r := worldgrid.StageRand(cfg.Seed, "erosion")
		params := geography.DefaultErosionParams(grid, cfg.Scale)
		world.Elevation = geography.ApplyNoiseErosionSmoothing(grid, world.BaseElevation, params, r)
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := checkNoNaN(world.Elevation.Data, "elevation"); err != nil {
		return nil, err
	}

	// S4: sea level & mask.
	world.SeaLevel = geography.ComputeSeaLevel(world.Elevation, cfg.Water)
	world.IsOcean = geography.ComputeOceanMask(grid, world.Elevation, world.SeaLevel)
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := checkOceanMaskConnectivity(grid, world.IsOcean); err != nil {
		return nil, err
	}

	// S5: temperature.
	timeStage(debug.StageClimate, "temperature", func() {
		world.Temperature = weather.ComputeTemperature(grid, world.Elevation, world.SeaLevel, world.IsOcean, weather.DefaultTemperatureParams())
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// S6: prevailing winds.
	timeStage(debug.StageClimate, "winds", func() {
		world.WindVecX, world.WindVecY = weather.ComputePrevailingWinds(grid)
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// S7: orographic precipitation.
	timeStage(debug.StageClimate, "precipitation", func() {
		params := weather.DefaultPrecipitationParams(cfg.RainIntensity)
		world.Rainfall = weather.ComputeRainfall(grid, world.Elevation, world.Temperature, world.IsOcean, world.WindVecX, world.WindVecY, params)
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}
	if err := checkNoNegativeRainfall(world.Rainfall.Data); err != nil {
		return nil, err
	}

	// S8: hydrology.
	timeStage(debug.StageHydrology, "hydrology", func() {
		world.HydroElevation, world.LakeFlag = geography.PriorityFlood(grid, world.Elevation, world.IsOcean)
		world.FlowDirField = geography.ComputeFlowDirections(grid, world.HydroElevation, world.IsOcean)
		world.FlowAccum = geography.ComputeFlowAccumulation(grid, world.HydroElevation, world.FlowDirField, world.Rainfall, world.IsOcean)
		world.RiverFlag = geography.ComputeRiverFlag(grid, world.FlowAccum, world.IsOcean, cfg.RiverPercentile)
	})
	if err := checkCancelled(ctx); err != nil {
		return nil, err
	}

	// S9: biome assignment.
	timeStage(debug.StageClimate, "biomes", func() {
		world.BiomeField = geography.AssignBiomes(grid, world.Elevation, world.SeaLevel, world.Temperature, world.Rainfall, world.IsOcean, geography.DefaultBiomeParams())
	})
	if err := checkNoUnsetBiome(world.BiomeField.Data); err != nil {
		return nil, err
	}

	metrics.RecordGeneration("success")
	logger.Info().Msg("generation completed")
	return world, nil
}

// outcomeFor maps an error to the "outcome" label recorded on the
// worldgen_generations_total counter.
func outcomeFor(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.Kind.String()
	}
	return "error"
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return apperr.New(apperr.Cancelled, "generation cancelled")
	default:
		return nil
	}
}

func checkNoNaN(data []float64, field string) error {
	for _, v := range data {
		if math.IsNaN(v) {
			return apperr.Invariant("field %s contains NaN", field)
		}
	}
	return nil
}

func checkNoNegativeRainfall(data []float64) error {
	for _, v := range data {
		if v < 0 {
			return apperr.Invariant("rainfall contains a negative value")
		}
	}
	return nil
}

func checkNoUnsetBiome(data []geography.Biome) error {
	for _, b := range data {
		if b == geography.BiomeUnset {
			return apperr.Invariant("a cell was left with biome=UNSET")
		}
	}
	return nil
}

// checkPlateContiguity verifies every plate_id region is a single
// 4-connected component, the cheap structural check that catches a
// broken nearest-seed tie-break before uplift wastes time on a bad
// partition.
func checkPlateContiguity(grid worldgrid.Grid, plateID worldgrid.Field[int]) error {
	n := grid.Cells()
	visited := make([]bool, n)
	seenPlate := make(map[int]bool)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		sx, sy := grid.Coord(start)
		plate := plateID.At(sx, sy)
		if seenPlate[plate] {
			return apperr.Invariant("plate_id %d is not 4-connected", plate)
		}
		seenPlate[plate] = true

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
	return nil
}

// checkOceanMaskConnectivity verifies every is_ocean cell is 4-connected
// to a grid edge through is_ocean cells, per the data model invariant.
func checkOceanMaskConnectivity(grid worldgrid.Grid, isOcean worldgrid.Field[bool]) error {
	visited := worldgrid.NewField[bool](grid)
	queue := make([]int, 0, grid.Width*2+grid.Height*2)
	push := func(x, y int) {
		if !isOcean.At(x, y) || visited.At(x, y) {
			return
		}
		visited.Set(x, y, true)
		queue = append(queue, grid.Index(x, y))
	}
	for x := 0; x < grid.Width; x++ {
		push(x, 0)
		push(x, grid.Height-1)
	}
	for y := 0; y < grid.Height; y++ {
		push(0, y)
		push(grid.Width-1, y)
	}
	for len(queue) > 0 {
		idx := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := grid.Coord(idx)
		grid.EachNeighbor4(x, y, worldgrid.EdgeSink, func(_ int, nx, ny int) {
			push(nx, ny)
		})
	}

	for i, ocean := range isOcean.Data {
		if ocean && !visited.Data[i] {
			x, y := grid.Coord(i)
			return apperr.Invariant("is_ocean cell at (%d,%d) is not edge-connected", x, y)
		}
	}
	return nil
}
