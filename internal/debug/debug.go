// Package debug gates per-stage timing and verbose logging during
// generation. Diagnostics are keyed by Stage, the same enumeration the
// pipeline package uses to bound each phase of work, so enabling
// diagnostics for a stage and timing that stage always refer to the
// same thing instead of a separately maintained set of flag constants.
package debug

import (
	"log"
	"sync/atomic"
	"time"
)

// Stage identifies one phase of the generation pipeline.
type Stage int

const (
	StagePlates Stage = iota
	StageUplift
	StageErosion
	StageHydrology
	StageClimate
	StageRender
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StagePlates:
		return "plates"
	case StageUplift:
		return "uplift"
	case StageErosion:
		return "erosion"
	case StageHydrology:
		return "hydrology"
	case StageClimate:
		return "climate"
	case StageRender:
		return "render"
	default:
		return "unknown-stage"
	}
}

// bit is this stage's position in the active-stage mask, derived from
// the constant's own position in the iota list above rather than a
// separate hand-written shift per stage.
func (s Stage) bit() uint64 {
	return 1 << uint(s)
}

const allStagesMask = (uint64(1) << uint(stageCount)) - 1

var (
	activeStages uint64 // atomic bitmask, one bit per Stage
	perfEnabled  int32  // atomic bool
)

// SetStages replaces the active stage mask wholesale.
func SetStages(mask uint64) {
	atomic.StoreUint64(&activeStages, mask)
}

// EnableAllStages turns on diagnostics for every known stage.
func EnableAllStages() {
	SetStages(allStagesMask)
}

// Enable turns on diagnostics for a single stage.
func Enable(s Stage) {
	for {
		old := atomic.LoadUint64(&activeStages)
		if atomic.CompareAndSwapUint64(&activeStages, old, old|s.bit()) {
			return
		}
	}
}

// Disable turns off diagnostics for a single stage.
func Disable(s Stage) {
	for {
		old := atomic.LoadUint64(&activeStages)
		if atomic.CompareAndSwapUint64(&activeStages, old, old&^s.bit()) {
			return
		}
	}
}

// Is reports whether s's diagnostics are currently active.
func Is(s Stage) bool {
	return atomic.LoadUint64(&activeStages)&s.bit() != 0
}

// SetPerf toggles stage-duration timing independent of which stages
// have verbose logging on.
func SetPerf(on bool) {
	var v int32
	if on {
		v = 1
	}
	atomic.StoreInt32(&perfEnabled, v)
}

func perfOn() bool {
	return atomic.LoadInt32(&perfEnabled) == 1
}

// Log prints a message if s is active.
func Log(s Stage, format string, args ...interface{}) {
	if Is(s) {
		log.Printf("[%s] "+format, append([]interface{}{s}, args...)...)
	}
}

// Time returns a function that, when called, logs the elapsed time for
// name under stage s. Only fires when both s is active and perf timing
// is on; otherwise it's a no-op so the deferred call costs nothing.
// Usage: defer debug.Time(debug.StageErosion, "erosion")()
func Time(s Stage, name string) func() {
	if !Is(s) || !perfOn() {
		return func() {}
	}
	start := time.Now()
	return func() {
		log.Printf("[%s] %s took %v", s, name, time.Since(start))
	}
}

// SetFromLevel maps the WORLDGEN_LOG level onto diagnostic defaults:
// "debug" turns on every stage plus timing, anything else turns
// diagnostics off entirely. Finer-grained combinations are reached with
// Enable/Disable/SetPerf directly.
func SetFromLevel(level string) {
	if level == "debug" {
		EnableAllStages()
		SetPerf(true)
		return
	}
	SetStages(0)
	SetPerf(false)
}
