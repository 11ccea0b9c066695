package worldgrid

import "math/rand"

// StageSeed mixes the master seed with a stage tag to derive an
// independent, reproducible child seed. Every stage that needs
// randomness calls this instead of sharing one *rand.Rand, so stage
// output stays identical regardless of how much randomness a sibling
// stage consumed or how parallelism is scheduled within a stage.
//
// The mix folds each tag character in with an FNV-1a-style xor/multiply
// step and finishes with the MurmurHash3 64-bit finalizer; it is not
// cryptographic, only deterministic and well-distributed across stage
// tags.
func StageSeed(masterSeed uint64, stageTag string) int64 {
	h := masterSeed
	for _, c := range stageTag {
		h ^= uint64(c)
		h *= 0x100000001b3
	}
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return int64(h)
}

// StageRand returns a new *rand.Rand seeded by mixing masterSeed with
// stageTag. Each stage (and each independently-parallel sub-unit within
// a stage, e.g. one per droplet batch) should request its own stream by
// tag rather than sharing a generator.
func StageRand(masterSeed uint64, stageTag string) *rand.Rand {
	return rand.New(rand.NewSource(StageSeed(masterSeed, stageTag)))
}
