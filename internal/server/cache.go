package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"worldgen/internal/metrics"
	"worldgen/internal/worldgen/pipeline"
)

// artifactTTL bounds how long a generated world's encoded artifacts stay
// in Redis before the cache forgets them and a request regenerates.
const artifactTTL = time.Hour

// ArtifactCache stores PNG and IR bytes for a completed generation keyed
// by the hash of its Config, so two requests for the same seed/params
// don't redo the simulation.
type ArtifactCache struct {
	client *redis.Client
}

// NewArtifactCache wraps an existing redis client. A nil client disables
// caching: every lookup misses and every store is a no-op.
func NewArtifactCache(client *redis.Client) *ArtifactCache {
	return &ArtifactCache{client: client}
}

// Key hashes cfg into a stable cache key: identical seed and generation
// parameters always produce the same key, matching Generate's own
// determinism guarantee.
func Key(cfg pipeline.Config) string {
	payload, _ := json.Marshal(cfg)
	sum := sha256.Sum256(payload)
	return "worldgen:artifact:" + hex.EncodeToString(sum[:])
}

type cachedArtifact struct {
	PNG []byte `json:"png"`
	IR  []byte `json:"ir"`
}

// Get returns the cached PNG and IR bytes for key, or ok=false on a miss
// or when caching is disabled.
func (c *ArtifactCache) Get(ctx context.Context, key string) (png, ir []byte, ok bool) {
	if c.client == nil {
		return nil, nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.RecordCacheMiss()
		return nil, nil, false
	}
	var art cachedArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		metrics.RecordCacheMiss()
		return nil, nil, false
	}
	metrics.RecordCacheHit()
	return art.PNG, art.IR, true
}

// Set stores png and ir bytes under key with artifactTTL. Errors are
// swallowed: a failed cache write should never fail the request that
// already has its artifacts in hand.
func (c *ArtifactCache) Set(ctx context.Context, key string, png, ir []byte) {
	if c.client == nil {
		return
	}
	payload, err := json.Marshal(cachedArtifact{PNG: png, IR: ir})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, artifactTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("artifact cache set failed")
	}
}
