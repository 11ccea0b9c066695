package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"worldgen/internal/worldgen/pipeline"
)

func TestKeyIsDeterministicAndParamSensitive(t *testing.T) {
	a := pipeline.Config{Width: 64, Height: 64, Seed: 1, Water: 0.6, Plates: 6}
	b := a
	c := a
	c.Seed = 2

	assert.Equal(t, Key(a), Key(b))
	assert.NotEqual(t, Key(a), Key(c))
}

func TestArtifactCacheWithNilClientAlwaysMisses(t *testing.T) {
	cache := NewArtifactCache(nil)
	_, _, ok := cache.Get(context.Background(), "any-key")
	assert.False(t, ok)

	cache.Set(context.Background(), "any-key", []byte("png"), []byte("ir"))
	_, _, ok = cache.Get(context.Background(), "any-key")
	assert.False(t, ok)
}
