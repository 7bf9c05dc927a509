package cache

import (
	"context"
	"testing"
	"time"

	"github.com/representacao/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type ratioRecorder struct {
	last float64
}

func (r *ratioRecorder) UpdateCacheHitRatio(cacheType string, ratio float64) {
	r.last = ratio
}

type product struct {
	Code  string   `json:"code"`
	Sizes []string `json:"sizes"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	recorder := &ratioRecorder{}
	c := NewMemoryCache(time.Minute, time.Minute, recorder, zaptest.NewLogger(t))

	var dest []product
	found, err := c.Get(ctx, "products:1", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	stored := []product{{Code: "CAMISETA-001", Sizes: []string{"P", "M"}}}
	require.NoError(t, c.Set(ctx, "products:1", stored, time.Minute))

	// alterar o original não afeta o valor em cache
	stored[0].Sizes[0] = "XG"

	found, err = c.Get(ctx, "products:1", &dest)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "P", dest[0].Sizes[0])
	assert.InDelta(t, 0.5, recorder.last, 0.001)

	require.NoError(t, c.Delete(ctx, "products:1", "outra"))
	found, _ = c.Get(ctx, "products:1", &dest)
	assert.False(t, found)
}

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)

	c, err := New(config.CacheConfig{Enabled: false}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &NoOpCache{}, c)

	c, err = New(config.CacheConfig{Enabled: true, Type: "memory", TTL: time.Minute}, nil, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	_, err = New(config.CacheConfig{Enabled: true, Type: "memcached"}, nil, logger)
	assert.Error(t, err)
}
