package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MemoryCache guarda valores serializados em JSON num go-cache local,
// assim quem lê nunca compartilha ponteiros com quem gravou
type MemoryCache struct {
	cache    *gocache.Cache
	logger   *zap.Logger
	hits     int64
	misses   int64
	recorder HitRecorder
}

// NewMemoryCache cria uma nova instância de MemoryCache
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration, recorder HitRecorder, logger *zap.Logger) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &MemoryCache{
		cache:    gocache.New(defaultExpiration, cleanupInterval),
		logger:   logger,
		recorder: recorder,
	}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar para cache", zap.String("key", key), zap.Error(err))
		return err
	}
	c.cache.Set(KeyPrefix+key, data, expiration)
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	value, found := c.cache.Get(KeyPrefix + key)
	if !found {
		recordRatio(c.recorder, "memory", atomic.LoadInt64(&c.hits), atomic.AddInt64(&c.misses, 1))
		return false, nil
	}
	recordRatio(c.recorder, "memory", atomic.AddInt64(&c.hits, 1), atomic.LoadInt64(&c.misses))

	data, _ := value.([]byte)
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar do cache", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(KeyPrefix + key)
	}
	return nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.Flush()
	return nil
}

// Ping sempre funciona para o cache em memória
func (c *MemoryCache) Ping(ctx context.Context) error {
	return nil
}
