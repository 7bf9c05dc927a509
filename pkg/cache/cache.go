package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/representacao/backend/pkg/config"
	"go.uber.org/zap"
)

// KeyPrefix é aplicado a todas as chaves gravadas pela aplicação
const KeyPrefix = "representacao:"

// Cache define a interface para operações de cache
type Cache interface {
	// Set armazena um valor no cache com tempo de expiração
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Get recupera um valor do cache; retorna false em cache miss
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Delete remove as chaves informadas
	Delete(ctx context.Context, keys ...string) error

	// Clear remove todos os valores da aplicação
	Clear(ctx context.Context) error

	// Ping verifica se o cache está acessível
	Ping(ctx context.Context) error
}

// HitRecorder recebe a taxa de acerto do cache (implementado pelas métricas)
type HitRecorder interface {
	UpdateCacheHitRatio(cacheType string, ratio float64)
}

// New cria o cache descrito pela configuração
func New(cfg config.CacheConfig, recorder HitRecorder, logger *zap.Logger) (Cache, error) {
	if !cfg.Enabled {
		logger.Info("cache desabilitado")
		return &NoOpCache{}, nil
	}

	switch cfg.Type {
	case "memory", "":
		return NewMemoryCache(cfg.TTL, 2*cfg.TTL, recorder, logger), nil
	case "redis":
		return NewRedisCache(cfg.Redis, logger)
	default:
		return nil, fmt.Errorf("tipo de cache não suportado: %s", cfg.Type)
	}
}

func recordRatio(recorder HitRecorder, cacheType string, hits, misses int64) {
	if recorder == nil {
		return
	}
	if total := hits + misses; total > 0 {
		recorder.UpdateCacheHitRatio(cacheType, float64(hits)/float64(total))
	}
}
