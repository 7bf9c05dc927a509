package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/representacao/backend/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RedisCache implementa a interface Cache usando Redis
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRedisClient cria e testa um cliente Redis a partir da configuração.
// O mesmo cliente é compartilhado com o rate limiter.
func NewRedisClient(opts config.RedisOptions, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		DialTimeout:  opts.DialTimeout,
		PoolTimeout:  opts.PoolTimeout,
		IdleTimeout:  opts.IdleTimeout,
		MaxConnAge:   opts.MaxConnAge,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Falha ao conectar ao Redis", zap.String("addr", opts.Address), zap.Error(err))
		_ = client.Close()
		return nil, fmt.Errorf("falha ao conectar ao Redis: %w", err)
	}

	logger.Info("Conexão com Redis estabelecida com sucesso",
		zap.String("addr", opts.Address),
		zap.Int("db", opts.DB))

	return client, nil
}

// NewRedisCache conecta ao Redis e devolve o cache
func NewRedisCache(opts config.RedisOptions, logger *zap.Logger) (*RedisCache, error) {
	client, err := NewRedisClient(opts, logger)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithClient(client, logger), nil
}

// NewRedisCacheWithClient usa um cliente já criado
func NewRedisCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("representacao.cache.redis"),
	}
}

// Client expõe o cliente Redis subjacente
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Set",
		trace.WithAttributes(
			attribute.String("cache.key", key),
			attribute.Int64("cache.expiration_ms", expiration.Milliseconds()),
		),
	)
	defer span.End()

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Error("falha ao serializar para cache", zap.Error(err))
		span.SetStatus(codes.Error, "serialization failure")
		return err
	}
	span.SetAttributes(attribute.Int("cache.data_size_bytes", len(data)))

	if err := c.client.Set(ctx, KeyPrefix+key, data, expiration).Err(); err != nil {
		c.logger.Error("falha ao armazenar no Redis", zap.String("key", key), zap.Error(err))
		span.SetStatus(codes.Error, "redis error")
		span.SetAttributes(attribute.String("error.message", err.Error()))
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Get",
		trace.WithAttributes(attribute.String("cache.key", key)),
	)
	defer span.End()

	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.Bool("cache.hit", false))
			return false, nil
		}
		c.logger.Error("falha ao recuperar do cache", zap.String("key", key), zap.Error(err))
		span.SetStatus(codes.Error, "redis error")
		span.SetAttributes(attribute.String("error.message", err.Error()))
		return false, err
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Error("falha ao deserializar do cache", zap.String("key", key), zap.Error(err))
		span.SetStatus(codes.Error, "deserialization failure")
		return false, err
	}

	span.SetStatus(codes.Ok, "cache hit")
	return true, nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	ctx, span := c.tracer.Start(ctx, "RedisCache.Delete",
		trace.WithAttributes(attribute.StringSlice("cache.keys", keys)),
	)
	defer span.End()

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = KeyPrefix + k
	}

	removed, err := c.client.Del(ctx, prefixed...).Result()
	if err != nil {
		c.logger.Error("falha ao remover do cache", zap.Strings("keys", keys), zap.Error(err))
		span.SetStatus(codes.Error, "redis error")
		return err
	}

	span.SetAttributes(attribute.Int64("cache.keys_removed", removed))
	return nil
}

// Clear remove as chaves da aplicação usando SCAN para não bloquear o Redis
func (c *RedisCache) Clear(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "RedisCache.Clear")
	defer span.End()

	iter := c.client.Scan(ctx, 0, KeyPrefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				span.SetStatus(codes.Error, "redis delete error")
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		span.SetStatus(codes.Error, "redis scan error")
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.Error("falha ao fazer ping no Redis", zap.Error(err))
		return err
	}
	return nil
}
