package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Janela fixa: INCR na chave do período e EXPIREAT no primeiro acesso
var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIREAT', KEYS[1], tonumber(ARGV[1]))
end
return count
`)

// RedisLimiter implementa rate limiting compartilhado entre instâncias usando Redis
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewRedisLimiter cria um novo limitador baseado em Redis
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) (*RedisLimiter, error) {
	if limit <= 0 {
		return nil, errors.New("limite deve ser maior que zero")
	}
	if window < time.Second {
		return nil, errors.New("janela deve ser de pelo menos um segundo")
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("representacao.ratelimit"),
		now:    time.Now,
	}, nil
}

// Allow incrementa o contador da janela atual. Em erro do Redis a requisição é liberada.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	ctx, span := r.tracer.Start(ctx, "RedisLimiter.Allow",
		trace.WithAttributes(
			attribute.String("ratelimit.key", key),
			attribute.Int("ratelimit.limit", r.limit),
		),
	)
	defer span.End()

	now := r.now().Unix()
	windowSeconds := int64(r.window.Seconds())
	expireAt := now - (now % windowSeconds) + windowSeconds
	resetAfter := time.Duration(expireAt-now) * time.Second

	redisKey := fmt.Sprintf("representacao:ratelimit:%s:%d", key, expireAt)

	count, err := fixedWindowScript.Run(ctx, r.client, []string{redisKey}, expireAt).Int()
	if err != nil {
		r.logger.Error("erro ao executar script de rate limit", zap.Error(err))
		span.SetStatus(codes.Error, "redis script error")
		return Result{Allowed: true, Limit: r.limit, Remaining: r.limit, ResetAfter: resetAfter}, err
	}

	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}
	allowed := count <= r.limit

	span.SetAttributes(
		attribute.Int("ratelimit.count", count),
		attribute.Bool("ratelimit.allowed", allowed),
	)

	return Result{Allowed: allowed, Limit: r.limit, Remaining: remaining, ResetAfter: resetAfter}, nil
}
