package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter usa um token bucket por chave, válido para uma única instância
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryLimiter permite limit requisições por window com rajadas de até burst
func NewMemoryLimiter(limit int, window time.Duration, burst int) *MemoryLimiter {
	if burst <= 0 {
		burst = limit
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		burst:    burst,
		ttl:      3 * window,
		now:      time.Now,
	}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evict(now)

	v, ok := m.visitors[key]
	if !ok {
		every := rate.Every(m.window / time.Duration(m.limit))
		v = &visitor{limiter: rate.NewLimiter(every, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now

	allowed := v.limiter.AllowN(now, 1)
	remaining := int(v.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}

	var resetAfter time.Duration
	if !allowed {
		resetAfter = m.window / time.Duration(m.limit)
	}

	return Result{Allowed: allowed, Limit: m.burst, Remaining: remaining, ResetAfter: resetAfter}, nil
}

func (m *MemoryLimiter) evict(now time.Time) {
	for key, v := range m.visitors {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.visitors, key)
		}
	}
}
