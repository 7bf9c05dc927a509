package ratelimit

import (
	"context"
	"time"
)

// Result descreve a decisão do limitador para uma chave
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter decide se uma requisição identificada por key pode prosseguir
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
