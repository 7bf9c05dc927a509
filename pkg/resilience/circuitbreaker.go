package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen é retornado quando o circuit breaker está aberto
var ErrCircuitOpen = errors.New("circuit breaker aberto")

// CircuitState representa os estados possíveis do circuit breaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// StateRecorder recebe as mudanças de estado (implementado pelas métricas)
type StateRecorder interface {
	CircuitBreakerStateChanged(name string, open bool)
}

// CircuitBreakerConfig contém a configuração do circuit breaker
type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // falhas consecutivas até abrir
	ResetTimeout     time.Duration // tempo aberto antes de liberar uma tentativa
	HalfOpenRequests int           // tentativas simultâneas no estado meio-aberto

	// IsFailure decide se um erro conta como falha do serviço remoto.
	// Por padrão todo erro conta.
	IsFailure func(error) bool
}

// CircuitBreaker protege chamadas a serviços externos
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu               sync.Mutex
	state            CircuitState
	failCount        int
	openedAt         time.Time
	halfOpenInFlight int
	now              func() time.Time

	logger   *zap.Logger
	recorder StateRecorder
}

// NewCircuitBreaker cria um novo circuit breaker
func NewCircuitBreaker(cfg CircuitBreakerConfig, logger *zap.Logger, recorder StateRecorder) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.HalfOpenRequests <= 0 {
		cfg.HalfOpenRequests = 1
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		cfg:      cfg,
		state:    StateClosed,
		now:      time.Now,
		logger:   logger,
		recorder: recorder,
	}
}

// Execute roda fn se o circuito permitir e registra o resultado
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}

	err := fn(ctx)
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.ResetTimeout {
			return false
		}
		cb.state = StateHalfOpen
		cb.halfOpenInFlight = 0
		cb.logger.Info("circuit breaker mudou para estado meio-aberto", zap.String("name", cb.cfg.Name))
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenInFlight >= cb.cfg.HalfOpenRequests {
			return false
		}
		cb.halfOpenInFlight++
		return true
	}
	return false
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.cfg.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if !failed {
			cb.failCount = 0
			return
		}
		cb.failCount++
		cb.logger.Debug("circuit breaker registrou falha",
			zap.String("name", cb.cfg.Name),
			zap.Int("failCount", cb.failCount))
		if cb.failCount >= cb.cfg.FailureThreshold {
			cb.open()
		}
	case StateHalfOpen:
		cb.halfOpenInFlight--
		if failed {
			cb.open()
		} else {
			cb.close()
		}
	}
}

func (cb *CircuitBreaker) open() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	if cb.recorder != nil {
		cb.recorder.CircuitBreakerStateChanged(cb.cfg.Name, true)
	}
	cb.logger.Warn("circuit breaker mudou para estado aberto",
		zap.String("name", cb.cfg.Name),
		zap.Duration("resetTimeout", cb.cfg.ResetTimeout))
}

func (cb *CircuitBreaker) close() {
	cb.state = StateClosed
	cb.failCount = 0
	if cb.recorder != nil {
		cb.recorder.CircuitBreakerStateChanged(cb.cfg.Name, false)
	}
	cb.logger.Info("circuit breaker mudou para estado fechado", zap.String("name", cb.cfg.Name))
}

// State retorna o estado atual do circuit breaker
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset volta o circuit breaker para o estado fechado
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.close()
}
