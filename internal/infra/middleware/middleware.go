package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/infra/metrics"
	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/ratelimit"
	"go.uber.org/zap"
)

// Middleware contém todos os middlewares da aplicação
type Middleware struct {
	logger              *zap.Logger
	authMiddleware      *AuthMiddleware
	recoveryMiddleware  *RecoveryMiddleware
	securityMiddleware  *SecurityMiddleware
	tracingMiddleware   *TracingMiddleware
	metricsMiddleware   *MetricsMiddleware
	rateLimitMiddleware *RateLimitMiddleware
}

// NewMiddleware cria o conjunto de middlewares. limiter e apiMetrics podem ser nil
// quando o recurso correspondente está desabilitado.
func NewMiddleware(cfg *config.Config, verifier TokenVerifier, limiter ratelimit.Limiter, apiMetrics *metrics.APIMetrics, logger *zap.Logger) *Middleware {
	m := &Middleware{
		logger:             logger,
		authMiddleware:     NewAuthMiddleware(verifier, logger),
		recoveryMiddleware: NewRecoveryMiddleware(logger),
		securityMiddleware: NewSecurityMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.MaxAge, logger),
		tracingMiddleware:  NewTracingMiddleware(cfg.Tracing.ServiceName, logger),
	}
	if apiMetrics != nil {
		m.metricsMiddleware = NewMetricsMiddleware(apiMetrics, logger)
	}
	if limiter != nil {
		var recorder LimitRecorder
		if apiMetrics != nil {
			recorder = apiMetrics
		}
		m.rateLimitMiddleware = NewRateLimitMiddleware(limiter, verifier, recorder, logger)
	}
	return m
}

func noop(c *gin.Context) { c.Next() }

// Metrics retorna o middleware de métricas
func (m *Middleware) Metrics() gin.HandlerFunc {
	if m.metricsMiddleware != nil {
		return m.metricsMiddleware.Middleware()
	}
	return noop
}

// RegisterMetricsEndpoint expõe /metrics quando as métricas estão habilitadas
func (m *Middleware) RegisterMetricsEndpoint(router gin.IRoutes, path string) {
	if m.metricsMiddleware != nil {
		m.metricsMiddleware.RegisterEndpoint(router, path)
	}
}

// RateLimit retorna o limitador de requisições
func (m *Middleware) RateLimit() gin.HandlerFunc {
	if m.rateLimitMiddleware != nil {
		return m.rateLimitMiddleware.Limit()
	}
	return noop
}

// Authenticate middleware para autenticação de usuários
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return m.authMiddleware.Authenticate()
}

// RequireCompany exige empresa selecionada no token
func (m *Middleware) RequireCompany() gin.HandlerFunc {
	return m.authMiddleware.RequireCompany()
}

// Recovery middleware para recuperação de pânicos
func (m *Middleware) Recovery() gin.HandlerFunc {
	return m.recoveryMiddleware.Recovery()
}

// IgnoreFavicon é um middleware que ignora requisições para /favicon.ico
func (m *Middleware) IgnoreFavicon() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/favicon.ico" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Logger middleware para logging de requisições
func (m *Middleware) Logger() gin.HandlerFunc {
	return RequestLogger(m.logger)
}

// SecurityHeaders middleware para adicionar cabeçalhos de segurança
func (m *Middleware) SecurityHeaders() gin.HandlerFunc {
	return m.securityMiddleware.Headers()
}

// CORS middleware para configurar CORS
func (m *Middleware) CORS() gin.HandlerFunc {
	return m.securityMiddleware.CORS()
}

// Tracing retorna o middleware de tracing
func (m *Middleware) Tracing() gin.HandlerFunc {
	return m.tracingMiddleware.Middleware()
}
