package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/pkg/ratelimit"
	"go.uber.org/zap"
)

// LimitRecorder registra requisições bloqueadas
type LimitRecorder interface {
	RateLimitExceeded(path, method, limitType string)
}

// RateLimitMiddleware gerencia rate limiting
type RateLimitMiddleware struct {
	limiter  ratelimit.Limiter
	verifier TokenVerifier
	recorder LimitRecorder
	logger   *zap.Logger
}

// NewRateLimitMiddleware cria um novo middleware de rate limiting.
// Sem verifier, o limite é sempre por IP.
func NewRateLimitMiddleware(limiter ratelimit.Limiter, verifier TokenVerifier, recorder LimitRecorder, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:  limiter,
		verifier: verifier,
		recorder: recorder,
		logger:   logger,
	}
}

// Limit aplica o limite por usuário quando há um token válido e, sem ele, por IP.
// Roda antes da autenticação, por isso lê o token diretamente.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, limitType := "ip:"+c.ClientIP(), "ip_limit"
		if userID := m.tokenUser(c); userID > 0 {
			key, limitType = "user:"+strconv.FormatUint(uint64(userID), 10), "user_limit"
		}

		res, err := m.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			m.logger.Error("erro ao verificar rate limit", zap.Error(err))
			c.Next() // em caso de erro, permite a requisição
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if !res.Allowed {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			if m.recorder != nil {
				m.recorder.RateLimitExceeded(path, c.Request.Method, limitType)
			}
			m.logger.Warn("Limite de requisições excedido", zap.String("key", key), zap.String("path", path))

			retry := int(res.ResetAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Muitas requisições. Tente novamente em instantes",
				"retry_after": retry,
			})
			return
		}

		c.Next()
	}
}

// tokenUser devolve o usuário do Bearer token, ou 0 se ausente ou inválido
func (m *RateLimitMiddleware) tokenUser(c *gin.Context) uint {
	if userID := UserID(c); userID > 0 {
		return userID
	}
	if m.verifier == nil {
		return 0
	}
	tokenString, ok := bearerToken(c)
	if !ok {
		return 0
	}
	claims, err := m.verifier.ValidateToken(tokenString)
	if err != nil {
		return 0
	}
	return claims.UserID
}
