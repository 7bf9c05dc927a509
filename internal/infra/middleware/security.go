package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SecurityMiddleware implementa proteções de segurança
type SecurityMiddleware struct {
	allowedOrigins map[string]bool
	allowAll       bool
	maxAge         time.Duration
	logger         *zap.Logger
}

// NewSecurityMiddleware cria o middleware com as origens liberadas para CORS; "*" libera todas
func NewSecurityMiddleware(allowedOrigins []string, maxAge time.Duration, logger *zap.Logger) *SecurityMiddleware {
	m := &SecurityMiddleware{
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
		maxAge:         maxAge,
		logger:         logger,
	}
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			m.allowAll = true
		}
		if o != "" {
			m.allowedOrigins[o] = true
		}
	}
	return m
}

// Headers adiciona cabeçalhos de segurança
func (m *SecurityMiddleware) Headers() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Proteção contra clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Proteção contra MIME-sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")

		c.Next()
	}
}

// CORS responde apenas para origens configuradas
func (m *SecurityMiddleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && (m.allowAll || m.allowedOrigins[origin]) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID, X-RateLimit-Remaining, Retry-After")
			h.Add("Vary", "Origin")
			if m.maxAge > 0 {
				h.Set("Access-Control-Max-Age", strconv.Itoa(int(m.maxAge.Seconds())))
			}
		} else if origin != "" {
			m.logger.Debug("Origem não permitida", zap.String("origin", origin))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
