package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/pkg/logging"
	"github.com/representacao/backend/pkg/security"
	"go.uber.org/zap"
)

// Chaves gravadas no gin.Context depois da autenticação
const (
	ContextUserID    = "user_id"
	ContextCompanyID = "company_id"
	ContextClaims    = "claims"
)

// TokenVerifier valida o token recebido no header Authorization
type TokenVerifier interface {
	ValidateToken(tokenString string) (*security.Claims, error)
}

// TokenVerifierFunc permite usar uma função, como KeyManager.VerifyToken, como TokenVerifier
type TokenVerifierFunc func(tokenString string) (*security.Claims, error)

func (f TokenVerifierFunc) ValidateToken(tokenString string) (*security.Claims, error) {
	return f(tokenString)
}

// AuthMiddleware gerencia middlewares de autenticação
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware cria uma nova instância do middleware de autenticação
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate exige um Bearer token válido
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token de acesso não fornecido"})
			return
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Formato inválido do token"})
			return
		}

		claims, err := m.verifier.ValidateToken(tokenString)
		if err != nil {
			msg := "Token inválido"
			if errors.Is(err, security.ErrTokenExpired) {
				msg = "Token expirado"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUserID, claims.UserID)
		fields := []zap.Field{zap.Uint("user_id", claims.UserID)}
		if claims.HasCompany() {
			c.Set(ContextCompanyID, *claims.CompanyID)
			fields = append(fields, zap.Uint("company_id", *claims.CompanyID))
		}
		c.Request = c.Request.WithContext(logging.WithFields(c.Request.Context(), fields...))

		c.Next()
	}
}

// bearerToken extrai o token do header Authorization
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// RequireCompany bloqueia rotas de empresa para tokens sem empresa selecionada
func (m *AuthMiddleware) RequireCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CompanyID(c); !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Empresa não selecionada"})
			return
		}
		c.Next()
	}
}

// UserID devolve o usuário autenticado
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

// CompanyID devolve a empresa selecionada no token
func CompanyID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextCompanyID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id > 0
}

// CompanyIDPtr é CompanyID como ponteiro, nil sem empresa
func CompanyIDPtr(c *gin.Context) *uint {
	if id, ok := CompanyID(c); ok {
		return &id
	}
	return nil
}
