package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrTokenExpired = errors.New("token expirado")
	ErrTokenInvalid = errors.New("token inválido")
)

// Claims carrega o usuário autenticado e a empresa selecionada, quando houver
type Claims struct {
	UserID    uint  `json:"user_id"`
	CompanyID *uint `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// HasCompany informa se o token já tem empresa selecionada
func (c *Claims) HasCompany() bool {
	return c.CompanyID != nil && *c.CompanyID > 0
}

type KeyManager struct {
	secretKey  []byte
	expiration time.Duration
	logger     *zap.Logger
}

// NewKeyManager cria o gerenciador de tokens. Sem segredo configurado, uma chave
// aleatória é gerada e os tokens deixam de valer quando o processo reinicia.
func NewKeyManager(secret string, expiration time.Duration, logger *zap.Logger) (*KeyManager, error) {
	secretKey := []byte(secret)
	if len(secretKey) == 0 {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("falha ao gerar chave temporária: %w", err)
		}
		secretKey = []byte(hex.EncodeToString(buf))
		logger.Warn("usando chave JWT temporária")
	}

	if expiration <= 0 {
		expiration = 24 * time.Hour
	}

	return &KeyManager{
		secretKey:  secretKey,
		expiration: expiration,
		logger:     logger,
	}, nil
}

// GenerateToken emite um token para o usuário. companyID pode ser nil.
func (km *KeyManager) GenerateToken(userID uint, companyID *uint) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    userID,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(km.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(km.secretKey)
	if err != nil {
		km.logger.Error("falha ao gerar token JWT", zap.Error(err))
		return "", err
	}

	return tokenString, nil
}

func (km *KeyManager) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return km.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		km.logger.Debug("falha ao validar token JWT", zap.Error(err))
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID > 0 {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}
