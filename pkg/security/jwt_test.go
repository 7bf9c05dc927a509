package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestKeyManager(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("RoundTripWithCompany", func(t *testing.T) {
		km, err := NewKeyManager("segredo-de-teste", time.Hour, logger)
		require.NoError(t, err)

		companyID := uint(3)
		token, err := km.GenerateToken(10, &companyID)
		require.NoError(t, err)

		claims, err := km.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, uint(10), claims.UserID)
		assert.True(t, claims.HasCompany())
		assert.Equal(t, uint(3), *claims.CompanyID)
	})

	t.Run("WithoutCompany", func(t *testing.T) {
		km, err := NewKeyManager("", time.Hour, logger)
		require.NoError(t, err)

		token, err := km.GenerateToken(1, nil)
		require.NoError(t, err)

		claims, err := km.VerifyToken(token)
		require.NoError(t, err)
		assert.False(t, claims.HasCompany())
	})

	t.Run("Expired", func(t *testing.T) {
		km, err := NewKeyManager("segredo-de-teste", time.Hour, logger)
		require.NoError(t, err)

		claims := &Claims{
			UserID: 1,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("segredo-de-teste"))
		require.NoError(t, err)

		_, err = km.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		km1, _ := NewKeyManager("um", time.Hour, logger)
		km2, _ := NewKeyManager("outro", time.Hour, logger)

		token, err := km1.GenerateToken(1, nil)
		require.NoError(t, err)

		_, err = km2.VerifyToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("123456")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "123456"))
	assert.False(t, CheckPassword(hash, "errada"))
}
