package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/infra/metrics"
	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/ratelimit"
	"github.com/representacao/backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newKeyManager(t *testing.T) *security.KeyManager {
	km, err := security.NewKeyManager("segredo-de-teste", time.Hour, zaptest.NewLogger(t))
	require.NoError(t, err)
	return km
}

func request(router http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	km := newKeyManager(t)
	auth := NewAuthMiddleware(TokenVerifierFunc(km.VerifyToken), zaptest.NewLogger(t))

	router := gin.New()
	router.GET("/me", auth.Authenticate(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c), "company_id": CompanyIDPtr(c)})
	})
	router.GET("/orders", auth.Authenticate(), auth.RequireCompany(), func(c *gin.Context) {
		id, _ := CompanyID(c)
		c.JSON(http.StatusOK, gin.H{"company_id": id})
	})

	companyID := uint(4)
	withCompany, err := km.GenerateToken(7, &companyID)
	require.NoError(t, err)
	withoutCompany, err := km.GenerateToken(7, nil)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		w := request(router, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token de acesso não fornecido")
	})

	t.Run("not a bearer token", func(t *testing.T) {
		w := request(router, http.MethodGet, "/me", map[string]string{"Authorization": withCompany})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := request(router, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer abc.def.ghi"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token inválido")
	})

	t.Run("token without company", func(t *testing.T) {
		w := request(router, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + withoutCompany})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id": 7, "company_id": null}`, w.Body.String())

		w = request(router, http.MethodGet, "/orders", map[string]string{"Authorization": "Bearer " + withoutCompany})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error": "Empresa não selecionada"}`, w.Body.String())
	})

	t.Run("token with company", func(t *testing.T) {
		w := request(router, http.MethodGet, "/orders", map[string]string{"Authorization": "Bearer " + withCompany})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"company_id": 4}`, w.Body.String())
	})
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	sec := NewSecurityMiddleware([]string{"https://app.exemplo.com/"}, time.Hour, zaptest.NewLogger(t))

	router := gin.New()
	router.Use(sec.CORS(), sec.Headers())
	router.GET("/api/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := request(router, http.MethodGet, "/api/products", map[string]string{"Origin": "https://app.exemplo.com"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.exemplo.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = request(router, http.MethodGet, "/api/products", map[string]string{"Origin": "https://malicioso.com"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = request(router, http.MethodOptions, "/api/products", map[string]string{"Origin": "https://app.exemplo.com"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	apiMetrics := metrics.NewAPIMetrics()
	limiter := ratelimit.NewMemoryLimiter(2, time.Minute, 2)
	rl := NewRateLimitMiddleware(limiter, nil, apiMetrics, zaptest.NewLogger(t))

	router := gin.New()
	router.GET("/api/cnpj", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := request(router, http.MethodGet, "/api/cnpj", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := request(router, http.MethodGet, "/api/cnpj", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Muitas requisições")
}

func TestRateLimitMiddleware_PerUser(t *testing.T) {
	km := newKeyManager(t)
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute, 1)
	rl := NewRateLimitMiddleware(limiter, TokenVerifierFunc(km.VerifyToken), nil, zaptest.NewLogger(t))

	// o limite roda antes da autenticação, como no grupo /api
	router := gin.New()
	router.GET("/api/orders", rl.Limit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	ana, err := km.GenerateToken(1, nil)
	require.NoError(t, err)
	bia, err := km.GenerateToken(2, nil)
	require.NoError(t, err)

	w := request(router, http.MethodGet, "/api/orders", map[string]string{"Authorization": "Bearer " + ana})
	require.Equal(t, http.StatusOK, w.Code)
	w = request(router, http.MethodGet, "/api/orders", map[string]string{"Authorization": "Bearer " + ana})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// mesmo IP, outro usuário: contador próprio
	w = request(router, http.MethodGet, "/api/orders", map[string]string{"Authorization": "Bearer " + bia})
	assert.Equal(t, http.StatusOK, w.Code)

	// token inválido cai no limite por IP, que ainda está livre
	w = request(router, http.MethodGet, "/api/orders", map[string]string{"Authorization": "Bearer invalido"})
	assert.Equal(t, http.StatusOK, w.Code)
	w = request(router, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRequestIDAndRecovery(t *testing.T) {
	logger := zaptest.NewLogger(t)
	router := gin.New()
	router.Use(RequestID(), NewRecoveryMiddleware(logger).Recovery(), RequestLogger(logger))
	router.GET("/panic", func(c *gin.Context) { panic("falha inesperada") })
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := request(router, http.MethodGet, "/ok", map[string]string{HeaderRequestID: "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))

	w = request(router, http.MethodGet, "/ok", nil)
	assert.Len(t, w.Header().Get(HeaderRequestID), 36)

	w = request(router, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error": "Erro interno do servidor"}`, w.Body.String())
}

func TestMetricsMiddleware(t *testing.T) {
	apiMetrics := metrics.NewAPIMetrics()
	m := NewMiddleware(&config.Config{}, TokenVerifierFunc(newKeyManager(t).VerifyToken), nil, apiMetrics, zaptest.NewLogger(t))

	router := gin.New()
	router.Use(m.Metrics())
	m.RegisterMetricsEndpoint(router, "/metrics")
	router.GET("/api/products", func(c *gin.Context) { c.Status(http.StatusOK) })

	request(router, http.MethodGet, "/api/products", nil)

	w := request(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `representacao_http_requests_total{method="GET",path="/api/products",status="200"} 1`), body)
}
