package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/representacao/backend/internal/adapter/database"
	"github.com/representacao/backend/internal/adapter/events"
	httpadapter "github.com/representacao/backend/internal/adapter/http"
	"github.com/representacao/backend/internal/adapter/receitaws"
	"github.com/representacao/backend/internal/app/order"
	"github.com/representacao/backend/internal/domain/service"
	"github.com/representacao/backend/internal/infra/metrics"
	"github.com/representacao/backend/internal/infra/middleware"
	"github.com/representacao/backend/pkg/cache"
	"github.com/representacao/backend/pkg/config"
	"github.com/representacao/backend/pkg/ratelimit"
	"github.com/representacao/backend/pkg/resilience"
	"github.com/representacao/backend/pkg/security"
	"github.com/representacao/backend/pkg/validation"
	"go.uber.org/zap"
)

// eventPublisher é o publicador de eventos de pedido com o seu encerramento
type eventPublisher interface {
	order.EventPublisher
	Close() error
}

type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	DB         *database.Database
	Cache      cache.Cache
	Handler    *httpadapter.Handler
	Middleware *middleware.Middleware
	Services   *service.Services
	APIMetrics *metrics.APIMetrics

	redis     *redis.Client
	publisher eventPublisher
}

// NewApp cria uma nova instância da aplicação com todas as dependências injetadas
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	validation.SetupGin()

	db, err := database.NewDatabase(ctx, database.ConfigFrom(cfg.Database), logger)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, DB: db}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	if cfg.Database.Seed {
		if err := database.NewSeeder(db, logger).Seed(ctx, cfg.Database.CatalogFile); err != nil {
			return nil, fmt.Errorf("falha ao popular banco de dados: %w", err)
		}
	}

	if cfg.Metrics.Enabled {
		a.APIMetrics = metrics.NewAPIMetrics()
	}

	if err := a.setupCache(); err != nil {
		return nil, err
	}

	limiter, err := a.newLimiter()
	if err != nil {
		return nil, err
	}

	keyManager, err := security.NewKeyManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration, logger)
	if err != nil {
		return nil, err
	}

	if err := a.setupPublisher(); err != nil {
		return nil, err
	}

	// só recebe as métricas quando existem, para não guardar um ponteiro nil
	var breakerRecorder resilience.StateRecorder
	if a.APIMetrics != nil {
		breakerRecorder = a.APIMetrics
	}
	cnpjClient := receitaws.NewClient(receitaws.Config{
		BaseURL:          cfg.CNPJ.BaseURL,
		Timeout:          cfg.CNPJ.Timeout,
		FailureThreshold: cfg.CNPJ.FailureThreshold,
		ResetTimeout:     cfg.CNPJ.ResetTimeout,
		WithoutBreaker:   !cfg.Features.CircuitBreaker,
	}, logger, breakerRecorder)

	gdb := db.DB()
	a.Services = service.NewServices(service.Dependencies{
		Transactor: db,
		Repositories: service.Repositories{
			Users:          database.NewUserRepository(gdb, logger),
			Companies:      database.NewCompanyRepository(gdb, logger),
			Clients:        database.NewClientRepository(gdb, logger),
			PaymentMethods: database.NewPaymentMethodRepository(gdb, logger),
			Products:       database.NewProductRepository(gdb, logger),
			Orders:         database.NewOrderRepository(gdb, logger),
		},
		KeyManager:     keyManager,
		Cache:          a.Cache,
		CatalogTTL:     cfg.Cache.TTL,
		CNPJProvider:   cnpjClient,
		CNPJCacheTTL:   cfg.CNPJ.CacheTTL,
		Publisher:      a.publisher,
		Metrics:        a.APIMetrics,
		PasswordMinLen: cfg.Auth.PasswordMinLen,
	}, logger)

	a.Middleware = middleware.NewMiddleware(cfg, a.Services.Auth, limiter, a.APIMetrics, logger)
	a.Handler = httpadapter.NewHandler(a.Services, db, a.Cache, logger)

	ok = true
	return a, nil
}

// setupCache cria o cache da aplicação. Com Redis, o mesmo cliente é usado
// pelo rate limiter.
func (a *App) setupCache() error {
	cfg := a.Config
	if !cfg.Features.Caching || !cfg.Cache.Enabled {
		a.Logger.Info("cache desabilitado")
		a.Cache = &cache.NoOpCache{}
		return nil
	}

	var recorder cache.HitRecorder
	if a.APIMetrics != nil {
		recorder = a.APIMetrics
	}

	if cfg.Cache.Type == "redis" {
		client, err := cache.NewRedisClient(cfg.Cache.Redis, a.Logger)
		if err != nil {
			return err
		}
		a.redis = client
		a.Cache = cache.NewRedisCacheWithClient(client, a.Logger)
		return nil
	}

	c, err := cache.New(cfg.Cache, recorder, a.Logger)
	if err != nil {
		return err
	}
	a.Cache = c
	return nil
}

// newLimiter usa Redis quando disponível para que várias instâncias
// compartilhem o mesmo limite
func (a *App) newLimiter() (ratelimit.Limiter, error) {
	cfg := a.Config
	if !cfg.Features.RateLimiter {
		return nil, nil
	}

	if a.redis != nil {
		limiter, err := ratelimit.NewRedisLimiter(a.redis, cfg.RateLimit.Limit, cfg.RateLimit.Window, a.Logger)
		if err != nil {
			return nil, err
		}
		return limiter, nil
	}
	return ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window, cfg.RateLimit.Burst), nil
}

func (a *App) setupPublisher() error {
	if !a.Config.Features.Events {
		a.publisher = events.NoopPublisher{}
		return nil
	}

	publisher, err := events.NewPublisher(a.Config.Events.URL, a.Config.Events.Exchange, a.Logger)
	if err != nil {
		return fmt.Errorf("falha ao conectar ao broker de eventos: %w", err)
	}
	a.publisher = publisher
	return nil
}

// RegisterRoutes registra todas as rotas no router
func (a *App) RegisterRoutes(router *gin.Engine) {
	router.Use(a.Middleware.Recovery())
	router.Use(a.Middleware.IgnoreFavicon())
	router.Use(middleware.RequestID())
	router.Use(a.Middleware.Tracing())
	router.Use(a.Middleware.Logger())
	router.Use(a.Middleware.Metrics())
	router.Use(a.Middleware.SecurityHeaders())
	// CORS fica fora do grupo para responder também aos preflights OPTIONS
	router.Use(onlyUnder("/api/", a.Middleware.CORS()))

	a.Handler.RegisterHealth(router)

	if a.Config.Metrics.Enabled {
		a.Middleware.RegisterMetricsEndpoint(router, a.Config.Metrics.PrometheusPath)
		a.Logger.Info("Endpoint de métricas Prometheus registrado",
			zap.String("path", a.Config.Metrics.PrometheusPath))
	}

	api := router.Group("/api", a.Middleware.RateLimit())
	a.Handler.RegisterRoutes(api, httpadapter.Guards{
		Authenticate:   a.Middleware.Authenticate(),
		RequireCompany: a.Middleware.RequireCompany(),
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Rota não encontrada",
			"path":  c.Request.URL.Path,
		})
	})
}

// onlyUnder aplica h apenas às rotas com o prefixo informado
func onlyUnder(prefix string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, prefix) {
			h(c)
			return
		}
		c.Next()
	}
}

// Close libera conexões abertas pela aplicação
func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
