package service

import (
	"time"

	"github.com/representacao/backend/internal/app/auth"
	"github.com/representacao/backend/internal/app/catalog"
	"github.com/representacao/backend/internal/app/cnpj"
	"github.com/representacao/backend/internal/app/dashboard"
	"github.com/representacao/backend/internal/app/order"
	"github.com/representacao/backend/internal/app/user"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/internal/infra/metrics"
	"github.com/representacao/backend/pkg/cache"
	"github.com/representacao/backend/pkg/security"
	"go.uber.org/zap"
)

// Repositories agrupa os repositórios usados pelos serviços
type Repositories struct {
	Users          repository.UserRepository
	Companies      repository.CompanyRepository
	Clients        repository.ClientRepository
	PaymentMethods repository.PaymentMethodRepository
	Products       repository.ProductRepository
	Orders         repository.OrderRepository
}

// Dependencies reúne o que os serviços precisam além dos repositórios.
// Metrics e Publisher são opcionais.
type Dependencies struct {
	Transactor     repository.Transactor
	Repositories   Repositories
	KeyManager     *security.KeyManager
	Cache          cache.Cache
	CatalogTTL     time.Duration
	CNPJProvider   cnpj.Provider
	CNPJCacheTTL   time.Duration
	Publisher      order.EventPublisher
	Metrics        *metrics.APIMetrics
	PasswordMinLen int
}

// Services contém todos os serviços da aplicação
type Services struct {
	Auth      *auth.AuthService
	Orders    *order.Service
	Catalog   *catalog.Service
	Users     *user.Service
	Dashboard *dashboard.Service
	CNPJ      *cnpj.Service
}

// NewServices cria todos os serviços necessários
func NewServices(deps Dependencies, logger *zap.Logger) *Services {
	repos := deps.Repositories

	// interfaces só recebem as métricas quando existem, para não guardar um ponteiro nil
	var (
		loginRecorder  auth.LoginRecorder
		orderRecorder  order.Recorder
		lookupRecorder cnpj.LookupRecorder
	)
	if deps.Metrics != nil {
		loginRecorder = deps.Metrics
		orderRecorder = deps.Metrics
		lookupRecorder = deps.Metrics
	}

	c := deps.Cache
	if c == nil {
		c = &cache.NoOpCache{}
	}

	return &Services{
		Auth: auth.NewAuthService(deps.KeyManager, repos.Users, repos.Companies, deps.PasswordMinLen, loginRecorder, logger),
		Orders: order.NewService(deps.Transactor, order.Repositories{
			Orders:         repos.Orders,
			Clients:        repos.Clients,
			Products:       repos.Products,
			PaymentMethods: repos.PaymentMethods,
		}, deps.Publisher, orderRecorder, logger),
		Catalog:   catalog.NewService(repos.Products, repos.PaymentMethods, c, deps.CatalogTTL, logger),
		Users:     user.NewService(deps.Transactor, repos.Users, repos.Companies, deps.PasswordMinLen, logger),
		Dashboard: dashboard.NewService(repos.Orders, logger),
		CNPJ:      cnpj.NewService(deps.CNPJProvider, c, deps.CNPJCacheTTL, lookupRecorder, logger),
	}
}
