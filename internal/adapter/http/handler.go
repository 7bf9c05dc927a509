package http

import (
	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/domain/service"
	"go.uber.org/zap"
)

// Handler reúne os handlers HTTP da aplicação
type Handler struct {
	Auth      *AuthHandler
	Orders    *OrderHandler
	Catalog   *CatalogHandler
	Users     *UserHandler
	Dashboard *DashboardHandler
	CNPJ      *CNPJHandler
	Health    *HealthChecker
}

func NewHandler(services *service.Services, db DatabaseChecker, cache CacheChecker, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(services.Auth, logger),
		Orders:    NewOrderHandler(services.Orders, logger),
		Catalog:   NewCatalogHandler(services.Catalog, logger),
		Users:     NewUserHandler(services.Users, logger),
		Dashboard: NewDashboardHandler(services.Dashboard, logger),
		CNPJ:      NewCNPJHandler(services.CNPJ, logger),
		Health:    NewHealthChecker(db, cache, logger),
	}
}

// Guards são os middlewares de acesso aplicados por grupo de rotas
type Guards struct {
	Authenticate   gin.HandlerFunc
	RequireCompany gin.HandlerFunc
}

// RegisterRoutes monta as rotas da API sob o grupo informado (normalmente /api)
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, guards Guards) {
	authenticated := []gin.HandlerFunc{guards.Authenticate}
	withCompany := []gin.HandlerFunc{guards.Authenticate, guards.RequireCompany}

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", append(authenticated, h.Auth.Logout)...)
		authGroup.POST("/select-company", append(authenticated, h.Auth.SelectCompany)...)
		authGroup.GET("/me", append(authenticated, h.Auth.Me)...)
	}

	catalogGroup := api.Group("/catalog")
	{
		catalogGroup.GET("/payment-methods", append(authenticated, h.Catalog.ListPaymentMethods)...)
		catalogGroup.POST("/payment-methods", append(authenticated, h.Catalog.CreatePaymentMethod)...)

		products := catalogGroup.Group("/products", withCompany...)
		products.GET("", h.Catalog.ListProducts)
		products.POST("", h.Catalog.CreateProduct)
		products.GET("/:id", h.Catalog.GetProduct)
		products.PUT("/:id", h.Catalog.UpdateProduct)
		products.DELETE("/:id", h.Catalog.DeleteProduct)
	}

	orders := api.Group("/orders", withCompany...)
	{
		orders.GET("", h.Orders.List)
		orders.POST("", h.Orders.Create)
		orders.POST("/sync", h.Orders.Sync)
		orders.GET("/:id", h.Orders.Get)
	}

	dashboard := api.Group("/dashboard", withCompany...)
	{
		dashboard.GET("/metrics", h.Dashboard.Metrics)
		dashboard.GET("/pending-orders-count", h.Dashboard.PendingOrdersCount)
	}

	users := api.Group("/users", withCompany...)
	{
		users.GET("", h.Users.List)
		users.POST("", h.Users.Create)
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}

	api.POST("/cnpj/consultar", h.CNPJ.Lookup)
}

// RegisterHealth expõe as verificações fora do grupo /api
func (h *Handler) RegisterHealth(router gin.IRoutes) {
	router.GET("/health", h.Health.LivenessCheck)
	router.GET("/health/liveness", h.Health.LivenessCheck)
	router.GET("/health/readiness", h.Health.ReadinessCheck)
	router.GET("/health/detailed", h.Health.DetailedHealth)
}
