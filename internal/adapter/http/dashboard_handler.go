package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app/dashboard"
	"github.com/representacao/backend/internal/infra/middleware"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	service *dashboard.Service
	logger  *zap.Logger
}

func NewDashboardHandler(service *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

func (h *DashboardHandler) Metrics(c *gin.Context) {
	companyID, _ := middleware.CompanyID(c)

	m, err := h.service.Metrics(c.Request.Context(), middleware.UserID(c), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *DashboardHandler) PendingOrdersCount(c *gin.Context) {
	companyID, _ := middleware.CompanyID(c)

	count, err := h.service.PendingOrdersCount(c.Request.Context(), middleware.UserID(c), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pending_orders": count})
}
