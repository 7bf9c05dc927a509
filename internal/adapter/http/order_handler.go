package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app/order"
	"github.com/representacao/backend/internal/infra/middleware"
	apperrors "github.com/representacao/backend/pkg/errors"
	"go.uber.org/zap"
)

// OrderHandler expõe os pedidos da empresa selecionada
type OrderHandler struct {
	service *order.Service
	logger  *zap.Logger
}

func NewOrderHandler(service *order.Service, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{service: service, logger: logger}
}

type syncRequest struct {
	Orders []json.RawMessage `json:"orders"`
}

type syncResponse struct {
	Message string `json:"message"`
	*order.SyncResult
}

func (h *OrderHandler) List(c *gin.Context) {
	companyID, _ := middleware.CompanyID(c)

	orders, err := h.service.ListOrders(c.Request.Context(), middleware.UserID(c), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	o, err := h.service.GetOrder(c.Request.Context(), middleware.UserID(c), companyID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Create(c *gin.Context) {
	var input order.CreateOrderInput
	if !bindJSON(c, h.logger, &input) {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	o, err := h.service.CreateOrder(c.Request.Context(), middleware.UserID(c), companyID, &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pedido criado com sucesso",
		"order":   o,
	})
}

// Sync grava os pedidos feitos offline; cada um é aceito ou rejeitado sozinho
func (h *OrderHandler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperrors.BadRequest(order.ErrEmptySync.Message, err))
		return
	}
	companyID, _ := middleware.CompanyID(c)

	result, err := h.service.SyncOrders(c.Request.Context(), middleware.UserID(c), companyID, req.Orders)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, syncResponse{
		Message:    fmt.Sprintf("%d pedidos sincronizados com sucesso", result.SyncedCount),
		SyncResult: result,
	})
}
