package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app/cnpj"
	"go.uber.org/zap"
)

// CNPJHandler consulta dados cadastrais de um CNPJ
type CNPJHandler struct {
	service *cnpj.Service
	logger  *zap.Logger
}

func NewCNPJHandler(service *cnpj.Service, logger *zap.Logger) *CNPJHandler {
	return &CNPJHandler{service: service, logger: logger}
}

type cnpjRequest struct {
	CNPJ string `json:"cnpj"`
}

func (h *CNPJHandler) Lookup(c *gin.Context) {
	var req cnpjRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, cnpj.ErrRequired)
		return
	}

	info, err := h.service.Lookup(c.Request.Context(), req.CNPJ)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
