package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app/user"
	"github.com/representacao/backend/internal/infra/middleware"
	"go.uber.org/zap"
)

// UserHandler administra os usuários da empresa selecionada
type UserHandler struct {
	service *user.Service
	logger  *zap.Logger
}

func NewUserHandler(service *user.Service, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) List(c *gin.Context) {
	companyID, _ := middleware.CompanyID(c)

	users, err := h.service.List(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Create(c *gin.Context) {
	var input user.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, user.ErrMissingCredentials)
		return
	}
	companyID, _ := middleware.CompanyID(c)

	u, err := h.service.Create(c.Request.Context(), companyID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	u, err := h.service.Get(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var input user.UpdateInput
	if !bindJSON(c, h.logger, &input) {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	u, err := h.service.Update(c.Request.Context(), companyID, id, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	if err := h.service.Delete(c.Request.Context(), companyID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
