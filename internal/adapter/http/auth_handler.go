package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app/auth"
	"github.com/representacao/backend/internal/infra/middleware"
	apperrors "github.com/representacao/backend/pkg/errors"
	"go.uber.org/zap"
)

// AuthHandler expõe cadastro, login e seleção de empresa
type AuthHandler struct {
	service *auth.AuthService
	logger  *zap.Logger
}

func NewAuthHandler(service *auth.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type selectCompanyRequest struct {
	CompanyID *uint `json:"company_id"`
}

// Register cria um usuário ainda sem empresa
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, auth.ErrMissingCredentials)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Usuário criado com sucesso",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, auth.ErrMissingCredentials)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login realizado com sucesso",
		"user":      result.User,
		"companies": result.Companies,
		"token":     result.Token,
	})
}

// Logout não guarda estado: o cliente descarta o token
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout realizado com sucesso"})
}

func (h *AuthHandler) SelectCompany(c *gin.Context) {
	var req selectCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.CompanyID == nil || *req.CompanyID == 0 {
		respondError(c, h.logger, apperrors.BadRequest("ID da empresa é obrigatório", err))
		return
	}

	result, err := h.service.SelectCompany(c.Request.Context(), middleware.UserID(c), *req.CompanyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Empresa selecionada com sucesso",
		"company": result.Company,
		"token":   result.Token,
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.service.Me(c.Request.Context(), middleware.UserID(c), middleware.CompanyIDPtr(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
