package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/representacao/backend/pkg/validation"
	"go.uber.org/zap"
)

const internalErrorMessage = "Erro interno do servidor"

// respondError escreve {"error": ...} com o status do APIError; qualquer
// outro erro vira 500 sem expor a causa
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)

	if apiErr, ok := apperrors.As(err); ok {
		if apiErr.Code >= http.StatusInternalServerError {
			logger.Error("Erro ao processar requisição",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		c.AbortWithStatusJSON(apiErr.Code, apiErr)
		return
	}

	logger.Error("Erro inesperado ao processar requisição",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalErrorMessage})
}

// bindJSON decodifica o corpo e responde 400 quando falha
func bindJSON(c *gin.Context, logger *zap.Logger, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, logger, apperrors.BadRequest(validation.Message(err), err))
		return false
	}
	return true
}

// paramID lê um parâmetro numérico da rota
func paramID(c *gin.Context, logger *zap.Logger, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, logger, apperrors.BadRequest("ID inválido", err))
		return 0, false
	}
	return uint(id), true
}
