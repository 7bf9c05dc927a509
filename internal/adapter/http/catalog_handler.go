package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/representacao/backend/internal/app/catalog"
	"github.com/representacao/backend/internal/infra/middleware"
	"go.uber.org/zap"
)

// CatalogHandler expõe produtos da empresa e formas de pagamento
type CatalogHandler struct {
	service *catalog.Service
	logger  *zap.Logger
}

func NewCatalogHandler(service *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, logger: logger}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	companyID, _ := middleware.CompanyID(c)

	products, err := h.service.ListProducts(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	product, err := h.service.GetProduct(c.Request.Context(), companyID, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var input catalog.ProductInput
	if !bindJSON(c, h.logger, &input) {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	product, err := h.service.CreateProduct(c.Request.Context(), companyID, &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Produto criado com sucesso",
		"product": product,
	})
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	var input catalog.ProductInput
	if !bindJSON(c, h.logger, &input) {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	product, err := h.service.UpdateProduct(c.Request.Context(), companyID, id, &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Produto atualizado com sucesso",
		"product": product,
	})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, h.logger, "id")
	if !ok {
		return
	}
	companyID, _ := middleware.CompanyID(c)

	if err := h.service.DeleteProduct(c.Request.Context(), companyID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produto excluído com sucesso"})
}

// ListPaymentMethods devolve só as formas ativas
func (h *CatalogHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.service.ListPaymentMethods(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *CatalogHandler) CreatePaymentMethod(c *gin.Context) {
	var input catalog.PaymentMethodInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.logger, catalog.ErrPaymentMethodName)
		return
	}

	method, err := h.service.CreatePaymentMethod(c.Request.Context(), &input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Forma de pagamento criada com sucesso",
		"payment_method": method,
	})
}
