package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/pkg/cache"
	apperrors "github.com/representacao/backend/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const paymentMethodsKey = "payment_methods"

var (
	ErrProductNotFound      = apperrors.NotFound("Produto não encontrado", nil)
	ErrDuplicateProductCode = apperrors.BadRequest("Código do produto já existe nesta empresa", nil)
	ErrProductInUse         = apperrors.BadRequest("Produto possui pedidos e não pode ser excluído", nil)
	ErrPaymentMethodName    = apperrors.BadRequest("Nome da forma de pagamento é obrigatório", nil)
	ErrDuplicatePayment     = apperrors.BadRequest("Forma de pagamento já existe", nil)
)

// ProductInput são os campos editáveis de um produto
type ProductInput struct {
	Code        string          `json:"code" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Value       decimal.Decimal `json:"value"`
	Sizes       []string        `json:"sizes"`
}

type PaymentMethodInput struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

// Service mantém o catálogo de produtos das empresas e as formas de pagamento
type Service struct {
	products repository.ProductRepository
	payments repository.PaymentMethodRepository
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

func NewService(products repository.ProductRepository, payments repository.PaymentMethodRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		products: products,
		payments: payments,
		cache:    c,
		ttl:      ttl,
		logger:   logger,
	}
}

func productsKey(companyID uint) string {
	return fmt.Sprintf("products:%d", companyID)
}

// ListProducts retorna o catálogo da empresa, usando o cache quando possível
func (s *Service) ListProducts(ctx context.Context, companyID uint) ([]*model.Product, error) {
	var products []*model.Product

	cacheKey := productsKey(companyID)
	found, err := s.cache.Get(ctx, cacheKey, &products)
	if err != nil {
		// segue para o banco
		s.logger.Error("Erro ao buscar produtos do cache", zap.Uint("company_id", companyID), zap.Error(err))
	} else if found {
		return products, nil
	}

	products, err = s.products.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, products, s.ttl); err != nil {
		s.logger.Warn("Erro ao armazenar produtos no cache", zap.Error(err))
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, companyID, id uint) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreateProduct adiciona um produto ao catálogo da empresa
func (s *Service) CreateProduct(ctx context.Context, companyID uint, input *ProductInput) (*model.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		CompanyID:   companyID,
		Code:        strings.TrimSpace(input.Code),
		Description: strings.TrimSpace(input.Description),
		Value:       input.Value,
		Sizes:       normalizeSizes(input.Sizes),
	}
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateProductCode
		}
		return nil, err
	}

	s.invalidateProducts(ctx, companyID)
	s.logger.Info("Produto criado", zap.Uint("company_id", companyID), zap.String("code", product.Code))
	return product, nil
}

// UpdateProduct substitui os campos editáveis de um produto da empresa
func (s *Service) UpdateProduct(ctx context.Context, companyID, id uint, input *ProductInput) (*model.Product, error) {
	if err := validateProduct(input); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	product.Code = strings.TrimSpace(input.Code)
	product.Description = strings.TrimSpace(input.Description)
	product.Value = input.Value
	product.Sizes = normalizeSizes(input.Sizes)

	if err := s.products.Update(ctx, product); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateProductCode
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.invalidateProducts(ctx, companyID)
	return product, nil
}

// DeleteProduct remove um produto que ainda não aparece em pedidos
func (s *Service) DeleteProduct(ctx context.Context, companyID, id uint) error {
	if err := s.products.Delete(ctx, companyID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrProductNotFound
		case errors.Is(err, repository.ErrInUse):
			return ErrProductInUse
		}
		return err
	}

	s.invalidateProducts(ctx, companyID)
	return nil
}

// ListPaymentMethods retorna as formas de pagamento ativas
func (s *Service) ListPaymentMethods(ctx context.Context) ([]*model.PaymentMethod, error) {
	var methods []*model.PaymentMethod

	found, err := s.cache.Get(ctx, paymentMethodsKey, &methods)
	if err != nil {
		s.logger.Error("Erro ao buscar formas de pagamento do cache", zap.Error(err))
	} else if found {
		return methods, nil
	}

	methods, err = s.payments.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, paymentMethodsKey, methods, s.ttl); err != nil {
		s.logger.Warn("Erro ao armazenar formas de pagamento no cache", zap.Error(err))
	}
	return methods, nil
}

// CreatePaymentMethod cria uma forma de pagamento, ativa por padrão
func (s *Service) CreatePaymentMethod(ctx context.Context, input *PaymentMethodInput) (*model.PaymentMethod, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrPaymentMethodName
	}

	pm := &model.PaymentMethod{Name: name, IsActive: true}
	if input.IsActive != nil {
		pm.IsActive = *input.IsActive
	}

	if err := s.payments.Create(ctx, pm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicatePayment
		}
		return nil, err
	}

	if err := s.cache.Delete(ctx, paymentMethodsKey); err != nil {
		s.logger.Warn("Erro ao invalidar cache de formas de pagamento", zap.Error(err))
	}
	return pm, nil
}

func (s *Service) invalidateProducts(ctx context.Context, companyID uint) {
	if err := s.cache.Delete(ctx, productsKey(companyID)); err != nil {
		s.logger.Warn("Erro ao invalidar cache de produtos", zap.Uint("company_id", companyID), zap.Error(err))
	}
}

func validateProduct(input *ProductInput) error {
	switch {
	case strings.TrimSpace(input.Code) == "":
		return apperrors.BadRequest("code é obrigatório", nil)
	case strings.TrimSpace(input.Description) == "":
		return apperrors.BadRequest("description é obrigatório", nil)
	case !input.Value.IsPositive():
		return apperrors.BadRequest("value é obrigatório", nil)
	}
	return nil
}

// normalizeSizes remove tamanhos vazios e repetidos mantendo a ordem
func normalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	seen := make(map[string]bool, len(sizes))
	for _, size := range sizes {
		size = strings.TrimSpace(size)
		if size == "" || seen[size] {
			continue
		}
		seen[size] = true
		out = append(out, size)
	}
	return out
}
