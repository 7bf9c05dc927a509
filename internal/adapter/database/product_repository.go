package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductRepository implementa repository.ProductRepository
type ProductRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewProductRepository(db *gorm.DB, logger *zap.Logger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) ListByCompany(ctx context.Context, companyID uint) (products []*model.Product, err error) {
	ctx, span := startSpan(ctx, "ProductRepository.ListByCompany", "select", "products", attribute.Int64("company.id", int64(companyID)))
	defer func() { endSpan(span, err) }()

	var entities []model.ProductEntity
	if err := conn(ctx, r.db).Where("company_id = ?", companyID).Order("code").Find(&entities).Error; err != nil {
		r.logger.Error("falha ao buscar produtos", zap.Uint("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("falha ao buscar produtos: %w", err)
	}

	products = make([]*model.Product, 0, len(entities))
	for i := range entities {
		product, err := productToModel(&entities[i])
		if err != nil {
			// registro com tamanhos corrompidos não derruba a listagem
			span.AddEvent("error.conversion", trace.WithAttributes(
				attribute.String("product.code", entities[i].Code),
				attribute.String("error.message", err.Error()),
			))
			r.logger.Error("falha ao converter produto", zap.String("code", entities[i].Code), zap.Error(err))
			continue
		}
		products = append(products, product)
	}

	span.SetAttributes(attribute.Int("products.count", len(products)))
	return products, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, companyID, id uint) (product *model.Product, err error) {
	ctx, span := startSpan(ctx, "ProductRepository.GetByID", "select", "products", attribute.Int64("product.id", int64(id)))
	defer func() { endSpan(span, err) }()

	var entity model.ProductEntity
	if err := conn(ctx, r.db).Where("company_id = ? AND id = ?", companyID, id).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return productToModel(&entity)
}

func (r *ProductRepository) GetByCode(ctx context.Context, companyID uint, code string) (product *model.Product, err error) {
	ctx, span := startSpan(ctx, "ProductRepository.GetByCode", "select", "products", attribute.String("product.code", code))
	defer func() { endSpan(span, err) }()

	var entity model.ProductEntity
	if err := conn(ctx, r.db).Where("company_id = ? AND code = ?", companyID, code).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return productToModel(&entity)
}

func (r *ProductRepository) Create(ctx context.Context, product *model.Product) (err error) {
	ctx, span := startSpan(ctx, "ProductRepository.Create", "insert", "products", attribute.String("product.code", product.Code))
	defer func() { endSpan(span, err) }()

	entity, err := productToEntity(product)
	if err != nil {
		return fmt.Errorf("falha ao converter modelo para entidade: %w", err)
	}
	if err := conn(ctx, r.db).Create(entity).Error; err != nil {
		r.logger.Error("falha ao criar produto", zap.String("code", product.Code), zap.Error(err))
		return translate(err)
	}

	product.ID = entity.ID
	product.CreatedAt = entity.CreatedAt
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *model.Product) (err error) {
	ctx, span := startSpan(ctx, "ProductRepository.Update", "update", "products", attribute.Int64("product.id", int64(product.ID)))
	defer func() { endSpan(span, err) }()

	entity, err := productToEntity(product)
	if err != nil {
		return fmt.Errorf("falha ao converter modelo para entidade: %w", err)
	}

	result := conn(ctx, r.db).Model(&model.ProductEntity{}).
		Where("company_id = ? AND id = ?", product.CompanyID, product.ID).
		Updates(map[string]interface{}{
			"code":        entity.Code,
			"description": entity.Description,
			"value":       entity.Value,
			"sizes":       entity.SizesJSON,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete falha com ErrInUse quando o produto já aparece em pedidos
func (r *ProductRepository) Delete(ctx context.Context, companyID, id uint) (err error) {
	ctx, span := startSpan(ctx, "ProductRepository.Delete", "delete", "products", attribute.Int64("product.id", int64(id)))
	defer func() { endSpan(span, err) }()

	db := conn(ctx, r.db)

	var used int64
	if err := db.Model(&model.OrderItemEntity{}).Where("product_id = ?", id).Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return repository.ErrInUse
	}

	result := db.Where("company_id = ? AND id = ?", companyID, id).Delete(&model.ProductEntity{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func productToModel(e *model.ProductEntity) (*model.Product, error) {
	sizes := []string{}
	if e.SizesJSON != "" {
		if err := json.Unmarshal([]byte(e.SizesJSON), &sizes); err != nil {
			return nil, err
		}
	}
	return &model.Product{
		ID:          e.ID,
		CompanyID:   e.CompanyID,
		Code:        e.Code,
		Description: e.Description,
		Value:       e.Value,
		Sizes:       sizes,
		CreatedAt:   e.CreatedAt,
	}, nil
}

func productToEntity(p *model.Product) (*model.ProductEntity, error) {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	sizesJSON, err := json.Marshal(sizes)
	if err != nil {
		return nil, err
	}
	return &model.ProductEntity{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		Code:        p.Code,
		Description: p.Description,
		Value:       p.Value,
		SizesJSON:   string(sizesJSON),
	}, nil
}
