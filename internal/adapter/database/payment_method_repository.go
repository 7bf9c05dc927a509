package database

import (
	"context"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentMethodRepository implementa repository.PaymentMethodRepository
type PaymentMethodRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewPaymentMethodRepository(db *gorm.DB, logger *zap.Logger) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db, logger: logger}
}

var _ repository.PaymentMethodRepository = (*PaymentMethodRepository)(nil)

func (r *PaymentMethodRepository) ListActive(ctx context.Context) (methods []*model.PaymentMethod, err error) {
	ctx, span := startSpan(ctx, "PaymentMethodRepository.ListActive", "select", "payment_methods")
	defer func() { endSpan(span, err) }()

	var entities []model.PaymentMethodEntity
	if err := conn(ctx, r.db).Where("is_active = ?", true).Order("id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("falha ao listar formas de pagamento: %w", err)
	}

	methods = make([]*model.PaymentMethod, 0, len(entities))
	for i := range entities {
		methods = append(methods, paymentMethodToModel(&entities[i]))
	}
	return methods, nil
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, id uint) (pm *model.PaymentMethod, err error) {
	ctx, span := startSpan(ctx, "PaymentMethodRepository.GetByID", "select", "payment_methods")
	defer func() { endSpan(span, err) }()

	var entity model.PaymentMethodEntity
	if err := conn(ctx, r.db).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return paymentMethodToModel(&entity), nil
}

func (r *PaymentMethodRepository) GetByName(ctx context.Context, name string) (*model.PaymentMethod, error) {
	var entity model.PaymentMethodEntity
	if err := conn(ctx, r.db).Where("name = ?", name).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return paymentMethodToModel(&entity), nil
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *model.PaymentMethod) (err error) {
	ctx, span := startSpan(ctx, "PaymentMethodRepository.Create", "insert", "payment_methods")
	defer func() { endSpan(span, err) }()

	entity := &model.PaymentMethodEntity{Name: pm.Name, IsActive: pm.IsActive}
	if err := conn(ctx, r.db).Create(entity).Error; err != nil {
		r.logger.Error("falha ao criar forma de pagamento", zap.String("name", pm.Name), zap.Error(err))
		return translate(err)
	}
	*pm = *paymentMethodToModel(entity)
	return nil
}

func paymentMethodToModel(e *model.PaymentMethodEntity) *model.PaymentMethod {
	return &model.PaymentMethod{ID: e.ID, Name: e.Name, IsActive: e.IsActive}
}
