package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderRepository implementa repository.OrderRepository
type OrderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

func (r *OrderRepository) Create(ctx context.Context, order *model.Order) (err error) {
	ctx, span := startSpan(ctx, "OrderRepository.Create", "insert", "orders",
		attribute.Int64("company.id", int64(order.CompanyID)),
		attribute.Int("order.items", len(order.Items)))
	defer func() { endSpan(span, err) }()

	entity, err := orderToEntity(order)
	if err != nil {
		return fmt.Errorf("falha ao converter modelo para entidade: %w", err)
	}

	// itens são gravados junto com o pedido pela associação
	if err := conn(ctx, r.db).Create(entity).Error; err != nil {
		r.logger.Error("falha ao criar pedido", zap.Uint("company_id", order.CompanyID), zap.Error(err))
		return translate(err)
	}

	order.ID = entity.ID
	order.CreatedAt = entity.CreatedAt
	for i := range entity.Items {
		order.Items[i].ID = entity.Items[i].ID
		order.Items[i].OrderID = entity.ID
	}
	span.SetAttributes(attribute.Int64("order.id", int64(order.ID)))
	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, userID, companyID, id uint) (order *model.Order, err error) {
	ctx, span := startSpan(ctx, "OrderRepository.GetByID", "select", "orders", attribute.Int64("order.id", int64(id)))
	defer func() { endSpan(span, err) }()

	var entity model.OrderEntity
	err = r.withRelations(conn(ctx, r.db)).
		Where("id = ? AND user_id = ? AND company_id = ?", id, userID, companyID).
		First(&entity).Error
	if err != nil {
		return nil, translate(err)
	}
	return orderToModel(&entity)
}

func (r *OrderRepository) GetByLocalID(ctx context.Context, companyID uint, localID string) (order *model.Order, err error) {
	ctx, span := startSpan(ctx, "OrderRepository.GetByLocalID", "select", "orders", attribute.String("order.local_id", localID))
	defer func() { endSpan(span, err) }()

	var entity model.OrderEntity
	err = r.withRelations(conn(ctx, r.db)).
		Where("company_id = ? AND local_id = ?", companyID, localID).
		First(&entity).Error
	if err != nil {
		return nil, translate(err)
	}
	return orderToModel(&entity)
}

func (r *OrderRepository) List(ctx context.Context, userID, companyID uint, limit int) (orders []*model.Order, err error) {
	ctx, span := startSpan(ctx, "OrderRepository.List", "select", "orders",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("company.id", int64(companyID)))
	defer func() { endSpan(span, err) }()

	query := r.withRelations(conn(ctx, r.db)).
		Where("user_id = ? AND company_id = ?", userID, companyID).
		Order("order_date DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entities []model.OrderEntity
	if err := query.Find(&entities).Error; err != nil {
		r.logger.Error("falha ao listar pedidos", zap.Error(err))
		return nil, fmt.Errorf("falha ao listar pedidos: %w", err)
	}

	orders = make([]*model.Order, 0, len(entities))
	for i := range entities {
		order, err := orderToModel(&entities[i])
		if err != nil {
			return nil, fmt.Errorf("falha ao converter pedido %d: %w", entities[i].ID, err)
		}
		orders = append(orders, order)
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (r *OrderRepository) Stats(ctx context.Context, filter repository.OrderFilter) (stats repository.OrderStats, err error) {
	ctx, span := startSpan(ctx, "OrderRepository.Stats", "select", "orders", attribute.String("order.status", filter.Status))
	defer func() { endSpan(span, err) }()

	query := conn(ctx, r.db).Model(&model.OrderEntity{}).
		Where("user_id = ? AND company_id = ?", filter.UserID, filter.CompanyID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("order_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("order_date < ?", filter.To)
	}

	var row struct {
		Count int64
		Total decimal.NullDecimal
	}
	if err := query.Select("COUNT(*) AS count, SUM(total_value) AS total").Scan(&row).Error; err != nil {
		return stats, fmt.Errorf("falha ao agregar pedidos: %w", err)
	}

	stats.Count = row.Count
	stats.Total = decimal.Zero
	if row.Total.Valid {
		stats.Total = row.Total.Decimal.Round(2)
	}
	return stats, nil
}

func (r *OrderRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Client").
		Preload("PaymentMethod").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product")
}

func orderToEntity(o *model.Order) (*model.OrderEntity, error) {
	items := make([]model.OrderItemEntity, 0, len(o.Items))
	for _, item := range o.Items {
		quantity, err := json.Marshal(item.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, model.OrderItemEntity{
			ProductID:    item.ProductID,
			QuantityJSON: string(quantity),
			UnitValue:    item.UnitValue,
		})
	}

	return &model.OrderEntity{
		UserID:             o.UserID,
		CompanyID:          o.CompanyID,
		ClientID:           o.ClientID,
		PaymentMethodID:    o.PaymentMethodID,
		DiscountPercentage: o.DiscountPercentage,
		TotalValue:         o.TotalValue,
		Status:             o.Status,
		OrderDate:          o.OrderDate,
		LocalID:            o.LocalID,
		Items:              items,
	}, nil
}

func orderToModel(e *model.OrderEntity) (*model.Order, error) {
	order := &model.Order{
		ID:                 e.ID,
		UserID:             e.UserID,
		CompanyID:          e.CompanyID,
		ClientID:           e.ClientID,
		PaymentMethodID:    e.PaymentMethodID,
		DiscountPercentage: e.DiscountPercentage,
		TotalValue:         e.TotalValue,
		Status:             e.Status,
		OrderDate:          e.OrderDate,
		LocalID:            e.LocalID,
		CreatedAt:          e.CreatedAt,
		Items:              make([]*model.OrderItem, 0, len(e.Items)),
	}
	if e.Client != nil {
		order.Client = clientToModel(e.Client)
	}
	if e.PaymentMethod != nil {
		order.PaymentMethod = paymentMethodToModel(e.PaymentMethod)
	}

	for i := range e.Items {
		ie := &e.Items[i]
		quantity := map[string]int{}
		if err := json.Unmarshal([]byte(ie.QuantityJSON), &quantity); err != nil {
			return nil, err
		}
		item := &model.OrderItem{
			ID:        ie.ID,
			OrderID:   ie.OrderID,
			ProductID: ie.ProductID,
			Quantity:  quantity,
			UnitValue: ie.UnitValue,
		}
		if ie.Product != nil {
			product, err := productToModel(ie.Product)
			if err != nil {
				return nil, err
			}
			item.Product = product
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}
