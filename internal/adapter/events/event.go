// Package events publica eventos de pedidos para consumidores externos.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/representacao/backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

const OrderCreatedType = "order.created"

// OrderCreated é o corpo publicado quando um pedido é gravado
type OrderCreated struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Origin     string          `json:"origin"`
	OrderID    uint            `json:"order_id"`
	CompanyID  uint            `json:"company_id"`
	UserID     uint            `json:"user_id"`
	ClientCNPJ string          `json:"client_cnpj,omitempty"`
	TotalValue decimal.Decimal `json:"total_value"`
	ItemCount  int             `json:"item_count"`
	LocalID    string          `json:"local_id,omitempty"`
}

func NewOrderCreated(order *model.Order, origin string, now time.Time) OrderCreated {
	evt := OrderCreated{
		ID:         uuid.NewString(),
		Type:       OrderCreatedType,
		OccurredAt: now.UTC(),
		Origin:     origin,
		OrderID:    order.ID,
		CompanyID:  order.CompanyID,
		UserID:     order.UserID,
		TotalValue: order.TotalValue,
		ItemCount:  len(order.Items),
	}
	if order.Client != nil {
		evt.ClientCNPJ = order.Client.CNPJ
	}
	if order.LocalID != nil {
		evt.LocalID = *order.LocalID
	}
	return evt
}
