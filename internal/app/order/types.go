package order

import (
	"context"
	"encoding/json"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Origem do pedido, usada em métricas e eventos
const (
	OriginAPI  = "api"
	OriginSync = "sync"
)

// CreateOrderInput é o pedido como enviado pelo cliente
type CreateOrderInput struct {
	ClientCNPJ         string           `json:"client_cnpj" validate:"required"`
	ClientRazaoSocial  string           `json:"client_razao_social" validate:"required"`
	ClientNomeFantasia string           `json:"client_nome_fantasia"`
	PaymentMethodID    *uint            `json:"payment_method_id"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	Items              []OrderItemInput `json:"items" validate:"min=1,dive"`
	// LocalID identifica o pedido no dispositivo que o criou offline
	LocalID string `json:"local_id,omitempty" validate:"max=64"`
}

type OrderItemInput struct {
	Code      string           `json:"code" validate:"required"`
	Quantity  map[string]int   `json:"quantity"`
	UnitValue *decimal.Decimal `json:"unit_value,omitempty"`
}

// SyncFailure devolve o pedido exatamente como foi recebido
type SyncFailure struct {
	Order json.RawMessage `json:"order"`
	Error string          `json:"error"`
}

type SyncResult struct {
	SyncedCount  int           `json:"synced_count"`
	FailedCount  int           `json:"failed_count"`
	SyncedOrders []uint        `json:"synced_orders"`
	FailedOrders []SyncFailure `json:"failed_orders"`
}

// EventPublisher recebe os pedidos gravados
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order, origin string) error
}

// Recorder registra métricas de pedidos
type Recorder interface {
	OrderCreated(origin string, total float64)
	SyncCompleted(synced, failed int)
}
