package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order é um pedido de venda com seus itens já precificados
type Order struct {
	ID                 uint            `json:"id"`
	UserID             uint            `json:"user_id"`
	CompanyID          uint            `json:"company_id"`
	ClientID           uint            `json:"client_id"`
	Client             *Client         `json:"client,omitempty"`
	PaymentMethodID    *uint           `json:"payment_method_id"`
	PaymentMethod      *PaymentMethod  `json:"payment_method,omitempty"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TotalValue         decimal.Decimal `json:"total_value"`
	Status             string          `json:"status"`
	OrderDate          time.Time       `json:"order_date"`
	LocalID            *string         `json:"local_id,omitempty"`
	Items              []*OrderItem    `json:"items"`
	CreatedAt          time.Time       `json:"created_at"`
}

// OrderItem guarda a grade de quantidades por tamanho e o preço unitário aplicado
type OrderItem struct {
	ID        uint            `json:"id"`
	OrderID   uint            `json:"order_id"`
	ProductID uint            `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  map[string]int  `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// TotalQuantity soma as quantidades de todos os tamanhos
func (i *OrderItem) TotalQuantity() int {
	total := 0
	for _, q := range i.Quantity {
		total += q
	}
	return total
}

// Subtotal é o valor unitário vezes a quantidade total, sem desconto
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitValue.Mul(decimal.NewFromInt(int64(i.TotalQuantity())))
}
