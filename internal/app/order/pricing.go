package order

import (
	"context"
	"fmt"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MaxSizeQuantity limita a quantidade de um tamanho em um item
const MaxSizeQuantity = 100000

// ProductNotFoundError indica um código que não existe no catálogo da empresa
type ProductNotFoundError struct {
	Code string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Produto %s não encontrado", e.Code)
}

// ProductLookup resolve um código no catálogo da empresa. Deve devolver
// *ProductNotFoundError quando o código não existe.
type ProductLookup func(ctx context.Context, code string) (*model.Product, error)

// TotalQuantity soma a grade de tamanhos de um item
func TotalQuantity(quantity map[string]int) int {
	total := 0
	for _, q := range quantity {
		total += q
	}
	return total
}

// HasPositiveQuantity informa se algum item tem algum tamanho com quantidade > 0
func HasPositiveQuantity(items []OrderItemInput) bool {
	for _, item := range items {
		for _, q := range item.Quantity {
			if q > 0 {
				return true
			}
		}
	}
	return false
}

// PriceItems resolve cada item no catálogo e calcula o subtotal sem desconto.
// Todos os códigos precisam existir, mesmo os de itens zerados; itens com
// quantidade total zero não entram no pedido.
func PriceItems(ctx context.Context, inputs []OrderItemInput, lookup ProductLookup) ([]*model.OrderItem, decimal.Decimal, error) {
	subtotal := decimal.Zero
	items := make([]*model.OrderItem, 0, len(inputs))

	for _, in := range inputs {
		product, err := lookup(ctx, in.Code)
		if err != nil {
			return nil, decimal.Zero, err
		}

		qty := TotalQuantity(in.Quantity)
		if qty <= 0 {
			continue
		}

		unit := product.Value
		if in.UnitValue != nil {
			// mesma precisão da coluna unit_value
			unit = in.UnitValue.Round(2)
		}

		item := &model.OrderItem{
			ProductID: product.ID,
			Product:   product,
			Quantity:  in.Quantity,
			UnitValue: unit,
		}
		subtotal = subtotal.Add(item.Subtotal())
		items = append(items, item)
	}

	return items, subtotal, nil
}

// ApplyDiscount aplica o percentual sobre o subtotal e arredonda para centavos
func ApplyDiscount(subtotal, percentage decimal.Decimal) decimal.Decimal {
	if percentage.IsPositive() {
		subtotal = subtotal.Sub(subtotal.Mul(percentage).Div(hundred))
	}
	return subtotal.Round(2)
}
