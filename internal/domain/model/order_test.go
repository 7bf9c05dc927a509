package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItemTotals(t *testing.T) {
	item := &OrderItem{
		Quantity:  map[string]int{"P": 2, "M": 3, "G": 0},
		UnitValue: decimal.RequireFromString("29.90"),
	}

	assert.Equal(t, 5, item.TotalQuantity())
	assert.True(t, decimal.RequireFromString("149.50").Equal(item.Subtotal()))
}

func TestMoneyIsRenderedAsNumber(t *testing.T) {
	data, err := json.Marshal(&Product{Code: "CAMISETA-001", Value: decimal.RequireFromString("29.90")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":29.9`)
}
