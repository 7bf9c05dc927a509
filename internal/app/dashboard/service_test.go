package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/representacao/backend/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestVariation(t *testing.T) {
	tests := []struct {
		cur, prev string
		want      float64
	}{
		{"5", "4", 25},
		{"3", "4", -25},
		{"1", "3", -66.7},
		{"2", "3", -33.3},
		{"7", "0", 100},
		{"0", "0", 0},
		{"1500.50", "1000.00", 50.1},
	}
	for _, tt := range tests {
		got := Variation(decimal.RequireFromString(tt.cur), decimal.RequireFromString(tt.prev))
		assert.Equal(t, tt.want, got, "%s vs %s", tt.cur, tt.prev)
	}
}

func TestMetrics(t *testing.T) {
	orders := new(mocks.MockOrderRepository)
	svc := NewService(orders, zaptest.NewLogger(t))

	loc := time.FixedZone("BRT", -3*60*60)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 14, 30, 0, 0, loc) }
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)

	match := func(from, to time.Time) interface{} {
		return mock.MatchedBy(func(f repository.OrderFilter) bool {
			return f.UserID == 3 && f.CompanyID == 8 &&
				f.Status == model.OrderStatusCompleted &&
				f.From.Equal(from) && f.To.Equal(to)
		})
	}

	orders.On("Stats", mock.Anything, match(today, today.AddDate(0, 0, 1))).
		Return(repository.OrderStats{Count: 3, Total: decimal.NewFromInt(300)}, nil).Once()
	orders.On("Stats", mock.Anything, match(today.AddDate(0, 0, -1), today)).
		Return(repository.OrderStats{Count: 2, Total: decimal.NewFromInt(200)}, nil).Once()
	orders.On("Stats", mock.Anything, match(today.AddDate(0, 0, -30), time.Time{})).
		Return(repository.OrderStats{Count: 10, Total: decimal.RequireFromString("1200.00")}, nil).Once()
	orders.On("Stats", mock.Anything, match(today.AddDate(0, 0, -60), today.AddDate(0, 0, -30))).
		Return(repository.OrderStats{Count: 0, Total: decimal.Zero}, nil).Once()

	latest := []*model.Order{{ID: 9}, {ID: 8}}
	orders.On("List", mock.Anything, uint(3), uint(8), 5).Return(latest, nil).Once()

	m, err := svc.Metrics(context.Background(), 3, 8)
	require.NoError(t, err)

	assert.Equal(t, int64(3), m.OrdersToday.Count)
	assert.Equal(t, 50.0, m.OrdersToday.Variation)
	assert.Equal(t, "1200", m.TotalValue30Days.Value.String())
	assert.Equal(t, 100.0, m.TotalValue30Days.Variation)
	assert.Equal(t, latest, m.LatestOrders)
	orders.AssertExpectations(t)
}

func TestPendingOrdersCount(t *testing.T) {
	orders := new(mocks.MockOrderRepository)
	svc := NewService(orders, zaptest.NewLogger(t))

	orders.On("Stats", mock.Anything, repository.OrderFilter{UserID: 3, CompanyID: 8, Status: model.OrderStatusPending}).
		Return(repository.OrderStats{Count: 4}, nil).Once()

	n, err := svc.PendingOrdersCount(context.Background(), 3, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
