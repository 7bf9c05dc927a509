package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/representacao/backend/internal/domain/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const latestOrdersLimit = 5

type OrdersToday struct {
	Count     int64   `json:"count"`
	Variation float64 `json:"variation"`
}

type TotalValue struct {
	Value     decimal.Decimal `json:"value"`
	Variation float64         `json:"variation"`
}

// Metrics é o resumo exibido na tela inicial do representante
type Metrics struct {
	OrdersToday      OrdersToday    `json:"orders_today"`
	TotalValue30Days TotalValue     `json:"total_value_30_days"`
	LatestOrders     []*model.Order `json:"latest_orders"`
}

type Service struct {
	orders repository.OrderRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(orders repository.OrderRepository, logger *zap.Logger) *Service {
	return &Service{orders: orders, logger: logger, now: time.Now}
}

// Metrics compara hoje com ontem e os últimos 30 dias com os 30 anteriores,
// considerando apenas pedidos concluídos
func (s *Service) Metrics(ctx context.Context, userID, companyID uint) (*Metrics, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	thirtyDaysAgo := today.AddDate(0, 0, -30)
	sixtyDaysAgo := today.AddDate(0, 0, -60)

	filter := func(from, to time.Time) repository.OrderFilter {
		f := repository.OrderFilter{
			UserID:    userID,
			CompanyID: companyID,
			Status:    model.OrderStatusCompleted,
			From:      from.UTC(),
		}
		if !to.IsZero() {
			f.To = to.UTC()
		}
		return f
	}

	todayStats, err := s.orders.Stats(ctx, filter(today, today.AddDate(0, 0, 1)))
	if err != nil {
		return nil, err
	}
	yesterdayStats, err := s.orders.Stats(ctx, filter(yesterday, today))
	if err != nil {
		return nil, err
	}
	last30, err := s.orders.Stats(ctx, filter(thirtyDaysAgo, time.Time{}))
	if err != nil {
		return nil, err
	}
	previous30, err := s.orders.Stats(ctx, filter(sixtyDaysAgo, thirtyDaysAgo))
	if err != nil {
		return nil, err
	}

	latest, err := s.orders.List(ctx, userID, companyID, latestOrdersLimit)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		OrdersToday: OrdersToday{
			Count:     todayStats.Count,
			Variation: Variation(decimal.NewFromInt(todayStats.Count), decimal.NewFromInt(yesterdayStats.Count)),
		},
		TotalValue30Days: TotalValue{
			Value:     last30.Total,
			Variation: Variation(last30.Total, previous30.Total),
		},
		LatestOrders: latest,
	}, nil
}

// PendingOrdersCount conta os pedidos ainda pendentes do usuário na empresa
func (s *Service) PendingOrdersCount(ctx context.Context, userID, companyID uint) (int64, error) {
	stats, err := s.orders.Stats(ctx, repository.OrderFilter{
		UserID:    userID,
		CompanyID: companyID,
		Status:    model.OrderStatusPending,
	})
	if err != nil {
		s.logger.Error("Erro ao contar pedidos pendentes", zap.Uint("company_id", companyID), zap.Error(err))
		return 0, err
	}
	return stats.Count, nil
}

// Variation é a variação percentual de previous para current com uma casa
// decimal; sem base de comparação vale 100 se houve movimento e 0 caso contrário
func Variation(current, previous decimal.Decimal) float64 {
	if previous.IsPositive() {
		v, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
		return math.Round(v*10) / 10
	}
	if current.IsPositive() {
		return 100
	}
	return 0
}
