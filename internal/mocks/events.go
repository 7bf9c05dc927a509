package mocks

import (
	"context"

	"github.com/representacao/backend/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockOrderPublisher struct {
	mock.Mock
}

func (m *MockOrderPublisher) PublishOrderCreated(ctx context.Context, order *model.Order, origin string) error {
	args := m.Called(ctx, order, origin)
	return args.Error(0)
}

type MockOrderRecorder struct {
	mock.Mock
}

func (m *MockOrderRecorder) OrderCreated(origin string, total float64) {
	m.Called(origin, total)
}

func (m *MockOrderRecorder) SyncCompleted(synced, failed int) {
	m.Called(synced, failed)
}
