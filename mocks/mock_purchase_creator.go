package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fatoora/internal/domain"
)

// MockPurchaseCreator is a mock implementation of port.PurchaseInvoiceCreator.
type MockPurchaseCreator struct {
	mock.Mock
}

func (m *MockPurchaseCreator) Create(ctx context.Context, payload *domain.PurchasePayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}
