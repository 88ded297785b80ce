package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fatoora/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.ExtractedInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.ExtractedInvoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExtractedInvoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) ReplaceExtraction(ctx context.Context, inv *domain.ExtractedInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) UpdateTotals(ctx context.Context, inv *domain.ExtractedInvoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) UpdateItemMatch(ctx context.Context, invoiceID uuid.UUID, rowIndex int, itemID string) error {
	args := m.Called(ctx, invoiceID, rowIndex, itemID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) UpdateSupplierMatch(ctx context.Context, invoiceID uuid.UUID, supplierID string) error {
	args := m.Called(ctx, invoiceID, supplierID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) MarkConverted(ctx context.Context, invoiceID uuid.UUID, purchaseInvoice string) error {
	args := m.Called(ctx, invoiceID, purchaseInvoice)
	return args.Error(0)
}
