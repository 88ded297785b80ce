package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fatoora/internal/domain"
	"fatoora/internal/reconcile"
	"fatoora/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Register(ctx context.Context, input *service.RegisterInvoiceInput) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) Extract(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) Validate(ctx context.Context, id uuid.UUID) (*reconcile.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconcile.Report), args.Error(1)
}

func (m *MockInvoiceService) Fix(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) Rematch(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) SetItemMatch(ctx context.Context, id uuid.UUID, rowIndex int, itemID string) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id, rowIndex, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) Convert(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedInvoice), args.Error(1)
}

func (m *MockInvoiceService) SourceDocumentURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, offset, limit int) ([]domain.ExtractedInvoice, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExtractedInvoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) ExportCSV(ctx context.Context, w io.Writer) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}
