package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fatoora/internal/domain"
)

// MockCatalogRepo is a mock implementation of port.CatalogRepository.
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) SearchSuppliers(ctx context.Context, nameSubstring string, limit int) ([]domain.Supplier, error) {
	args := m.Called(ctx, nameSubstring, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

func (m *MockCatalogRepo) SearchItems(ctx context.Context, nameSubstring string, limit int) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, nameSubstring, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}

func (m *MockCatalogRepo) SearchItemsByTag(ctx context.Context, tag string, limit int) ([]domain.CatalogItem, error) {
	args := m.Called(ctx, tag, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CatalogItem), args.Error(1)
}
