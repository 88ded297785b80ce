package service

import (
	"context"
	"strings"

	"fatoora/internal/domain"
	"fatoora/internal/port"
)

// CatalogService exposes the ordered candidate lists behind the matcher,
// so a human can resolve what first-match could not.
type CatalogService interface {
	SearchSuppliers(ctx context.Context, query string, limit int) ([]domain.Supplier, error)
	SearchItems(ctx context.Context, query string, limit int) ([]domain.CatalogItem, error)
}

type catalogService struct {
	catalog      port.CatalogRepository
	defaultLimit int
}

// NewCatalogService creates the catalog search service.
func NewCatalogService(catalog port.CatalogRepository, defaultLimit int) CatalogService {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &catalogService{catalog: catalog, defaultLimit: defaultLimit}
}

func (s *catalogService) SearchSuppliers(ctx context.Context, query string, limit int) ([]domain.Supplier, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Supplier{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = s.defaultLimit
	}
	return s.catalog.SearchSuppliers(ctx, query, limit)
}

func (s *catalogService) SearchItems(ctx context.Context, query string, limit int) ([]domain.CatalogItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.CatalogItem{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = s.defaultLimit
	}
	return s.catalog.SearchItems(ctx, query, limit)
}
