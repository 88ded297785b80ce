package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fatoora/internal/domain"
	"fatoora/internal/port"
)

type catalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo creates a new PostgreSQL-backed CatalogRepository.
// Every search orders by id so first-match semantics do not depend on
// incidental storage order.
func NewCatalogRepo(db *sqlx.DB) port.CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) SearchSuppliers(ctx context.Context, nameSubstring string, limit int) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := r.db.SelectContext(ctx, &suppliers,
		`SELECT * FROM suppliers WHERE name LIKE '%' || $1 || '%' ORDER BY id LIMIT $2`,
		nameSubstring, limit)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.SearchSuppliers: %w", err)
	}
	return suppliers, nil
}

func (r *catalogRepo) SearchItems(ctx context.Context, nameSubstring string, limit int) ([]domain.CatalogItem, error) {
	items := []domain.CatalogItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT * FROM catalog_items WHERE name LIKE '%' || $1 || '%' ORDER BY id LIMIT $2`,
		nameSubstring, limit)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.SearchItems: %w", err)
	}
	return items, nil
}

func (r *catalogRepo) SearchItemsByTag(ctx context.Context, tag string, limit int) ([]domain.CatalogItem, error) {
	items := []domain.CatalogItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT * FROM catalog_items
		 WHERE code = $1 OR description LIKE '%#' || $1 || '#%'
		 ORDER BY id LIMIT $2`,
		tag, limit)
	if err != nil {
		return nil, fmt.Errorf("catalogRepo.SearchItemsByTag: %w", err)
	}
	return items, nil
}
