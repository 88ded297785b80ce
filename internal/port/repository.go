package port

import (
	"context"

	"github.com/google/uuid"

	"fatoora/internal/domain"
)

// InvoiceRepository persists extracted invoices and their line items.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.ExtractedInvoice) error
	// GetByID returns the invoice with its line items in document order.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error)
	List(ctx context.Context, offset, limit int) ([]domain.ExtractedInvoice, int, error)
	// ReplaceExtraction writes the extracted header fields and replaces all
	// line items in one transaction.
	ReplaceExtraction(ctx context.Context, inv *domain.ExtractedInvoice) error
	// UpdateTotals overwrites the declared subtotal/tax/total.
	UpdateTotals(ctx context.Context, inv *domain.ExtractedInvoice) error
	UpdateItemMatch(ctx context.Context, invoiceID uuid.UUID, rowIndex int, itemID string) error
	UpdateSupplierMatch(ctx context.Context, invoiceID uuid.UUID, supplierID string) error
	// MarkConverted links the purchase invoice reference and advances status.
	MarkConverted(ctx context.Context, invoiceID uuid.UUID, purchaseInvoice string) error
}

// CatalogRepository is the read-only catalog lookup collaborator. Results
// are returned in a stable order (ascending id) so first-match semantics
// are deterministic.
type CatalogRepository interface {
	SearchSuppliers(ctx context.Context, nameSubstring string, limit int) ([]domain.Supplier, error)
	SearchItems(ctx context.Context, nameSubstring string, limit int) ([]domain.CatalogItem, error)
	// SearchItemsByTag matches #TAG# markers against item descriptions.
	SearchItemsByTag(ctx context.Context, tag string, limit int) ([]domain.CatalogItem, error)
}
