package port

import (
	"context"

	"fatoora/internal/domain"
)

// PurchaseInvoiceCreator is the downstream collaborator that persists a
// purchase payload. Create is synchronous and returns the created record
// id; linking it back onto the extracted invoice is the caller's job.
type PurchaseInvoiceCreator interface {
	Create(ctx context.Context, payload *domain.PurchasePayload) (string, error)
}
