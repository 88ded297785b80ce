package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fatoora/internal/domain"
	"fatoora/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.ExtractedInvoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (
		id, status, source_document, extraction_model,
		supplier_name, supplier_id, invoice_number, invoice_date, due_date,
		currency, subtotal, tax_amount, total_amount,
		extracted_data, purchase_invoice, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9,
		$10, $11, $12, $13,
		$14, $15, $16, $17
	)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.Status, inv.SourceDocument, inv.ExtractionModel,
		inv.SupplierName, inv.SupplierID, inv.InvoiceNumber, inv.InvoiceDate, inv.DueDate,
		inv.Currency, inv.Subtotal, inv.TaxAmount, inv.TotalAmount,
		inv.ExtractedData, inv.PurchaseInvoice, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	var inv domain.ExtractedInvoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *invoiceRepo) loadItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.InvoiceLineItem, error) {
	items := []domain.InvoiceLineItem{}
	err := r.db.SelectContext(ctx, &items,
		"SELECT * FROM invoice_line_items WHERE invoice_id = $1 ORDER BY row_index", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.loadItems: %w", err)
	}
	return items, nil
}

func (r *invoiceRepo) List(ctx context.Context, offset, limit int) ([]domain.ExtractedInvoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices")
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	invoices := []domain.ExtractedInvoice{}
	err = r.db.SelectContext(ctx, &invoices,
		"SELECT * FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

// ReplaceExtraction writes the extracted header and replaces all line
// items in one transaction, so a failed extraction never leaves a
// half-written invoice behind.
func (r *invoiceRepo) ReplaceExtraction(ctx context.Context, inv *domain.ExtractedInvoice) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.ReplaceExtraction begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inv.UpdatedAt = time.Now().UTC()

	query := `UPDATE invoices SET
		status = $2, extraction_model = $3,
		supplier_name = $4, supplier_id = $5, invoice_number = $6,
		invoice_date = $7, due_date = $8, currency = $9,
		subtotal = $10, tax_amount = $11, total_amount = $12,
		extracted_data = $13, updated_at = $14
	WHERE id = $1`

	res, err := tx.ExecContext(ctx, query,
		inv.ID, inv.Status, inv.ExtractionModel,
		inv.SupplierName, inv.SupplierID, inv.InvoiceNumber,
		inv.InvoiceDate, inv.DueDate, inv.Currency,
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount,
		inv.ExtractedData, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.ReplaceExtraction update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM invoice_line_items WHERE invoice_id = $1", inv.ID); err != nil {
		return fmt.Errorf("invoiceRepo.ReplaceExtraction delete items: %w", err)
	}

	itemQuery := `INSERT INTO invoice_line_items (
		invoice_id, row_index, extracted_text, item_id,
		quantity, rate, amount, tax_amount, total_with_tax,
		language, taxable
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, it := range inv.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			inv.ID, it.RowIndex, it.ExtractedText, it.ItemID,
			it.Quantity, it.Rate, it.Amount, it.TaxAmount, it.TotalWithTax,
			it.Language, it.Taxable); err != nil {
			return fmt.Errorf("invoiceRepo.ReplaceExtraction insert item %d: %w", it.RowIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.ReplaceExtraction commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) UpdateTotals(ctx context.Context, inv *domain.ExtractedInvoice) error {
	inv.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET subtotal = $2, tax_amount = $3, total_amount = $4, updated_at = $5
		 WHERE id = $1`,
		inv.ID, inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateTotals: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) UpdateItemMatch(ctx context.Context, invoiceID uuid.UUID, rowIndex int, itemID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE invoice_line_items SET item_id = $3 WHERE invoice_id = $1 AND row_index = $2",
		invoiceID, rowIndex, itemID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateItemMatch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRowOutOfRange
	}
	return nil
}

func (r *invoiceRepo) UpdateSupplierMatch(ctx context.Context, invoiceID uuid.UUID, supplierID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET supplier_id = $2, updated_at = $3 WHERE id = $1",
		invoiceID, supplierID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateSupplierMatch: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) MarkConverted(ctx context.Context, invoiceID uuid.UUID, purchaseInvoice string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $2, purchase_invoice = $3, updated_at = $4 WHERE id = $1`,
		invoiceID, domain.InvoiceStatusConverted, purchaseInvoice, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkConverted: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
