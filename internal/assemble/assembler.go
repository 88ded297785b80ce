// Package assemble projects a reconciled invoice into the purchase-invoice
// payload consumed by the accounting system. Assembly is a pure
// projection; nothing here persists or posts.
package assemble

import (
	"time"

	"fatoora/internal/config"
	"fatoora/internal/domain"
)

// AccountingContext carries the company defaults stamped onto every
// payload.
type AccountingContext struct {
	Company     string
	CostCenter  string
	TaxAccount  string
	DueDateDays int
}

// ContextFromConfig builds the accounting context from configuration.
func ContextFromConfig(cfg *config.AccountingConfig) AccountingContext {
	return AccountingContext{
		Company:     cfg.Company,
		CostCenter:  cfg.CostCenter,
		TaxAccount:  cfg.TaxAccount,
		DueDateDays: cfg.DueDateDays,
	}
}

// PurchasePayload builds the downstream payload for a fully matched
// invoice. Every line item must carry a catalog item id; otherwise the
// call fails with *domain.UnlinkedItemsError listing each offending row,
// and no partial payload is produced.
func PurchasePayload(inv *domain.ExtractedInvoice, acct AccountingContext) (*domain.PurchasePayload, error) {
	if inv.SupplierID == nil || *inv.SupplierID == "" {
		return nil, domain.ErrNoSupplierMatched
	}
	if len(inv.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	var unlinked []domain.UnlinkedItem
	for _, it := range inv.Items {
		if it.ItemID == nil || *it.ItemID == "" {
			unlinked = append(unlinked, domain.UnlinkedItem{
				RowIndex:    it.RowIndex,
				Description: it.ExtractedText,
			})
		}
	}
	if len(unlinked) > 0 {
		return nil, &domain.UnlinkedItemsError{Items: unlinked}
	}

	postingDate := time.Now().UTC().Truncate(24 * time.Hour)
	if inv.InvoiceDate != nil {
		postingDate = *inv.InvoiceDate
	}
	dueDate := postingDate.AddDate(0, 0, acct.DueDateDays)
	if inv.DueDate != nil {
		dueDate = *inv.DueDate
	}

	payload := &domain.PurchasePayload{
		SupplierID:  *inv.SupplierID,
		BillNumber:  inv.InvoiceNumber,
		PostingDate: postingDate,
		DueDate:     dueDate,
		Currency:    inv.Currency,
		Company:     acct.Company,
		CostCenter:  acct.CostCenter,
		Items:       make([]domain.PurchaseItem, 0, len(inv.Items)),
	}

	for _, it := range inv.Items {
		payload.Items = append(payload.Items, domain.PurchaseItem{
			ItemID:   *it.ItemID,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Amount:   it.Amount,
		})
	}

	// The document-level tax goes on as one consolidated actual-amount
	// charge; per-line taxes are never itemized downstream.
	if inv.TaxAmount.IsPositive() {
		payload.TaxCharges = []domain.PurchaseTaxLine{
			{
				ChargeType:  "Actual",
				AccountHead: acct.TaxAccount,
				Description: "VAT",
				Amount:      inv.TaxAmount,
			},
		}
	}

	return payload, nil
}
