// Package reconcile cross-validates invoice totals between two
// independently derived views: amounts recomputed from line items and the
// totals the provider reported from the document. A mismatch is a normal
// outcome for a human to review, not an error.
package reconcile

import (
	"github.com/shopspring/decimal"

	"fatoora/internal/domain"
	"fatoora/internal/money"
)

// Totals is one view of an invoice's money triplet.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// LineSummary is the per-line audit row included in every report.
type LineSummary struct {
	RowIndex    int             `json:"row_index"`
	Description string          `json:"description"`
	ItemID      *string         `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
}

// Report compares the from-items view against the declared view.
type Report struct {
	FromItems    Totals `json:"from_items"`
	FromDeclared Totals `json:"from_declared"`

	// TaxRatePercentage is derived from the declared triplet; zero when
	// the declared subtotal is zero.
	TaxRatePercentage decimal.Decimal `json:"tax_rate_percentage"`

	SubtotalMatch bool `json:"subtotal_match"`
	TaxMatch      bool `json:"tax_match"`
	TotalMatch    bool `json:"total_match"`
	AllMatch      bool `json:"all_match"`

	// Signed differences (from_items minus from_declared), present for
	// every field so mismatches are auditable at a glance.
	SubtotalDiff decimal.Decimal `json:"subtotal_diff"`
	TaxDiff      decimal.Decimal `json:"tax_diff"`
	TotalDiff    decimal.Decimal `json:"total_diff"`

	Items []LineSummary `json:"items"`
}

// fromItems recomputes the money triplet strictly from line items.
// Each component sums exact quantity×rate (or per-line tax) products and
// rounds once after summation, so rounding error does not accumulate
// per line.
func fromItems(items []domain.InvoiceLineItem) Totals {
	amounts := make([]decimal.Decimal, 0, len(items))
	taxes := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		amounts = append(amounts, it.Quantity.Mul(it.Rate))
		taxes = append(taxes, it.TaxAmount)
	}
	subtotal := money.Sum(amounts...)
	tax := money.Sum(taxes...)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     money.Round(subtotal.Add(tax)),
	}
}

// Compute builds the reconciliation report for an invoice. It is a pure
// function of the invoice; it never mutates it.
func Compute(inv *domain.ExtractedInvoice) *Report {
	computed := fromItems(inv.Items)
	declared := Totals{
		Subtotal:  money.Round(inv.Subtotal),
		TaxAmount: money.Round(inv.TaxAmount),
		Total:     money.Round(inv.TotalAmount),
	}

	r := &Report{
		FromItems:         computed,
		FromDeclared:      declared,
		TaxRatePercentage: money.RatePercent(declared.TaxAmount, declared.Subtotal),
		SubtotalDiff:      computed.Subtotal.Sub(declared.Subtotal),
		TaxDiff:           computed.TaxAmount.Sub(declared.TaxAmount),
		TotalDiff:         computed.Total.Sub(declared.Total),
		Items:             make([]LineSummary, 0, len(inv.Items)),
	}
	r.SubtotalMatch = money.Equal(computed.Subtotal, declared.Subtotal)
	r.TaxMatch = money.Equal(computed.TaxAmount, declared.TaxAmount)
	r.TotalMatch = money.Equal(computed.Total, declared.Total)
	r.AllMatch = r.SubtotalMatch && r.TaxMatch && r.TotalMatch

	for _, it := range inv.Items {
		r.Items = append(r.Items, LineSummary{
			RowIndex:    it.RowIndex,
			Description: it.ExtractedText,
			ItemID:      it.ItemID,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
			TaxAmount:   it.TaxAmount,
		})
	}
	return r
}

// Fix overwrites the invoice's declared subtotal, tax, and total with the
// from-items values. The from-items view wins because it is directly
// auditable against visible line data. Idempotent: fixing a fixed invoice
// changes nothing, and Compute afterwards reports AllMatch.
func Fix(inv *domain.ExtractedInvoice) {
	computed := fromItems(inv.Items)
	inv.Subtotal = computed.Subtotal
	inv.TaxAmount = computed.TaxAmount
	inv.TotalAmount = computed.Total
}
