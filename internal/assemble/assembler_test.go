package assemble_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatoora/internal/assemble"
	"fatoora/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func testAccount() assemble.AccountingContext {
	return assemble.AccountingContext{
		Company:     "Fatoora Trading LLC",
		CostCenter:  "Main - FT",
		TaxAccount:  "VAT - Input",
		DueDateDays: 30,
	}
}

func matchedInvoice() *domain.ExtractedInvoice {
	invDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return &domain.ExtractedInvoice{
		SupplierName:  "Alpha Trading Co",
		SupplierID:    strPtr("SUP-001"),
		InvoiceNumber: "INV-2024-001",
		InvoiceDate:   &invDate,
		Currency:      "SAR",
		Subtotal:      dec("100"),
		TaxAmount:     dec("15"),
		TotalAmount:   dec("115"),
		Items: []domain.InvoiceLineItem{
			{RowIndex: 0, ExtractedText: "Copper pipe", ItemID: strPtr("ITEM-010"), Quantity: dec("4"), Rate: dec("25"), Amount: dec("100")},
		},
	}
}

func TestPurchasePayload_FullyMatched(t *testing.T) {
	payload, err := assemble.PurchasePayload(matchedInvoice(), testAccount())
	require.NoError(t, err)

	assert.Equal(t, "SUP-001", payload.SupplierID)
	assert.Equal(t, "INV-2024-001", payload.BillNumber)
	assert.Equal(t, "2024-03-10", payload.PostingDate.Format("2006-01-02"))
	assert.Equal(t, "2024-04-09", payload.DueDate.Format("2006-01-02"), "due date defaults to posting date + 30 days")
	assert.Equal(t, "SAR", payload.Currency)
	assert.Equal(t, "Fatoora Trading LLC", payload.Company)

	require.Len(t, payload.Items, 1)
	assert.Equal(t, "ITEM-010", payload.Items[0].ItemID)
	assert.True(t, payload.Items[0].Amount.Equal(dec("100")))

	require.Len(t, payload.TaxCharges, 1)
	tax := payload.TaxCharges[0]
	assert.Equal(t, "Actual", tax.ChargeType)
	assert.Equal(t, "VAT - Input", tax.AccountHead)
	assert.True(t, tax.Amount.Equal(dec("15")))
}

func TestPurchasePayload_ExplicitDueDateWins(t *testing.T) {
	inv := matchedInvoice()
	due := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	inv.DueDate = &due

	payload, err := assemble.PurchasePayload(inv, testAccount())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-25", payload.DueDate.Format("2006-01-02"))
}

func TestPurchasePayload_MissingInvoiceDateFallsBackToToday(t *testing.T) {
	inv := matchedInvoice()
	inv.InvoiceDate = nil

	payload, err := assemble.PurchasePayload(inv, testAccount())
	require.NoError(t, err)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), payload.PostingDate.Format("2006-01-02"))
}

func TestPurchasePayload_ZeroTaxOmitsCharge(t *testing.T) {
	inv := matchedInvoice()
	inv.TaxAmount = decimal.Zero

	payload, err := assemble.PurchasePayload(inv, testAccount())
	require.NoError(t, err)
	assert.Empty(t, payload.TaxCharges)
}

func TestPurchasePayload_UnlinkedItemsBlockConversion(t *testing.T) {
	inv := matchedInvoice()
	inv.Items = append(inv.Items,
		domain.InvoiceLineItem{RowIndex: 1, ExtractedText: "mystery part", Quantity: dec("1"), Rate: dec("5"), Amount: dec("5")},
		domain.InvoiceLineItem{RowIndex: 2, ExtractedText: "another part", ItemID: strPtr(""), Quantity: dec("1"), Rate: dec("5"), Amount: dec("5")},
	)

	payload, err := assemble.PurchasePayload(inv, testAccount())
	assert.Nil(t, payload, "no partial payload on gate failure")

	var unlinkedErr *domain.UnlinkedItemsError
	require.ErrorAs(t, err, &unlinkedErr)
	require.Len(t, unlinkedErr.Items, 2)
	assert.Equal(t, 1, unlinkedErr.Items[0].RowIndex)
	assert.Equal(t, "mystery part", unlinkedErr.Items[0].Description)
	assert.Equal(t, 2, unlinkedErr.Items[1].RowIndex)
}

func TestPurchasePayload_NoSupplierMatch(t *testing.T) {
	inv := matchedInvoice()
	inv.SupplierID = nil

	_, err := assemble.PurchasePayload(inv, testAccount())
	assert.ErrorIs(t, err, domain.ErrNoSupplierMatched)
}

func TestPurchasePayload_NoItems(t *testing.T) {
	inv := matchedInvoice()
	inv.Items = nil

	_, err := assemble.PurchasePayload(inv, testAccount())
	assert.ErrorIs(t, err, domain.ErrNoItems)
}
