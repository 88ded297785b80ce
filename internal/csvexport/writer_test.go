package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatoora/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 16)
	assert.Equal(t, "ID", row[0])
	assert.Equal(t, "Status", row[1])
	assert.Equal(t, "Created At", row[15])
}

func TestWriteInvoices(t *testing.T) {
	supplierID := "SUP-001"
	pinv := "ACC-PINV-2024-00042"
	invDate := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	invoices := []domain.ExtractedInvoice{
		{
			ID:              uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			Status:          domain.InvoiceStatusConverted,
			SourceDocument:  "invoices/2024/03/inv-001.pdf",
			ExtractionModel: "gemini-2.0-flash",
			SupplierName:    "Alpha Trading Co",
			SupplierID:      &supplierID,
			InvoiceNumber:   "INV-2024-001",
			InvoiceDate:     &invDate,
			Currency:        "SAR",
			Subtotal:        decimal.NewFromFloat(100),
			TaxAmount:       decimal.NewFromFloat(15),
			TotalAmount:     decimal.NewFromFloat(115),
			PurchaseInvoice: &pinv,
			CreatedAt:       time.Date(2024, 3, 11, 9, 30, 0, 0, time.UTC),
			Items: []domain.InvoiceLineItem{
				{RowIndex: 0}, {RowIndex: 1},
			},
		},
		{
			ID:             uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Status:         domain.InvoiceStatusDraft,
			SourceDocument: "invoices/2024/03/inv-002.jpg",
			Currency:       "SAR",
			CreatedAt:      time.Date(2024, 3, 12, 8, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteInvoices(invoices))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[1]
	assert.Equal(t, "converted", first[1])
	assert.Equal(t, "Alpha Trading Co", first[4])
	assert.Equal(t, "SUP-001", first[5])
	assert.Equal(t, "2024-03-10", first[7])
	assert.Equal(t, "", first[8], "missing due date stays blank")
	assert.Equal(t, "100.00", first[10])
	assert.Equal(t, "115.00", first[12])
	assert.Equal(t, "ACC-PINV-2024-00042", first[13])
	assert.Equal(t, "2", first[14])

	second := rows[2]
	assert.Equal(t, "draft", second[1])
	assert.Equal(t, "", second[5], "unmatched supplier stays blank")
	assert.Equal(t, "0.00", second[10], "zero amounts render as 0.00")
	assert.Equal(t, "0", second[14])
}
