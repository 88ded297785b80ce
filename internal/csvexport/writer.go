package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"fatoora/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"ID",
	"Status",
	"Source Document",
	"Extraction Model",
	"Supplier Name",
	"Supplier ID",
	"Invoice Number",
	"Invoice Date",
	"Due Date",
	"Currency",
	"Subtotal",
	"Tax Amount",
	"Total Amount",
	"Purchase Invoice",
	"Line Item Count",
	"Created At",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.ExtractedInvoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceToRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func invoiceToRow(inv *domain.ExtractedInvoice) []string {
	row := make([]string, len(columns))
	row[0] = inv.ID.String()
	row[1] = string(inv.Status)
	row[2] = inv.SourceDocument
	row[3] = inv.ExtractionModel
	row[4] = inv.SupplierName
	if inv.SupplierID != nil {
		row[5] = *inv.SupplierID
	}
	row[6] = inv.InvoiceNumber
	row[7] = formatDate(inv.InvoiceDate)
	row[8] = formatDate(inv.DueDate)
	row[9] = inv.Currency
	row[10] = inv.Subtotal.StringFixed(2)
	row[11] = inv.TaxAmount.StringFixed(2)
	row[12] = inv.TotalAmount.StringFixed(2)
	if inv.PurchaseInvoice != nil {
		row[13] = *inv.PurchaseInvoice
	}
	row[14] = strconv.Itoa(len(inv.Items))
	row[15] = inv.CreatedAt.Format(time.RFC3339)
	return row
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
