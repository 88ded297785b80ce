package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExtractedInvoice is the canonical invoice record built from a provider
// extraction. Declared totals are the amounts as reported by the provider;
// the reconciler compares them against the line items.
type ExtractedInvoice struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Status          InvoiceStatus   `db:"status" json:"status"`
	SourceDocument  string          `db:"source_document" json:"source_document"`
	ExtractionModel string          `db:"extraction_model" json:"extraction_model"`
	SupplierName    string          `db:"supplier_name" json:"supplier_name"`
	SupplierID      *string         `db:"supplier_id" json:"supplier_id"`
	InvoiceNumber   string          `db:"invoice_number" json:"invoice_number"`
	InvoiceDate     *time.Time      `db:"invoice_date" json:"invoice_date"`
	DueDate         *time.Time      `db:"due_date" json:"due_date"`
	Currency        string          `db:"currency" json:"currency"`
	Subtotal        decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount       decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	ExtractedData   json.RawMessage `db:"extracted_data" json:"extracted_data"`
	PurchaseInvoice *string         `db:"purchase_invoice" json:"purchase_invoice"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`

	// Items are loaded separately; insertion order is document order.
	Items []InvoiceLineItem `db:"-" json:"items"`
}

// InvoiceLineItem is one extracted invoice row, owned by its invoice.
// Amount is always recomputed as Quantity x Rate, never trusted from the
// provider.
type InvoiceLineItem struct {
	InvoiceID     uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	RowIndex      int             `db:"row_index" json:"row_index"`
	ExtractedText string          `db:"extracted_text" json:"extracted_text"`
	ItemID        *string         `db:"item_id" json:"item_id"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	Rate          decimal.Decimal `db:"rate" json:"rate"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	TaxAmount     decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalWithTax  decimal.Decimal `db:"total_with_tax" json:"total_with_tax"`
	Language      string          `db:"language" json:"language"`
	Taxable       bool            `db:"taxable" json:"taxable"`
}

// Supplier is a catalog supplier identity.
type Supplier struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	TaxID string `db:"tax_id" json:"tax_id"`
}

// CatalogItem is a catalog item identity.
type CatalogItem struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Code        string `db:"code" json:"code"`
	Description string `db:"description" json:"description"`
	UOM         string `db:"uom" json:"uom"`
}

// PurchasePayload is the downstream purchase-invoice handoff: header, item
// lines in document order, and at most one consolidated tax charge.
type PurchasePayload struct {
	SupplierID  string            `json:"supplier_id"`
	BillNumber  string            `json:"bill_number"`
	PostingDate time.Time         `json:"posting_date"`
	DueDate     time.Time         `json:"due_date"`
	Currency    string            `json:"currency"`
	Company     string            `json:"company"`
	CostCenter  string            `json:"cost_center"`
	Items       []PurchaseItem    `json:"items"`
	TaxCharges  []PurchaseTaxLine `json:"tax_charges"`
}

// PurchaseItem is one payload item line.
type PurchaseItem struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// PurchaseTaxLine is an actual-amount tax charge. ChargeType is always
// "Actual": the whole invoice tax is carried as one aggregate adjustment,
// not as per-line percentage charges.
type PurchaseTaxLine struct {
	ChargeType  string          `json:"charge_type"`
	AccountHead string          `json:"account_head"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
