package extract

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fatoora/internal/domain"
	"fatoora/internal/money"
)

// InvoiceData is the canonical, provider-agnostic extraction result. Every
// numeric field is populated (zero rather than absent) so downstream
// arithmetic is total.
type InvoiceData struct {
	SupplierName  string
	InvoiceNumber string
	InvoiceDate   *time.Time
	DueDate       *time.Time
	Currency      string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	Items         []LineItemData

	// Raw preserves the provider response for the audit trail.
	Raw json.RawMessage
}

// LineItemData is one canonical line in document order.
type LineItemData struct {
	Description  string
	Language     string
	Quantity     decimal.Decimal
	Rate         decimal.Decimal
	Amount       decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalWithTax decimal.Decimal
}

// rawInvoice mirrors the provider JSON shape. Field values arrive as
// strings or numbers depending on the provider, so everything numeric is
// decoded loosely.
type rawInvoice struct {
	Supplier      json.RawMessage `json:"supplier"`
	SupplierAr    json.RawMessage `json:"supplier_ar"`
	InvoiceNumber json.RawMessage `json:"invoice_number"`
	Date          json.RawMessage `json:"date"`
	DueDate       json.RawMessage `json:"due_date"`
	Subtotal      json.RawMessage `json:"subtotal"`
	TaxAmount     json.RawMessage `json:"tax_amount"`
	TotalAmount   json.RawMessage `json:"total_amount"`
	Currency      json.RawMessage `json:"currency"`
	Items         []rawItem       `json:"items"`
}

type rawItem struct {
	Description   json.RawMessage `json:"description"`
	DescriptionAr json.RawMessage `json:"description_ar"`
	Quantity      json.RawMessage `json:"quantity"`
	UnitPrice     json.RawMessage `json:"unit_price"`
	TaxAmount     json.RawMessage `json:"tax_amount"`
	TotalWithTax  json.RawMessage `json:"total_with_tax"`
}

// Normalize converts a raw provider response into canonical invoice data.
// The Arabic-script variant of a field wins over the Latin one whenever it
// is present; this mirrors how the catalog is maintained, it is not an
// absence fallback. Malformed or non-object input fails with
// domain.ErrMalformedProviderResponse and nothing downstream runs.
func Normalize(raw json.RawMessage) (*InvoiceData, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return nil, domain.ErrMalformedProviderResponse
	}

	var r rawInvoice
	if err := json.Unmarshal([]byte(trimmed), &r); err != nil {
		return nil, domain.ErrMalformedProviderResponse
	}

	data := &InvoiceData{
		SupplierName:  preferText(r.SupplierAr, r.Supplier),
		InvoiceNumber: asText(r.InvoiceNumber),
		InvoiceDate:   asDate(r.Date),
		DueDate:       asDate(r.DueDate),
		Currency:      asText(r.Currency),
		Subtotal:      asDecimal(r.Subtotal, decimal.Zero),
		TaxAmount:     asDecimal(r.TaxAmount, decimal.Zero),
		TotalAmount:   asDecimal(r.TotalAmount, decimal.Zero),
		Items:         make([]LineItemData, 0, len(r.Items)),
		Raw:           json.RawMessage(trimmed),
	}
	if data.Currency == "" {
		data.Currency = domain.DefaultCurrency
	}

	one := decimal.NewFromInt(1)
	for _, it := range r.Items {
		desc := preferText(it.DescriptionAr, it.Description)
		lang := "en"
		if asText(it.DescriptionAr) != "" {
			lang = "ar"
		}
		if desc == "" {
			desc = "Item"
		}

		qty := asDecimal(it.Quantity, one)
		rate := asDecimal(it.UnitPrice, decimal.Zero)
		amount := money.Round(qty.Mul(rate))
		tax := asDecimal(it.TaxAmount, decimal.Zero)
		withTax := asDecimal(it.TotalWithTax, amount.Add(tax))

		data.Items = append(data.Items, LineItemData{
			Description:  desc,
			Language:     lang,
			Quantity:     qty,
			Rate:         rate,
			Amount:       amount,
			TaxAmount:    money.Round(tax),
			TotalWithTax: money.Round(withTax),
		})
	}

	return data, nil
}

// preferText returns the alternate-script value when present, else the default.
func preferText(alternate, fallback json.RawMessage) string {
	if alt := asText(alternate); alt != "" {
		return alt
	}
	return asText(fallback)
}

// asText decodes a JSON string or number into trimmed text.
func asText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// arabicDigits maps Arabic-Indic numerals to ASCII; OCR output mixes both.
var arabicDigits = strings.NewReplacer(
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// asDecimal decodes a numeric field that may arrive as a JSON number or a
// string (possibly with Arabic-Indic digits or grouping commas). Anything
// unparseable yields the default; the result is never an error.
func asDecimal(raw json.RawMessage, def decimal.Decimal) decimal.Decimal {
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return decimal.NewFromFloat(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return def
	}
	s = strings.ReplaceAll(arabicDigits.Replace(strings.TrimSpace(s)), ",", "")
	if s == "" {
		return def
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return def
	}
	return d
}

// asDate parses a YYYY-MM-DD field; anything else yields nil.
func asDate(raw json.RawMessage) *time.Time {
	s := asText(raw)
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// SalvageJSON trims markdown code fences and surrounding prose from a chat
// model response, leaving the outermost JSON object. Returns nil when no
// object can be found.
func SalvageJSON(text string) json.RawMessage {
	t := strings.TrimSpace(text)
	if i := strings.Index(t, "```json"); i != -1 {
		t = t[i+len("```json"):]
		if j := strings.Index(t, "```"); j != -1 {
			t = t[:j]
		}
	} else if i := strings.Index(t, "```"); i != -1 {
		t = t[i+3:]
		if j := strings.Index(t, "```"); j != -1 {
			t = t[:j]
		}
	}

	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start == -1 || end <= start {
		return nil
	}
	return json.RawMessage(strings.TrimSpace(t[start : end+1]))
}
