package extract_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatoora/internal/domain"
	"fatoora/internal/extract"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNormalize_FullInvoice(t *testing.T) {
	raw := json.RawMessage(`{
		"supplier": "Alpha Trading Co",
		"invoice_number": "INV-2024-001",
		"date": "2024-03-10",
		"currency": "SAR",
		"subtotal": 100.0,
		"tax_amount": 15.0,
		"total_amount": 115.0,
		"items": [
			{"description": "Copper pipe 22mm", "quantity": 4, "unit_price": 25.0, "tax_amount": 15.0, "total_with_tax": 115.0}
		]
	}`)

	data, err := extract.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Alpha Trading Co", data.SupplierName)
	assert.Equal(t, "INV-2024-001", data.InvoiceNumber)
	require.NotNil(t, data.InvoiceDate)
	assert.Equal(t, "2024-03-10", data.InvoiceDate.Format("2006-01-02"))
	assert.Nil(t, data.DueDate)
	assert.Equal(t, "SAR", data.Currency)
	assert.True(t, data.Subtotal.Equal(dec("100")))
	assert.True(t, data.TaxAmount.Equal(dec("15")))
	assert.True(t, data.TotalAmount.Equal(dec("115")))

	require.Len(t, data.Items, 1)
	item := data.Items[0]
	assert.Equal(t, "Copper pipe 22mm", item.Description)
	assert.Equal(t, "en", item.Language)
	assert.True(t, item.Quantity.Equal(dec("4")))
	assert.True(t, item.Rate.Equal(dec("25")))
	assert.True(t, item.Amount.Equal(dec("100")))
	assert.True(t, item.TaxAmount.Equal(dec("15")))
	assert.True(t, item.TotalWithTax.Equal(dec("115")))

	assert.JSONEq(t, string(raw), string(data.Raw))
}

func TestNormalize_ArabicFieldsWinOverLatin(t *testing.T) {
	raw := json.RawMessage(`{
		"supplier": "Gulf Supplies",
		"supplier_ar": "مؤسسة الخليج للتوريدات",
		"items": [
			{"description": "Steel rod", "description_ar": "قضيب حديد", "quantity": 2, "unit_price": 10}
		]
	}`)

	data, err := extract.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "مؤسسة الخليج للتوريدات", data.SupplierName)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "قضيب حديد", data.Items[0].Description)
	assert.Equal(t, "ar", data.Items[0].Language)
}

func TestNormalize_ArabicDigitsAndStringNumbers(t *testing.T) {
	raw := json.RawMessage(`{
		"supplier": "Test",
		"subtotal": "١٠٠.٥٠",
		"tax_amount": "15,075.25",
		"items": [
			{"description": "Item A", "quantity": "٣", "unit_price": "٢٥.٥"}
		]
	}`)

	data, err := extract.Normalize(raw)
	require.NoError(t, err)

	assert.True(t, data.Subtotal.Equal(dec("100.50")), "subtotal = %s", data.Subtotal)
	assert.True(t, data.TaxAmount.Equal(dec("15075.25")), "tax = %s", data.TaxAmount)

	require.Len(t, data.Items, 1)
	assert.True(t, data.Items[0].Quantity.Equal(dec("3")))
	assert.True(t, data.Items[0].Rate.Equal(dec("25.5")))
	assert.True(t, data.Items[0].Amount.Equal(dec("76.5")))
}

func TestNormalize_Defaults(t *testing.T) {
	raw := json.RawMessage(`{
		"supplier": "Test",
		"items": [
			{"unit_price": 9.99, "tax_amount": 1.5}
		]
	}`)

	data, err := extract.Normalize(raw)
	require.NoError(t, err)

	// Currency defaults when the provider omitted it.
	assert.Equal(t, "SAR", data.Currency)
	assert.True(t, data.Subtotal.IsZero())
	assert.True(t, data.TotalAmount.IsZero())

	require.Len(t, data.Items, 1)
	item := data.Items[0]
	assert.Equal(t, "Item", item.Description)
	assert.True(t, item.Quantity.Equal(dec("1")), "missing quantity defaults to 1")
	assert.True(t, item.Amount.Equal(dec("9.99")))
	assert.True(t, item.TotalWithTax.Equal(dec("11.49")), "total_with_tax defaults to amount+tax")
}

func TestNormalize_AmountIsQuantityTimesRateRounded(t *testing.T) {
	raw := json.RawMessage(`{
		"supplier": "Test",
		"items": [
			{"description": "A", "quantity": 3, "unit_price": "3.335"}
		]
	}`)

	data, err := extract.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, data.Items, 1)
	assert.True(t, data.Items[0].Amount.Equal(dec("10.01")), "amount = %s", data.Items[0].Amount)
}

func TestNormalize_MalformedInput(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"json array", `[{"supplier":"x"}]`},
		{"plain string", `"not an invoice"`},
		{"truncated object", `{"supplier": "x", "items": [`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := extract.Normalize(json.RawMessage(tc.raw))
			assert.ErrorIs(t, err, domain.ErrMalformedProviderResponse)
		})
	}
}

func TestNormalize_UnparseableNumbersFallBack(t *testing.T) {
	raw := json.RawMessage(`{
		"supplier": "Test",
		"subtotal": "N/A",
		"items": [{"description": "A", "quantity": "many", "unit_price": 5}]
	}`)

	data, err := extract.Normalize(raw)
	require.NoError(t, err)
	assert.True(t, data.Subtotal.IsZero())
	require.Len(t, data.Items, 1)
	assert.True(t, data.Items[0].Quantity.Equal(dec("1")))
}

func TestSalvageJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json code fence", "Here you go:\n```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain code fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `The extracted data is {"a":1} as requested.`, `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := extract.SalvageJSON(tc.in)
			require.NotNil(t, got)
			assert.JSONEq(t, tc.want, string(got))
		})
	}

	assert.Nil(t, extract.SalvageJSON("no json here"))
	assert.Nil(t, extract.SalvageJSON(""))
}
