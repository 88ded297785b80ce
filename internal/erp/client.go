// Package erp posts assembled purchase payloads to the downstream
// accounting system.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fatoora/internal/config"
	"fatoora/internal/domain"
)

// Client implements port.PurchaseInvoiceCreator against the accounting
// system's REST API.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

// NewClient creates a purchase-invoice API client.
func NewClient(cfg *config.ERPConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		client:    &http.Client{Timeout: timeout},
	}
}

// purchaseInvoiceDoc is the wire shape of a purchase invoice document.
type purchaseInvoiceDoc struct {
	Supplier    string            `json:"supplier"`
	BillNo      string            `json:"bill_no"`
	PostingDate string            `json:"posting_date"`
	DueDate     string            `json:"due_date"`
	Currency    string            `json:"currency"`
	Company     string            `json:"company,omitempty"`
	CostCenter  string            `json:"cost_center,omitempty"`
	Items       []purchaseItemDoc `json:"items"`
	Taxes       []taxChargeDoc    `json:"taxes,omitempty"`
}

type purchaseItemDoc struct {
	ItemCode string          `json:"item_code"`
	Qty      json.RawMessage `json:"qty"`
	Rate     json.RawMessage `json:"rate"`
	Amount   json.RawMessage `json:"amount"`
}

type taxChargeDoc struct {
	ChargeType  string          `json:"charge_type"`
	AccountHead string          `json:"account_head"`
	Description string          `json:"description"`
	TaxAmount   json.RawMessage `json:"tax_amount"`
}

// Create posts the payload and returns the created document's name.
func (c *Client) Create(ctx context.Context, payload *domain.PurchasePayload) (string, error) {
	doc := purchaseInvoiceDoc{
		Supplier:    payload.SupplierID,
		BillNo:      payload.BillNumber,
		PostingDate: payload.PostingDate.Format("2006-01-02"),
		DueDate:     payload.DueDate.Format("2006-01-02"),
		Currency:    payload.Currency,
		Company:     payload.Company,
		CostCenter:  payload.CostCenter,
		Items:       make([]purchaseItemDoc, 0, len(payload.Items)),
	}
	for _, it := range payload.Items {
		doc.Items = append(doc.Items, purchaseItemDoc{
			ItemCode: it.ItemID,
			Qty:      json.RawMessage(it.Quantity.String()),
			Rate:     json.RawMessage(it.Rate.String()),
			Amount:   json.RawMessage(it.Amount.String()),
		})
	}
	for _, tc := range payload.TaxCharges {
		doc.Taxes = append(doc.Taxes, taxChargeDoc{
			ChargeType:  tc.ChargeType,
			AccountHead: tc.AccountHead,
			Description: tc.Description,
			TaxAmount:   json.RawMessage(tc.Amount.String()),
		})
	}

	bodyBytes, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("erp.Client.Create marshal: %w", err)
	}

	url := c.baseURL + "/api/resource/Purchase Invoice"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("erp.Client.Create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "token "+c.apiKey+":"+c.apiSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDownstreamCreateFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("erp.Client.Create read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s",
			domain.ErrDownstreamCreateFailed, resp.StatusCode, truncate(string(respBody), 300))
	}

	var result struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("erp.Client.Create unmarshal: %w", err)
	}
	if result.Data.Name == "" {
		return "", fmt.Errorf("%w: response missing document name", domain.ErrDownstreamCreateFailed)
	}
	return result.Data.Name, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
