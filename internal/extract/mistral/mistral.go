package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fatoora/internal/config"
	"fatoora/internal/extract"
	"fatoora/internal/port"
)

const apiBaseURL = "https://api.mistral.ai"

// Extractor implements port.InvoiceExtractor using Mistral's API in two
// steps: the OCR model turns the document into markdown text, then a chat
// model extracts the invoice JSON from that text.
type Extractor struct {
	apiKey      string
	chatModel   string
	ocrModel    string
	temperature float64
	baseURL     string
	client      *http.Client
}

// NewExtractor creates a Mistral-based invoice extractor.
func NewExtractor(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, "")
}

// NewExtractorWithBaseURL creates an extractor pointing at a custom API base URL (for testing).
func NewExtractorWithBaseURL(cfg *config.ProviderConfig, baseURL string) *Extractor {
	return newExtractor(cfg, baseURL)
}

func newExtractor(cfg *config.ProviderConfig, baseURL string) *Extractor {
	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = "mistral-large-latest"
	}
	ocrModel := cfg.OCRModel
	if ocrModel == "" {
		ocrModel = "mistral-ocr-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if baseURL == "" {
		baseURL = apiBaseURL
	}
	return &Extractor{
		apiKey:      cfg.APIKey,
		chatModel:   chatModel,
		ocrModel:    ocrModel,
		temperature: cfg.Temperature,
		baseURL:     baseURL,
		client:      &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	text, err := e.runOCR(ctx, input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("OCR returned no text")
	}

	raw, err := e.extractFromText(ctx, text)
	if err != nil {
		return nil, err
	}

	return &port.ExtractOutput{
		RawData:   raw,
		ModelUsed: e.ocrModel + "+" + e.chatModel,
	}, nil
}

// ocrResponse models the Mistral OCR response: one markdown blob per page.
type ocrResponse struct {
	Pages []struct {
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

func (e *Extractor) runOCR(ctx context.Context, input port.ExtractInput) (string, error) {
	document, err := toOCRDocument(input)
	if err != nil {
		return "", err
	}

	reqBody := map[string]interface{}{
		"model":    e.ocrModel,
		"document": document,
	}

	respBody, err := e.post(ctx, "/v1/ocr", reqBody)
	if err != nil {
		return "", err
	}

	var resp ocrResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling OCR response: %w", err)
	}

	pages := make([]string, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		if md := strings.TrimSpace(p.Markdown); md != "" {
			pages = append(pages, md)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// toOCRDocument builds the OCR document payload: PDFs go as document_url,
// images as image_url, both base64 data URIs.
func toOCRDocument(input port.ExtractInput) (map[string]string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s",
		input.ContentType, base64.StdEncoding.EncodeToString(input.FileBytes))

	switch input.ContentType {
	case "application/pdf":
		return map[string]string{"type": "document_url", "document_url": dataURL}, nil
	case "image/jpeg", "image/png":
		return map[string]string{"type": "image_url", "image_url": dataURL}, nil
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", input.ContentType)
	}
}

// chatResponse models the Mistral chat completion response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (e *Extractor) extractFromText(ctx context.Context, ocrText string) (json.RawMessage, error) {
	prompt := extract.BuildInvoicePrompt() +
		"\n\nExtract the invoice data from the following OCR text. Do not guess or invent values; use \"\" or 0 for anything not present.\n\nOCR text:\n" + ocrText

	reqBody := map[string]interface{}{
		"model": e.chatModel,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature":     e.temperature,
		"max_tokens":      4096,
		"response_format": map[string]string{"type": "json_object"},
	}

	respBody, err := e.post(ctx, "/v1/chat/completions", reqBody)
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	text := resp.Choices[0].Message.Content
	raw := extract.SalvageJSON(text)
	if raw == nil {
		return nil, fmt.Errorf("no JSON object in model output (raw: %s)", truncate(text, 500))
	}
	return raw, nil
}

func (e *Extractor) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling mistral API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := extract.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
		return nil, extract.NewRateLimitError("mistral",
			fmt.Errorf("mistral API error (status 429): %s", truncate(string(respBody), 200)), retryAfter)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mistral API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
