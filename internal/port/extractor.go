package port

import (
	"context"
	"encoding/json"
)

// ExtractInput carries the source document for provider extraction.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
	FileName    string
}

// ExtractOutput is the raw provider result. RawData keeps the provider's
// JSON shape; the normalizer is the only consumer that looks inside it.
type ExtractOutput struct {
	RawData   json.RawMessage
	ModelUsed string
}

// InvoiceExtractor abstracts an OCR/LLM extraction provider.
type InvoiceExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
