package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound                  = errors.New("resource not found")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrMalformedProviderResponse = errors.New("malformed provider response")
	ErrInvoiceConverted          = errors.New("invoice has already been converted")
	ErrInvoiceNotReady           = errors.New("invoice is not ready for conversion")
	ErrNoSupplierMatched         = errors.New("no supplier matched; select a supplier first")
	ErrNoItems                   = errors.New("invoice has no line items")
	ErrInvalidStatusTransition   = errors.New("invalid invoice status transition")
	ErrUnsupportedFileType       = errors.New("unsupported file type")
	ErrRowOutOfRange             = errors.New("line item row index out of range")
	ErrDownstreamCreateFailed    = errors.New("purchase invoice creation failed")
)

// UnlinkedItem identifies one line item that has no matched catalog id.
type UnlinkedItem struct {
	RowIndex    int    `json:"row_index"`
	Description string `json:"description"`
}

// UnlinkedItemsError blocks conversion while any line item is unmatched.
// It lists every offending row so a human can resolve them; no partial
// payload is ever produced.
type UnlinkedItemsError struct {
	Items []UnlinkedItem
}

func (e *UnlinkedItemsError) Error() string {
	rows := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		rows = append(rows, fmt.Sprintf("%d", it.RowIndex))
	}
	return fmt.Sprintf("unlinked items at rows [%s]", strings.Join(rows, ", "))
}
