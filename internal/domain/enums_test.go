package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fatoora/internal/domain"
)

func TestInvoiceStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from domain.InvoiceStatus
		to   domain.InvoiceStatus
		want bool
	}{
		{"draft to ready", domain.InvoiceStatusDraft, domain.InvoiceStatusReady, true},
		{"draft to converted", domain.InvoiceStatusDraft, domain.InvoiceStatusConverted, true},
		{"ready to converted", domain.InvoiceStatusReady, domain.InvoiceStatusConverted, true},
		{"ready to draft", domain.InvoiceStatusReady, domain.InvoiceStatusDraft, false},
		{"converted to ready", domain.InvoiceStatusConverted, domain.InvoiceStatusReady, false},
		{"converted to draft", domain.InvoiceStatusConverted, domain.InvoiceStatusDraft, false},
		{"no self transition", domain.InvoiceStatusReady, domain.InvoiceStatusReady, false},
		{"unknown source", domain.InvoiceStatus("archived"), domain.InvoiceStatusReady, false},
		{"unknown target", domain.InvoiceStatusDraft, domain.InvoiceStatus("archived"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestInvoiceStatus_ConvertedIsTerminal(t *testing.T) {
	for _, next := range []domain.InvoiceStatus{
		domain.InvoiceStatusDraft,
		domain.InvoiceStatusReady,
		domain.InvoiceStatusConverted,
	} {
		assert.False(t, domain.InvoiceStatusConverted.CanTransition(next))
	}
}
