// Command fatooractl is an offline companion to the service. It runs the
// extraction normalizer and the totals reconciler against local JSON
// files, which is useful for debugging provider output without a database
// or an API key.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fatoora/internal/domain"
	"fatoora/internal/extract"
	"fatoora/internal/reconcile"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fatooractl",
		Short:         "Offline tools for invoice extraction data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newNormalizeCmd())
	root.AddCommand(newReconcileCmd())
	return root
}

func newNormalizeCmd() *cobra.Command {
	var salvage bool

	cmd := &cobra.Command{
		Use:   "normalize <response.json>",
		Short: "Normalize a raw provider response into canonical invoice data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			payload := json.RawMessage(raw)
			if salvage {
				payload = extract.SalvageJSON(string(raw))
				if payload == nil {
					return fmt.Errorf("no JSON object found in input")
				}
			}

			data, err := extract.Normalize(payload)
			if err != nil {
				return err
			}
			return printJSON(cmd, normalizedView(data))
		},
	}
	cmd.Flags().BoolVar(&salvage, "salvage", false, "strip markdown fences and surrounding prose before parsing")
	return cmd
}

func newReconcileCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "reconcile <invoice.json>",
		Short: "Check declared totals against line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			var inv domain.ExtractedInvoice
			if err := json.Unmarshal(raw, &inv); err != nil {
				return fmt.Errorf("parse invoice: %w", err)
			}

			if fix {
				reconcile.Fix(&inv)
			}
			report := reconcile.Compute(&inv)
			if err := printJSON(cmd, report); err != nil {
				return err
			}
			if fix {
				return printJSON(cmd, map[string]any{
					"subtotal":     inv.Subtotal,
					"tax_amount":   inv.TaxAmount,
					"total_amount": inv.TotalAmount,
				})
			}
			if !report.AllMatch {
				os.Exit(2)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "replace declared totals with the line-item derived values")
	return cmd
}

// normalizedView flattens InvoiceData for display. The in-memory struct
// has no JSON tags of its own because it never crosses the API boundary.
func normalizedView(data *extract.InvoiceData) map[string]any {
	items := make([]map[string]any, 0, len(data.Items))
	for _, it := range data.Items {
		items = append(items, map[string]any{
			"description":    it.Description,
			"language":       it.Language,
			"quantity":       it.Quantity,
			"rate":           it.Rate,
			"amount":         it.Amount,
			"tax_amount":     it.TaxAmount,
			"total_with_tax": it.TotalWithTax,
		})
	}
	return map[string]any{
		"supplier_name":  data.SupplierName,
		"invoice_number": data.InvoiceNumber,
		"invoice_date":   data.InvoiceDate,
		"due_date":       data.DueDate,
		"currency":       data.Currency,
		"subtotal":       data.Subtotal,
		"tax_amount":     data.TaxAmount,
		"total_amount":   data.TotalAmount,
		"items":          items,
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
