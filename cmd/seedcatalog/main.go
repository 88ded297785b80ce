// Command seedcatalog converts a catalog Excel workbook into a SQL seed
// file. It reads a Suppliers sheet and an Items sheet and emits batched
// INSERTs for the matcher's lookup tables.
// Usage: go run ./cmd/seedcatalog catalog.xlsx
// Output: db/seeds/catalog.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const batchSize = 500

type supplierRow struct {
	id    string
	name  string
	taxID string
}

type itemRow struct {
	id          string
	name        string
	code        string
	description string
	uom         string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return fmt.Errorf("usage: seedcatalog <catalog.xlsx>")
	}
	xlsxPath := os.Args[1]
	outPath := "db/seeds/catalog.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	suppliers, err := parseSuppliersSheet(f)
	if err != nil {
		return fmt.Errorf("parse Suppliers sheet: %w", err)
	}
	log.Printf("Suppliers sheet: %d entries", len(suppliers))

	items, err := parseItemsSheet(f)
	if err != nil {
		return fmt.Errorf("parse Items sheet: %w", err)
	}
	log.Printf("Items sheet: %d entries", len(items))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Catalog seed data generated from Excel.",
		fmt.Sprintf("-- %d suppliers, %d items in batches of %d.", len(suppliers), len(items), batchSize),
		"BEGIN;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	if err := writeSupplierInserts(w, suppliers); err != nil {
		return err
	}
	if err := writeItemInserts(w, items); err != nil {
		return err
	}
	if err := w("COMMIT;"); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}

	log.Printf("wrote %s", outPath)
	return nil
}

func parseSuppliersSheet(f *excelize.File) ([]supplierRow, error) {
	rows, err := f.GetRows("Suppliers")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var suppliers []supplierRow
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(cell(row, 0))
		name := strings.TrimSpace(cell(row, 1))
		if id == "" || name == "" || seen[id] {
			continue
		}
		seen[id] = true
		suppliers = append(suppliers, supplierRow{
			id:    id,
			name:  name,
			taxID: strings.TrimSpace(cell(row, 2)),
		})
	}
	return suppliers, nil
}

func parseItemsSheet(f *excelize.File) ([]itemRow, error) {
	rows, err := f.GetRows("Items")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var items []itemRow
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(cell(row, 0))
		name := strings.TrimSpace(cell(row, 1))
		if id == "" || name == "" || seen[id] {
			continue
		}
		seen[id] = true
		items = append(items, itemRow{
			id:          id,
			name:        name,
			code:        strings.TrimSpace(cell(row, 2)),
			description: strings.TrimSpace(cell(row, 3)),
			uom:         strings.TrimSpace(cell(row, 4)),
		})
	}
	return items, nil
}

func writeSupplierInserts(w func(string) error, suppliers []supplierRow) error {
	for start := 0; start < len(suppliers); start += batchSize {
		end := start + batchSize
		if end > len(suppliers) {
			end = len(suppliers)
		}

		if err := w("INSERT INTO suppliers (id, name, tax_id) VALUES"); err != nil {
			return err
		}
		for i, s := range suppliers[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			line := fmt.Sprintf("  (%s, %s, %s)%s",
				quote(s.id), quote(s.name), quote(s.taxID), sep)
			if err := w(line); err != nil {
				return err
			}
		}
		if err := w("ON CONFLICT (id) DO NOTHING;"); err != nil {
			return err
		}
		if err := w(""); err != nil {
			return err
		}
	}
	return nil
}

func writeItemInserts(w func(string) error, items []itemRow) error {
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}

		if err := w("INSERT INTO catalog_items (id, name, code, description, uom) VALUES"); err != nil {
			return err
		}
		for i, it := range items[start:end] {
			sep := ","
			if start+i == end-1 {
				sep = ""
			}
			line := fmt.Sprintf("  (%s, %s, %s, %s, %s)%s",
				quote(it.id), quote(it.name), quote(it.code), quote(it.description), quote(it.uom), sep)
			if err := w(line); err != nil {
				return err
			}
		}
		if err := w("ON CONFLICT (id) DO NOTHING;"); err != nil {
			return err
		}
		if err := w(""); err != nil {
			return err
		}
	}
	return nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
