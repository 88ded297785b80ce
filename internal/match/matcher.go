// Package match resolves free-text supplier and item descriptions to
// catalog identities. Matching is a cheap substring heuristic tuned for
// recall over precision: OCR text is often partial or garbled, and an
// unmatched entity is surfaced for manual resolution rather than guessed.
package match

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"fatoora/internal/logging"
	"fatoora/internal/port"
)

// tagPattern extracts an explicit #TAG# marker from an item description.
// Invoices prepared by known suppliers carry these markers so their lines
// resolve without relying on free-text containment.
var tagPattern = regexp.MustCompile(`#([^#]+)#`)

// Matcher performs catalog lookups with first-match semantics. Each
// distinct text is looked up at most once per Matcher instance; the result
// is cached, so a Matcher must not outlive the request it serves.
type Matcher struct {
	catalog port.CatalogRepository
	limit   int
	log     zerolog.Logger

	supplierCache map[string]string
	itemCache     map[string]string
}

// New creates a Matcher over the given catalog. limit caps how many
// candidates a single lookup fetches; only the first is ever used.
func New(catalog port.CatalogRepository, limit int) *Matcher {
	if limit <= 0 {
		limit = 1
	}
	return &Matcher{
		catalog:       catalog,
		limit:         limit,
		log:           logging.WithComponent("matcher"),
		supplierCache: make(map[string]string),
		itemCache:     make(map[string]string),
	}
}

// MatchSupplier resolves a free-text supplier name to a catalog supplier
// id. Blank input never performs a lookup. A catalog failure is logged and
// treated as no match; matching must never block the pipeline.
func (m *Matcher) MatchSupplier(ctx context.Context, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if id, ok := m.supplierCache[name]; ok {
		return id, id != ""
	}

	id := ""
	suppliers, err := m.catalog.SearchSuppliers(ctx, name, m.limit)
	if err != nil {
		m.log.Warn().Err(err).Str("name", name).Msg("supplier lookup failed, treating as no match")
	} else if len(suppliers) > 0 {
		id = suppliers[0].ID
	}

	m.supplierCache[name] = id
	return id, id != ""
}

// MatchItem resolves a free-text item description to a catalog item id.
// A #TAG# marker in the description is tried first; on no hit the whole
// description falls back to name containment.
func (m *Matcher) MatchItem(ctx context.Context, description string) (string, bool) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", false
	}
	if id, ok := m.itemCache[description]; ok {
		return id, id != ""
	}

	id := m.lookupItem(ctx, description)
	m.itemCache[description] = id
	return id, id != ""
}

func (m *Matcher) lookupItem(ctx context.Context, description string) string {
	if tag := tagPattern.FindStringSubmatch(description); tag != nil {
		items, err := m.catalog.SearchItemsByTag(ctx, tag[1], m.limit)
		if err != nil {
			m.log.Warn().Err(err).Str("tag", tag[1]).Msg("item tag lookup failed, treating as no match")
			return ""
		}
		if len(items) > 0 {
			return items[0].ID
		}
	}

	items, err := m.catalog.SearchItems(ctx, description, m.limit)
	if err != nil {
		m.log.Warn().Err(err).Str("description", description).Msg("item lookup failed, treating as no match")
		return ""
	}
	if len(items) > 0 {
		return items[0].ID
	}
	return ""
}
