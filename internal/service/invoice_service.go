package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"fatoora/internal/assemble"
	"fatoora/internal/config"
	"fatoora/internal/csvexport"
	"fatoora/internal/domain"
	"fatoora/internal/extract"
	"fatoora/internal/logging"
	"fatoora/internal/match"
	"fatoora/internal/port"
	"fatoora/internal/reconcile"
)

// RegisterInvoiceInput is the DTO for registering a source document.
type RegisterInvoiceInput struct {
	// SourceDocument is the object key of the uploaded document.
	SourceDocument string
}

// InvoiceService defines the extraction-to-reconciliation pipeline
// contract. Every operation is synchronous and runs to completion before
// returning; an invoice's status only advances when the whole operation
// succeeded.
type InvoiceService interface {
	Register(ctx context.Context, input *RegisterInvoiceInput) (*domain.ExtractedInvoice, error)
	Extract(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error)
	Validate(ctx context.Context, id uuid.UUID) (*reconcile.Report, error)
	Fix(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error)
	Rematch(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error)
	SetItemMatch(ctx context.Context, id uuid.UUID, rowIndex int, itemID string) (*domain.ExtractedInvoice, error)
	Convert(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error)
	SourceDocumentURL(ctx context.Context, id uuid.UUID) (string, error)
	List(ctx context.Context, offset, limit int) ([]domain.ExtractedInvoice, int, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type invoiceService struct {
	repo      port.InvoiceRepository
	catalog   port.CatalogRepository
	storage   port.ObjectStorage
	extractor port.InvoiceExtractor
	purchaser port.PurchaseInvoiceCreator
	s3cfg     *config.S3Config
	acct      assemble.AccountingContext
	matchLim  int
	log       zerolog.Logger
}

// NewInvoiceService creates the invoice pipeline service.
func NewInvoiceService(
	repo port.InvoiceRepository,
	catalog port.CatalogRepository,
	storage port.ObjectStorage,
	extractor port.InvoiceExtractor,
	purchaser port.PurchaseInvoiceCreator,
	cfg *config.Config,
) InvoiceService {
	return &invoiceService{
		repo:      repo,
		catalog:   catalog,
		storage:   storage,
		extractor: extractor,
		purchaser: purchaser,
		s3cfg:     &cfg.S3,
		acct:      assemble.ContextFromConfig(&cfg.Accounting),
		matchLim:  cfg.Catalog.SearchLimit,
		log:       logging.WithComponent("invoice_service"),
	}
}

func (s *invoiceService) Register(ctx context.Context, input *RegisterInvoiceInput) (*domain.ExtractedInvoice, error) {
	key := strings.TrimSpace(input.SourceDocument)
	if key == "" {
		return nil, fmt.Errorf("invoiceService.Register: source document is required")
	}
	if _, err := contentTypeForKey(key); err != nil {
		return nil, err
	}

	inv := &domain.ExtractedInvoice{
		ID:             uuid.New(),
		Status:         domain.InvoiceStatusDraft,
		SourceDocument: key,
		Currency:       domain.DefaultCurrency,
		Items:          []domain.InvoiceLineItem{},
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info().Str("invoice_id", inv.ID.String()).Str("source", key).Msg("invoice registered")
	return inv, nil
}

// Extract runs the full pipeline for one document: download, provider
// extraction, normalization, then supplier and item matching in document
// order. The stored record is only touched once everything succeeded, so
// a failure leaves the invoice exactly as it was.
func (s *invoiceService) Extract(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusLocked(inv.Status) {
		return nil, domain.ErrInvoiceConverted
	}

	contentType, err := contentTypeForKey(inv.SourceDocument)
	if err != nil {
		return nil, err
	}

	fileBytes, err := s.storage.Download(ctx, s.s3cfg.Bucket, inv.SourceDocument)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Extract download: %w", err)
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:   fileBytes,
		ContentType: contentType,
		FileName:    path.Base(inv.SourceDocument),
	})
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Extract provider: %w", err)
	}

	data, err := extract.Normalize(out.RawData)
	if err != nil {
		return nil, err
	}

	s.applyExtraction(ctx, inv, data, out.ModelUsed)
	inv.Status = domain.InvoiceStatusReady

	if err := s.repo.ReplaceExtraction(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("invoice_id", inv.ID.String()).
		Str("model", out.ModelUsed).
		Int("items", len(inv.Items)).
		Msg("invoice extracted")
	return inv, nil
}

// applyExtraction maps normalized data onto the invoice and matches
// entities line by line, in document order, one blocking lookup at a time.
func (s *invoiceService) applyExtraction(ctx context.Context, inv *domain.ExtractedInvoice, data *extract.InvoiceData, model string) {
	matcher := match.New(s.catalog, s.matchLim)

	inv.ExtractionModel = model
	inv.SupplierName = data.SupplierName
	inv.SupplierID = nil
	if id, ok := matcher.MatchSupplier(ctx, data.SupplierName); ok {
		inv.SupplierID = &id
	}
	inv.InvoiceNumber = data.InvoiceNumber
	inv.InvoiceDate = data.InvoiceDate
	inv.DueDate = data.DueDate
	inv.Currency = data.Currency
	inv.Subtotal = data.Subtotal
	inv.TaxAmount = data.TaxAmount
	inv.TotalAmount = data.TotalAmount
	inv.ExtractedData = data.Raw

	inv.Items = make([]domain.InvoiceLineItem, 0, len(data.Items))
	for i, item := range data.Items {
		line := domain.InvoiceLineItem{
			InvoiceID:     inv.ID,
			RowIndex:      i,
			ExtractedText: item.Description,
			Quantity:      item.Quantity,
			Rate:          item.Rate,
			Amount:        item.Amount,
			TaxAmount:     item.TaxAmount,
			TotalWithTax:  item.TotalWithTax,
			Language:      item.Language,
			Taxable:       item.TaxAmount.IsPositive(),
		}
		if id, ok := matcher.MatchItem(ctx, item.Description); ok {
			line.ItemID = &id
		}
		inv.Items = append(inv.Items, line)
	}
}

func (s *invoiceService) Validate(ctx context.Context, id uuid.UUID) (*reconcile.Report, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return reconcile.Compute(inv), nil
}

func (s *invoiceService) Fix(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusLocked(inv.Status) {
		return nil, domain.ErrInvoiceConverted
	}

	reconcile.Fix(inv)
	if err := s.repo.UpdateTotals(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Rematch re-runs entity matching for the supplier and every line item
// that has no catalog id yet. Existing matches are never overwritten;
// that is what SetItemMatch is for.
func (s *invoiceService) Rematch(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusLocked(inv.Status) {
		return nil, domain.ErrInvoiceConverted
	}

	matcher := match.New(s.catalog, s.matchLim)

	if inv.SupplierID == nil || *inv.SupplierID == "" {
		if sid, ok := matcher.MatchSupplier(ctx, inv.SupplierName); ok {
			if err := s.repo.UpdateSupplierMatch(ctx, inv.ID, sid); err != nil {
				return nil, err
			}
			inv.SupplierID = &sid
		}
	}

	for i := range inv.Items {
		it := &inv.Items[i]
		if it.ItemID != nil && *it.ItemID != "" {
			continue
		}
		if itemID, ok := matcher.MatchItem(ctx, it.ExtractedText); ok {
			if err := s.repo.UpdateItemMatch(ctx, inv.ID, it.RowIndex, itemID); err != nil {
				return nil, err
			}
			it.ItemID = &itemID
		}
	}
	return inv, nil
}

func (s *invoiceService) SetItemMatch(ctx context.Context, id uuid.UUID, rowIndex int, itemID string) (*domain.ExtractedInvoice, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, fmt.Errorf("invoiceService.SetItemMatch: item id is required")
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusLocked(inv.Status) {
		return nil, domain.ErrInvoiceConverted
	}

	if err := s.repo.UpdateItemMatch(ctx, id, rowIndex, itemID); err != nil {
		return nil, err
	}
	for i := range inv.Items {
		if inv.Items[i].RowIndex == rowIndex {
			inv.Items[i].ItemID = &itemID
		}
	}
	return inv, nil
}

// Convert gates, assembles, and posts the purchase invoice. The local
// record flips to Converted only after the downstream create succeeded.
func (s *invoiceService) Convert(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if statusLocked(inv.Status) {
		return nil, domain.ErrInvoiceConverted
	}
	if inv.Status != domain.InvoiceStatusReady {
		return nil, domain.ErrInvoiceNotReady
	}

	payload, err := assemble.PurchasePayload(inv, s.acct)
	if err != nil {
		return nil, err
	}

	name, err := s.purchaser.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkConverted(ctx, inv.ID, name); err != nil {
		// The downstream document exists but the local link failed;
		// surface the reference so the operator can reconcile by hand.
		s.log.Error().Err(err).
			Str("invoice_id", inv.ID.String()).
			Str("purchase_invoice", name).
			Msg("purchase invoice created but local status update failed")
		return nil, err
	}

	inv.Status = domain.InvoiceStatusConverted
	inv.PurchaseInvoice = &name

	s.log.Info().
		Str("invoice_id", inv.ID.String()).
		Str("purchase_invoice", name).
		Msg("invoice converted")
	return inv, nil
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*domain.ExtractedInvoice, error) {
	return s.repo.GetByID(ctx, id)
}

// SourceDocumentURL presigns a short-lived link to the source document for
// side-by-side review.
func (s *invoiceService) SourceDocumentURL(ctx context.Context, id uuid.UUID) (string, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, inv.SourceDocument, s.s3cfg.PresignExpiry)
}

func (s *invoiceService) List(ctx context.Context, offset, limit int) ([]domain.ExtractedInvoice, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, offset, limit)
}

func (s *invoiceService) ExportCSV(ctx context.Context, w io.Writer) error {
	const batchSize = 500

	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("invoiceService.ExportCSV: %w", err)
	}
	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("invoiceService.ExportCSV: %w", err)
	}

	for offset := 0; ; offset += batchSize {
		invoices, total, err := s.repo.List(ctx, offset, batchSize)
		if err != nil {
			return err
		}
		if err := cw.WriteInvoices(invoices); err != nil {
			return fmt.Errorf("invoiceService.ExportCSV: %w", err)
		}
		if offset+batchSize >= total || len(invoices) == 0 {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}

// statusLocked reports whether an invoice's status can no longer advance.
// Converted is the top of the Draft -> Ready -> Converted lattice, so a
// status that cannot reach it is terminal and rejects every mutation.
func statusLocked(status domain.InvoiceStatus) bool {
	return !status.CanTransition(domain.InvoiceStatusConverted)
}

// contentTypeForKey maps a document key's extension to its MIME type.
func contentTypeForKey(key string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(key)), ".")
	ft, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
	return domain.AllowedFileTypes[ft], nil
}
