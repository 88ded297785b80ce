package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fatoora/internal/service"
)

// InvoiceHandler handles invoice pipeline endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Register handles POST /api/v1/invoices
func (h *InvoiceHandler) Register(c *gin.Context) {
	var req struct {
		SourceDocument string `json:"source_document" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "source_document is required")
		return
	}

	inv, err := h.invoiceService.Register(c.Request.Context(), &service.RegisterInvoiceInput{
		SourceDocument: req.SourceDocument,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, inv)
}

// Extract handles POST /api/v1/invoices/:id/extract
func (h *InvoiceHandler) Extract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.Extract(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// GetByID handles GET /api/v1/invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// SourceURL handles GET /api/v1/invoices/:id/source
func (h *InvoiceHandler) SourceURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	url, err := h.invoiceService.SourceDocumentURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// List handles GET /api/v1/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	invoices, total, err := h.invoiceService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Validate handles GET /api/v1/invoices/:id/validate
func (h *InvoiceHandler) Validate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	report, err := h.invoiceService.Validate(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, report)
}

// Fix handles POST /api/v1/invoices/:id/fix
func (h *InvoiceHandler) Fix(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.Fix(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// Rematch handles POST /api/v1/invoices/:id/rematch
func (h *InvoiceHandler) Rematch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.Rematch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// SetItemMatch handles PUT /api/v1/invoices/:id/items/:row/match
func (h *InvoiceHandler) SetItemMatch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil || row < 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "row must be a non-negative integer")
		return
	}

	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "item_id is required")
		return
	}

	inv, err := h.invoiceService.SetItemMatch(c.Request.Context(), id, row, req.ItemID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// Convert handles POST /api/v1/invoices/:id/convert
func (h *InvoiceHandler) Convert(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.Convert(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, inv)
}

// ExportCSV handles GET /api/v1/invoices/export
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	filename := "invoices-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.invoiceService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; all we can do is abort the stream.
		c.Abort()
		return
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
