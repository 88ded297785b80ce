package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fatoora/internal/service"
)

// CatalogHandler exposes catalog candidate search for manual match
// resolution.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// SearchSuppliers handles GET /api/v1/catalog/suppliers?q=...&limit=...
func (h *CatalogHandler) SearchSuppliers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	suppliers, err := h.catalogService.SearchSuppliers(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, suppliers)
}

// SearchItems handles GET /api/v1/catalog/items?q=...&limit=...
func (h *CatalogHandler) SearchItems(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	items, err := h.catalogService.SearchItems(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}
