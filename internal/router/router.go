package router

import (
	"github.com/gin-gonic/gin"

	"fatoora/internal/config"
	"fatoora/internal/handler"
	"fatoora/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	invoiceH *handler.InvoiceHandler,
	catalogH *handler.CatalogHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(&cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(&cfg.Auth))

	invoices := v1.Group("/invoices")
	invoices.POST("", invoiceH.Register)
	invoices.GET("", invoiceH.List)
	invoices.GET("/export", invoiceH.ExportCSV)
	invoices.GET("/:id", invoiceH.GetByID)
	invoices.GET("/:id/source", invoiceH.SourceURL)
	invoices.POST("/:id/extract", invoiceH.Extract)
	invoices.GET("/:id/validate", invoiceH.Validate)
	invoices.POST("/:id/fix", invoiceH.Fix)
	invoices.POST("/:id/rematch", invoiceH.Rematch)
	invoices.PUT("/:id/items/:row/match", invoiceH.SetItemMatch)
	invoices.POST("/:id/convert", invoiceH.Convert)

	catalog := v1.Group("/catalog")
	catalog.GET("/suppliers", catalogH.SearchSuppliers)
	catalog.GET("/items", catalogH.SearchItems)

	return r
}
