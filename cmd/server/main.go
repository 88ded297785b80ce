package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"fatoora/internal/config"
	"fatoora/internal/erp"
	"fatoora/internal/extract"
	"fatoora/internal/extract/gemini"
	"fatoora/internal/extract/mistral"
	"fatoora/internal/handler"
	"fatoora/internal/logging"
	"fatoora/internal/port"
	"fatoora/internal/repository/postgres"
	"fatoora/internal/router"
	"fatoora/internal/service"
	s3storage "fatoora/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logging.Setup(&cfg.Log); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	extractor, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to build extractor: %w", err)
	}

	erpClient := erp.NewClient(&cfg.ERP)

	// Initialize services
	invoiceSvc := service.NewInvoiceService(invoiceRepo, catalogRepo, s3Client, extractor, erpClient, cfg)
	catalogSvc := service.NewCatalogService(catalogRepo, cfg.Catalog.SearchLimit)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, invoiceH, catalogH, healthH)

	srvLog := logging.WithComponent("server")
	srvLog.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// buildExtractor wires the configured providers into a fallback chain.
func buildExtractor(cfg *config.ExtractorConfig) (port.InvoiceExtractor, error) {
	extract.RegisterProvider("gemini", func(pc *config.ProviderConfig) (port.InvoiceExtractor, error) {
		return gemini.NewExtractor(pc), nil
	})
	extract.RegisterProvider("mistral", func(pc *config.ProviderConfig) (port.InvoiceExtractor, error) {
		return mistral.NewExtractor(pc), nil
	})

	primary, err := extract.NewExtractor(&cfg.Primary)
	if err != nil {
		return nil, err
	}

	extractors := []port.InvoiceExtractor{primary}
	names := []string{cfg.Primary.Provider}

	if sec := cfg.SecondaryConfig(); sec != nil {
		secondary, err := extract.NewExtractor(sec)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, secondary)
		names = append(names, sec.Provider)
	}

	return extract.NewChain(extractors, names), nil
}
