package extract

import (
	"fmt"

	"fatoora/internal/config"
	"fatoora/internal/port"
)

// ProviderFactory is a function that creates an InvoiceExtractor from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.InvoiceExtractor, error)

// registry of extraction provider factories, populated explicitly via
// RegisterProvider by each provider package's wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extraction provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an InvoiceExtractor from a provider config using the
// registered factory.
func NewExtractor(cfg *config.ProviderConfig) (port.InvoiceExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
