package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Auth       AuthConfig
	S3         S3Config
	Log        LogConfig
	Extractor  ExtractorConfig
	CORS       CORSConfig
	Catalog    CatalogConfig
	Accounting AccountingConfig
	ERP        ERPConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds service-token validation settings.
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// S3Config holds settings for the source-document object store.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single extraction provider.
type ProviderConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	OCRModel    string  `mapstructure:"ocr_model"`
	Temperature float64 `mapstructure:"temperature"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds extraction provider settings. Secondary is an
// optional alternative provider tried when the primary fails.
type ExtractorConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// CatalogConfig holds catalog lookup settings.
type CatalogConfig struct {
	SearchLimit int `mapstructure:"search_limit"`
}

// AccountingConfig holds the accounting context defaults used when
// assembling purchase payloads.
type AccountingConfig struct {
	Company     string `mapstructure:"company"`
	CostCenter  string `mapstructure:"cost_center"`
	TaxAccount  string `mapstructure:"tax_account"`
	DueDateDays int    `mapstructure:"due_date_days"`
}

// ERPConfig holds settings for the downstream purchase-invoice creator.
type ERPConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKey      string `mapstructure:"api_key"`
	APISecret   string `mapstructure:"api_secret"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Load reads configuration from environment variables with the FATOORA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FATOORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "fatoora")
	v.SetDefault("db.password", "fatoora_secret")
	v.SetDefault("db.name", "fatoora_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Auth defaults
	v.SetDefault("auth.secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "fatoora")

	// S3 defaults
	v.SetDefault("s3.region", "me-south-1")
	v.SetDefault("s3.bucket", "fatoora-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.model", "gemini-2.0-flash")
	v.SetDefault("extractor.primary.ocr_model", "")
	v.SetDefault("extractor.primary.temperature", 0.1)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.model", "mistral-large-latest")
	v.SetDefault("extractor.secondary.ocr_model", "mistral-ocr-latest")
	v.SetDefault("extractor.secondary.temperature", 0.1)
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Catalog defaults
	v.SetDefault("catalog.search_limit", 20)

	// Accounting defaults
	v.SetDefault("accounting.company", "")
	v.SetDefault("accounting.cost_center", "")
	v.SetDefault("accounting.tax_account", "VAT - Input")
	v.SetDefault("accounting.due_date_days", 30)

	// ERP defaults
	v.SetDefault("erp.base_url", "")
	v.SetDefault("erp.api_key", "")
	v.SetDefault("erp.api_secret", "")
	v.SetDefault("erp.timeout_secs", 30)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                     "FATOORA_SERVER_PORT",
		"server.read_timeout":             "FATOORA_SERVER_READ_TIMEOUT",
		"server.write_timeout":            "FATOORA_SERVER_WRITE_TIMEOUT",
		"server.environment":              "FATOORA_SERVER_ENVIRONMENT",
		"db.host":                         "FATOORA_DB_HOST",
		"db.port":                         "FATOORA_DB_PORT",
		"db.user":                         "FATOORA_DB_USER",
		"db.password":                     "FATOORA_DB_PASSWORD",
		"db.name":                         "FATOORA_DB_NAME",
		"db.sslmode":                      "FATOORA_DB_SSLMODE",
		"db.max_open":                     "FATOORA_DB_MAX_OPEN",
		"db.max_idle":                     "FATOORA_DB_MAX_IDLE",
		"auth.secret":                     "FATOORA_AUTH_SECRET",
		"auth.issuer":                     "FATOORA_AUTH_ISSUER",
		"s3.region":                       "FATOORA_S3_REGION",
		"s3.bucket":                       "FATOORA_S3_BUCKET",
		"s3.endpoint":                     "FATOORA_S3_ENDPOINT",
		"s3.access_key":                   "FATOORA_S3_ACCESS_KEY",
		"s3.secret_key":                   "FATOORA_S3_SECRET_KEY",
		"s3.presign_expiry":               "FATOORA_S3_PRESIGN_EXPIRY",
		"log.level":                       "FATOORA_LOG_LEVEL",
		"log.format":                      "FATOORA_LOG_FORMAT",
		"cors.allowed_origins":            "FATOORA_CORS_ALLOWED_ORIGINS",
		"extractor.primary.provider":      "FATOORA_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":       "FATOORA_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.model":         "FATOORA_EXTRACTOR_PRIMARY_MODEL",
		"extractor.primary.ocr_model":     "FATOORA_EXTRACTOR_PRIMARY_OCR_MODEL",
		"extractor.primary.temperature":   "FATOORA_EXTRACTOR_PRIMARY_TEMPERATURE",
		"extractor.primary.timeout_secs":  "FATOORA_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":    "FATOORA_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":     "FATOORA_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.model":       "FATOORA_EXTRACTOR_SECONDARY_MODEL",
		"extractor.secondary.ocr_model":   "FATOORA_EXTRACTOR_SECONDARY_OCR_MODEL",
		"extractor.secondary.temperature": "FATOORA_EXTRACTOR_SECONDARY_TEMPERATURE",
		"extractor.secondary.timeout_secs": "FATOORA_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"catalog.search_limit":            "FATOORA_CATALOG_SEARCH_LIMIT",
		"accounting.company":              "FATOORA_ACCOUNTING_COMPANY",
		"accounting.cost_center":          "FATOORA_ACCOUNTING_COST_CENTER",
		"accounting.tax_account":          "FATOORA_ACCOUNTING_TAX_ACCOUNT",
		"accounting.due_date_days":        "FATOORA_ACCOUNTING_DUE_DATE_DAYS",
		"erp.base_url":                    "FATOORA_ERP_BASE_URL",
		"erp.api_key":                     "FATOORA_ERP_API_KEY",
		"erp.api_secret":                  "FATOORA_ERP_API_SECRET",
		"erp.timeout_secs":                "FATOORA_ERP_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FATOORA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FATOORA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		Secret: v.GetString("auth.secret"),
		Issuer: v.GetString("auth.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Extractor = ExtractorConfig{
		Primary: ProviderConfig{
			Provider:    v.GetString("extractor.primary.provider"),
			APIKey:      v.GetString("extractor.primary.api_key"),
			Model:       v.GetString("extractor.primary.model"),
			OCRModel:    v.GetString("extractor.primary.ocr_model"),
			Temperature: v.GetFloat64("extractor.primary.temperature"),
			TimeoutSecs: v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ProviderConfig{
			Provider:    v.GetString("extractor.secondary.provider"),
			APIKey:      v.GetString("extractor.secondary.api_key"),
			Model:       v.GetString("extractor.secondary.model"),
			OCRModel:    v.GetString("extractor.secondary.ocr_model"),
			Temperature: v.GetFloat64("extractor.secondary.temperature"),
			TimeoutSecs: v.GetInt("extractor.secondary.timeout_secs"),
		},
	}

	cfg.Catalog = CatalogConfig{
		SearchLimit: v.GetInt("catalog.search_limit"),
	}

	cfg.Accounting = AccountingConfig{
		Company:     v.GetString("accounting.company"),
		CostCenter:  v.GetString("accounting.cost_center"),
		TaxAccount:  v.GetString("accounting.tax_account"),
		DueDateDays: v.GetInt("accounting.due_date_days"),
	}

	cfg.ERP = ERPConfig{
		BaseURL:     v.GetString("erp.base_url"),
		APIKey:      v.GetString("erp.api_key"),
		APISecret:   v.GetString("erp.api_secret"),
		TimeoutSecs: v.GetInt("erp.timeout_secs"),
	}

	return cfg, nil
}
