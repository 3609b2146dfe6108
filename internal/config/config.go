package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/secrets"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Secrets    SecretsConfig
	Logging    LoggingConfig
	Server     ServerConfig
	CORS       CORSConfig
	Security   SecurityConfig
	RateLimit  RateLimitConfig
	Content    ContentConfig
	Invoicing  InvoicingConfig
	Email      EmailConfig
	Admin      AdminConfig
	Onboarding OnboardingConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	// "auto" uses environment in development, vault in staging/production
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute applies per IP across the public API
	RequestsPerMinute int
	// SubmitPerHour applies per IP to the contract submission endpoint
	SubmitPerHour  int
	WhitelistPaths []string
}

// ContentConfig holds the headless content store settings. When BaseURL
// is empty the built-in defaults serve all content.
type ContentConfig struct {
	BaseURL         string
	APIKey          string
	Timeout         int // seconds
	CacheTTL        int // seconds
	RefreshSchedule string
}

// InvoicingConfig holds the accounting API settings for deposit
// invoices. Disabled means signed contracts are accepted without an
// invoice; the owner mail flags the missing reference.
type InvoicingConfig struct {
	Enabled  bool
	BaseURL  string
	APIToken string
	Timeout  int // seconds
}

// EmailConfig holds outgoing SMTP settings.
type EmailConfig struct {
	Enabled    bool
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   string
	FromEmail  string
	OwnerEmail string
}

// AdminConfig holds the credentials guarding the admin API.
type AdminConfig struct {
	JWTSecret string
	APIKey    string
}

// OnboardingConfig holds the public submission endpoint settings.
type OnboardingConfig struct {
	// AllowedOrigins are the origins permitted to submit contracts.
	// Empty means any origin is accepted (development only).
	AllowedOrigins []string
	// MaxBodyBytes caps the submission payload, signature data URL included.
	MaxBodyBytes   int64
	CompanyName    string
	CompanyAddress string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// TimeoutDuration returns the content store timeout as duration
func (c *ContentConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// CacheTTLDuration returns the snapshot cache TTL as duration
func (c *ContentConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// TimeoutDuration returns the accounting API timeout as duration
func (i *InvoicingConfig) TimeoutDuration() time.Duration {
	return time.Duration(i.Timeout) * time.Second
}

// Load loads configuration from file and environment variables
// This is a basic load that doesn't fetch secrets from vault
// Use LoadWithSecrets for full secret resolution
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read from config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Load admin credentials from environment if not in config
	if cfg.Admin.APIKey == "" {
		cfg.Admin.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Admin.JWTSecret == "" {
		cfg.Admin.JWTSecret = v.GetString("ADMIN_JWT_SECRET")
	}

	// Load Azure Key Vault name from environment if not in config
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	// Invoicing token from environment if not in config
	if cfg.Invoicing.APIToken == "" {
		cfg.Invoicing.APIToken = v.GetString("INVOICING_API_TOKEN")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source
// In development (or when secrets.source = "environment"), secrets come from env vars
// In staging/production (or when secrets.source = "vault"), secrets come from Azure Key Vault
//
// Key Vault is used when BOTH conditions are met:
// 1. USE_AZURE_KEY_VAULT environment variable is set to "true"
// 2. Environment is "staging" or "production"
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	// First load basic config
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
			zap.Bool("use_key_vault", useKeyVault),
		)
		return cfg, nil
	}

	// Validate Key Vault name is provided
	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Azure Key Vault enabled for secrets",
		zap.String("environment", cfg.App.Environment),
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	if !provider.IsVaultEnabled() {
		return nil, fmt.Errorf("vault provider not enabled despite USE_AZURE_KEY_VAULT=true")
	}

	logger.Info("Loading secrets from Azure Key Vault")

	// Database secrets from Key Vault
	// Host, User, Password come from vault; Port and Database name are environment-specific
	if host, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if defaultDB := os.Getenv("DEFAULT_DATABASE"); defaultDB != "" {
		cfg.Database.Name = defaultDB
	}
	if user, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "POSTGRES-MAIN-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}
	// SSL mode from env var (Azure PostgreSQL requires "require")
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	// Admin credentials
	if apiKey, err := provider.GetSecretOrEnv(ctx, "admin-api-key", "ADMIN_API_KEY"); err == nil && apiKey != "" {
		cfg.Admin.APIKey = apiKey
	}
	if jwtSecret, err := provider.GetSecretOrEnv(ctx, "admin-jwt-secret", "ADMIN_JWT_SECRET"); err == nil && jwtSecret != "" {
		cfg.Admin.JWTSecret = jwtSecret
	}

	// Storage connection string (for cloud storage)
	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}

	// Accounting API token
	if token, err := provider.GetSecretOrEnv(ctx, "invoicing-api-token", "INVOICING_API_TOKEN"); err == nil && token != "" {
		cfg.Invoicing.APIToken = token
	}

	// SMTP password
	if smtpPassword, err := provider.GetSecretOrEnv(ctx, "smtp-password", "EMAIL_PASSWORD"); err == nil && smtpPassword != "" {
		cfg.Email.Password = smtpPassword
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "emmotion API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "emmotion")
	v.SetDefault("database.user", "emmotion_user")
	v.SetDefault("database.password", "emmotion_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300) // 5 minutes

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "contracts")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	// CORS defaults - restrictive by default
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID", "Retry-After"})
	v.SetDefault("cors.allowCredentials", false)
	v.SetDefault("cors.maxAge", 300) // 5 minutes

	// Security header defaults - secure by default
	v.SetDefault("security.enableHSTS", false)    // Enable in production with HTTPS
	v.SetDefault("security.hstsMaxAge", 31536000) // 1 year
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	// Rate limiting defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.submitPerHour", 10)
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	// Content store defaults; empty baseURL serves built-in content
	v.SetDefault("content.baseURL", "")
	v.SetDefault("content.timeout", 10)
	v.SetDefault("content.cacheTTL", 900)               // 15 minutes
	v.SetDefault("content.refreshSchedule", "@every 15m")

	// Invoicing defaults
	v.SetDefault("invoicing.enabled", false)
	v.SetDefault("invoicing.baseURL", "https://api.bexio.com")
	v.SetDefault("invoicing.timeout", 20)

	// Email defaults
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.port", 587)
	v.SetDefault("email.fromName", "emmotion")
	v.SetDefault("email.fromEmail", "hallo@emmotion.ch")
	v.SetDefault("email.ownerEmail", "hallo@emmotion.ch")

	// Onboarding defaults
	v.SetDefault("onboarding.allowedOrigins", []string{})
	v.SetDefault("onboarding.maxBodyBytes", 1<<20) // 1 MiB incl. signature image
	v.SetDefault("onboarding.companyName", "emmotion GmbH")
	v.SetDefault("onboarding.companyAddress", "Beispielweg 1, 3000 Bern")
}
