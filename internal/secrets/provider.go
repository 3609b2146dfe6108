package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource selects where the provider resolves secret names.
type SecretSource string

const (
	// SourceEnvironment resolves secret names as environment variables.
	SourceEnvironment SecretSource = "environment"
	// SourceVault resolves secret names against Azure Key Vault.
	SourceVault SecretSource = "vault"
	// SourceAuto picks the vault for staging/production and the
	// environment everywhere else.
	SourceAuto SecretSource = "auto"
)

// ProviderConfig configures a Provider.
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Provider resolves named secrets from the environment or from Key Vault,
// depending on how the process is deployed. Handlers never see it; only
// config loading goes through here.
type Provider struct {
	source SecretSource
	vault  *KeyVault
	logger *zap.Logger
}

// NewProvider builds a provider for the given source. SourceAuto is
// resolved before the vault client is created, so a developer laptop
// never needs Azure credentials.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := resolveSource(cfg.Source, cfg.Environment)
	if source != cfg.Source {
		logger.Info("Auto-detected secret source",
			zap.String("source", string(source)),
			zap.String("environment", cfg.Environment),
		)
	}

	p := &Provider{source: source, logger: logger}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required for vault secret source")
		}
		vault, err := NewKeyVault(cfg.VaultName, cfg.CacheEnabled, cfg.CacheTTL, logger)
		if err != nil {
			return nil, fmt.Errorf("init key vault: %w", err)
		}
		p.vault = vault
	}

	logger.Info("Secrets provider ready", zap.String("source", string(source)))
	return p, nil
}

func resolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// GetSecret resolves name against the configured source. For the
// environment source the name is the variable name; for the vault it is
// the Key Vault secret name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("environment variable %q not set", name)
		}
		return value, nil
	case SourceVault:
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source %q", p.source)
	}
}

// GetSecretOrEnv resolves from the configured source but lets an
// explicitly set environment variable win. Used so a single secret can
// be overridden per deployment without touching the vault.
func (p *Provider) GetSecretOrEnv(ctx context.Context, name, envName string) (string, error) {
	if v := os.Getenv(envName); v != "" {
		p.logger.Debug("Environment override for secret", zap.String("env_name", envName))
		return v, nil
	}
	return p.GetSecret(ctx, name)
}

// IsVaultEnabled reports whether secrets are served from Key Vault.
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
