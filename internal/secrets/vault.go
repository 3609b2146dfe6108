package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// KeyVault reads secrets from an Azure Key Vault. Values are cached for
// a short TTL so config reloads do not hammer the vault.
type KeyVault struct {
	client   *azsecrets.Client
	logger   *zap.Logger
	cacheTTL time.Duration
	caching  bool

	mu    sync.Mutex
	cache map[string]cachedSecret
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// NewKeyVault authenticates with DefaultAzureCredential, which covers
// service principal env vars, managed identity and the local az CLI.
func NewKeyVault(vaultName string, caching bool, cacheTTL time.Duration, logger *zap.Logger) (*KeyVault, error) {
	if vaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", vaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}

	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	logger.Info("Azure Key Vault client initialized",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache_enabled", caching),
	)

	return &KeyVault{
		client:   client,
		logger:   logger,
		cacheTTL: cacheTTL,
		caching:  caching,
		cache:    make(map[string]cachedSecret),
	}, nil
}

// GetSecret fetches the latest version of the named secret.
func (kv *KeyVault) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := kv.fromCache(name); ok {
		return value, nil
	}

	kv.logger.Debug("Fetching secret from Key Vault", zap.String("secret_name", name))

	resp, err := kv.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		kv.logger.Error("Key Vault lookup failed",
			zap.String("secret_name", name),
			zap.Error(err),
		)
		return "", fmt.Errorf("get secret %q: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", name)
	}

	kv.store(name, *resp.Value)
	return *resp.Value, nil
}

func (kv *KeyVault) fromCache(name string) (string, bool) {
	if !kv.caching {
		return "", false
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	entry, ok := kv.cache[name]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(kv.cache, name)
		return "", false
	}
	return entry.value, true
}

func (kv *KeyVault) store(name, value string) {
	if !kv.caching {
		return
	}
	kv.mu.Lock()
	kv.cache[name] = cachedSecret{value: value, expiresAt: time.Now().Add(kv.cacheTTL)}
	kv.mu.Unlock()
}

// ClearCache drops all cached secret values.
func (kv *KeyVault) ClearCache() {
	kv.mu.Lock()
	kv.cache = make(map[string]cachedSecret)
	kv.mu.Unlock()
}
