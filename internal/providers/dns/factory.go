package dns

import (
	"fmt"

	domainerr "github.com/litewave/dnsproof/internal/domain"
)

// ProviderConfig carries resolved (plain-text) credentials plus the
// backend-specific zone handle: ZoneID for Cloudflare, Domain for the
// domain-keyed backends.
type ProviderConfig struct {
	Type        string
	Credentials map[string]string
	ZoneID      string
	Domain      string
}

type CreatorFunc func(cfg *ProviderConfig) (Provider, error)

type Factory struct {
	creators map[string]CreatorFunc
}

func NewFactory() *Factory {
	return &Factory{
		creators: map[string]CreatorFunc{
			"cloudflare": createCloudflare,
			"aliyun":     createAliyun,
			"tencent":    createTencent,
		},
	}
}

func (f *Factory) Create(cfg *ProviderConfig) (Provider, error) {
	creator, ok := f.creators[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domainerr.ErrUnsupportedProvider, cfg.Type)
	}
	return creator(cfg)
}

func (f *Factory) Register(providerType string, creator CreatorFunc) {
	f.creators[providerType] = creator
}

func credential(cfg *ProviderConfig, key string) (string, error) {
	val, ok := cfg.Credentials[key]
	if !ok || val == "" {
		return "", fmt.Errorf("%w: %s", domainerr.ErrMissingCredential, key)
	}
	return val, nil
}

func createCloudflare(cfg *ProviderConfig) (Provider, error) {
	apiToken, err := credential(cfg, "api_token")
	if err != nil {
		return nil, err
	}
	return NewCloudflareProvider(apiToken, cfg.ZoneID)
}

func createAliyun(cfg *ProviderConfig) (Provider, error) {
	accessKeyID, err := credential(cfg, "access_key_id")
	if err != nil {
		return nil, err
	}
	accessKeySecret, err := credential(cfg, "access_key_secret")
	if err != nil {
		return nil, err
	}
	return NewAliyunProvider(accessKeyID, accessKeySecret, cfg.Domain)
}

func createTencent(cfg *ProviderConfig) (Provider, error) {
	secretID, err := credential(cfg, "secret_id")
	if err != nil {
		return nil, err
	}
	secretKey, err := credential(cfg, "secret_key")
	if err != nil {
		return nil, err
	}
	return NewTencentProvider(secretID, secretKey, cfg.Domain)
}
