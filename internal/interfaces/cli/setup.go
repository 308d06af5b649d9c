package cli

import (
	"github.com/litewave/dnsproof/internal/acme"
	"github.com/litewave/dnsproof/internal/config"
	"github.com/litewave/dnsproof/internal/infrastructure/keystore"
	"github.com/litewave/dnsproof/internal/providers/dns"
)

func loadConfig() (*config.Config, error) {
	return config.Load(ConfigPath)
}

func buildProvider(cfg *config.Config) (dns.Provider, error) {
	credentials, err := cfg.ResolveCredentials()
	if err != nil {
		return nil, err
	}
	return dns.NewFactory().Create(&dns.ProviderConfig{
		Type:        cfg.DNS.Provider,
		Credentials: credentials,
		ZoneID:      cfg.DNS.ZoneID,
		Domain:      cfg.DNS.Domain,
	})
}

func buildACMEClient(cfg *config.Config) (*acme.Client, error) {
	key, err := keystore.NewStore(cfg.ACME.AccountKey).Load()
	if err != nil {
		return nil, err
	}
	return acme.NewClient(cfg.ACME.DirectoryURL, key)
}
