// Package config loads the tool's YAML configuration. Credentials may be
// written inline or referenced from the secrets list so config files can
// be committed without the secret material.
package config

import (
	"fmt"
	"os"

	domainerr "github.com/litewave/dnsproof/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ACME    ACME     `yaml:"acme"`
	DNS     DNS      `yaml:"dns"`
	Secrets []Secret `yaml:"secrets"`
}

type ACME struct {
	DirectoryURL string `yaml:"directory_url"`
	Email        string `yaml:"email"`
	AccountKey   string `yaml:"account_key"`
}

type DNS struct {
	Provider    string               `yaml:"provider"`
	ZoneID      string               `yaml:"zone_id"`
	Domain      string               `yaml:"domain"`
	Credentials map[string]SecretRef `yaml:"credentials"`
}

type Secret struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerr.ErrConfigReadFailed, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domainerr.ErrConfigParseFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ACME.DirectoryURL == "" {
		return domainerr.RequiredField("acme.directory_url")
	}
	if c.ACME.AccountKey == "" {
		return domainerr.RequiredField("acme.account_key")
	}
	if c.DNS.Provider == "" {
		return domainerr.RequiredField("dns.provider")
	}
	if len(c.DNS.Credentials) == 0 {
		return domainerr.RequiredField("dns.credentials")
	}
	for key, ref := range c.DNS.Credentials {
		if err := ref.Validate(); err != nil {
			return domainerr.WrapEntity("dns.credentials", key, err)
		}
	}
	return nil
}

// ResolveCredentials returns the DNS credentials with secret references
// replaced by their values.
func (c *Config) ResolveCredentials() (map[string]string, error) {
	secrets := make(map[string]string, len(c.Secrets))
	for _, s := range c.Secrets {
		secrets[s.Name] = s.Value
	}

	resolved := make(map[string]string, len(c.DNS.Credentials))
	for key, ref := range c.DNS.Credentials {
		val, err := ref.Resolve(secrets)
		if err != nil {
			return nil, domainerr.WrapEntity("dns.credentials", key, err)
		}
		resolved[key] = val
	}
	return resolved, nil
}
