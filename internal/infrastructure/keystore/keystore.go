// Package keystore persists the ACME account key. The key must be stable
// across runs: the TXT digest published for a challenge is derived from
// it, and a fresh key would orphan any pending authorizations.
package keystore

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	domainerr "github.com/litewave/dnsproof/internal/domain"
)

const keyPEMType = "EC PRIVATE KEY"

type Store struct {
	path  string
	flock *flock.Flock
}

func NewStore(path string) *Store {
	return &Store{
		path:  path,
		flock: flock.New(path + ".lock"),
	}
}

// Load returns the account key, generating and persisting a new P-256 key
// when none exists yet. The file lock serializes concurrent first runs so
// both end up with the same key. The parent directory must exist before
// the lock file can be created.
func (s *Store) Load() (*ecdsa.PrivateKey, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, domainerr.WrapOp("create key directory", err)
		}
	}

	if err := s.flock.Lock(); err != nil {
		return nil, domainerr.WrapOp("acquire key lock", err)
	}
	defer s.flock.Unlock()

	data, err := os.ReadFile(s.path)
	if err == nil {
		return parseKey(data)
	}
	if !os.IsNotExist(err) {
		return nil, domainerr.WrapOp("read account key", err)
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, domainerr.WrapOp("generate account key", err)
	}
	if err := s.write(key); err != nil {
		return nil, err
	}
	return key, nil
}

func (s *Store) write(key *ecdsa.PrivateKey) error {
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return domainerr.WrapOp("encode account key", err)
	}

	data := pem.EncodeToMemory(&pem.Block{Type: keyPEMType, Bytes: der})
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return domainerr.WrapOp("write account key", err)
	}
	return nil
}

func parseKey(data []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != keyPEMType {
		return nil, fmt.Errorf("%w: no %s block", domainerr.ErrAccountKeyInvalid, keyPEMType)
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerr.ErrAccountKeyInvalid, err)
	}
	return key, nil
}
