package keystore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainerr "github.com/litewave/dnsproof/internal/domain"
)

func TestStore_LoadGeneratesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "account.key")
	store := NewStore(path)

	first, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("key file mode = %o, want 600", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat key directory: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Errorf("key directory mode = %o, want 700", perm)
	}

	second, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if !first.Equal(second) {
		t.Error("reloaded key differs from the generated one")
	}
}

func TestStore_LoadRejectsCorruptKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "account.key")
	if err := os.WriteFile(path, []byte("not a pem block"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := NewStore(path).Load()
	if !errors.Is(err, domainerr.ErrAccountKeyInvalid) {
		t.Errorf("Load() error = %v, want ErrAccountKeyInvalid", err)
	}
}
