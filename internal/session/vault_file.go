package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/telar-erp/telar-admin/internal/identity"
)

const vaultFileName = "session.bin"

// FileVault stores the credential and identity as one sealed record on the
// operator workstation. Sealing the file keeps the bearer token unreadable
// at rest; the key is derived from the configured session secret.
type FileVault struct {
	dir string
	key []byte
}

type vaultRecord struct {
	Token    string          `json:"token"`
	Identity json.RawMessage `json:"identity,omitempty"`
}

// NewFileVault creates a vault rooted at dir. An empty dir falls back to
// <user config dir>/telar-admin.
func NewFileVault(dir, secret string) (*FileVault, error) {
	if secret == "" {
		return nil, errors.New("session: vault secret required")
	}
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("session: resolve config dir: %w", err)
		}
		dir = filepath.Join(base, "telar-admin")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("telar-admin/session-vault"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("session: derive vault key: %w", err)
	}
	return &FileVault{dir: dir, key: key}, nil
}

// Save seals both records into a single file, written atomically via rename.
func (v *FileVault) Save(ctx context.Context, token string, id *identity.Identity) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	profile, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("session: encode identity: %w", err)
	}
	plain, err := json.Marshal(vaultRecord{Token: token, Identity: profile})
	if err != nil {
		return fmt.Errorf("session: encode record: %w", err)
	}
	sealed, err := v.seal(plain)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(v.dir, 0o700); err != nil {
		return fmt.Errorf("session: create vault dir: %w", err)
	}
	tmp, err := os.CreateTemp(v.dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("session: write vault: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return fmt.Errorf("session: write vault: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: write vault: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("session: write vault: %w", err)
	}
	if err := os.Rename(tmp.Name(), v.path()); err != nil {
		return fmt.Errorf("session: write vault: %w", err)
	}
	return nil
}

// Load opens the sealed record. A missing file means no session; a record
// that fails to unseal or parse is discarded the same way, never surfaced
// as a crash.
func (v *FileVault) Load(ctx context.Context) (Snapshot, error) {
	sealed, err := os.ReadFile(v.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, ErrNoSession
		}
		return Snapshot{}, fmt.Errorf("session: read vault: %w", err)
	}
	plain, err := v.unseal(sealed)
	if err != nil {
		return Snapshot{}, ErrNoSession
	}
	var rec vaultRecord
	if err := json.Unmarshal(plain, &rec); err != nil || rec.Token == "" {
		return Snapshot{}, ErrNoSession
	}
	snap := Snapshot{Token: rec.Token}
	if len(rec.Identity) > 0 {
		var id identity.Identity
		if err := json.Unmarshal(rec.Identity, &id); err == nil {
			id.Token = rec.Token
			snap.Identity = &id
		}
	}
	return snap, nil
}

// Clear removes the sealed record. Clearing an absent record is a no-op.
func (v *FileVault) Clear(ctx context.Context) error {
	if err := os.Remove(v.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear vault: %w", err)
	}
	return nil
}

func (v *FileVault) path() string {
	return filepath.Join(v.dir, vaultFileName)
}

func (v *FileVault) seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return nil, fmt.Errorf("session: seal: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("session: seal: %w", err)
	}
	return append(nonce, aead.Seal(nil, nonce, plain, nil)...), nil
}

func (v *FileVault) unseal(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < chacha20poly1305.NonceSizeX {
		return nil, errors.New("session: sealed record too short")
	}
	nonce, box := sealed[:chacha20poly1305.NonceSizeX], sealed[chacha20poly1305.NonceSizeX:]
	return aead.Open(nil, nonce, box, nil)
}
