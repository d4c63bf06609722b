package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telar-erp/telar-admin/internal/identity"
)

func newTestFileVault(t *testing.T) *FileVault {
	t.Helper()
	vault, err := NewFileVault(t.TempDir(), "unit-test-secret")
	require.NoError(t, err)
	return vault
}

func TestFileVaultRequiresSecret(t *testing.T) {
	_, err := NewFileVault(t.TempDir(), "")
	require.Error(t, err)
}

func TestFileVaultRoundTrip(t *testing.T) {
	vault := newTestFileVault(t)
	ctx := context.Background()

	id := &identity.Identity{
		UserID:      "9",
		Email:       "op@telar.local",
		RoleName:    "supervisor",
		Permissions: identity.PermissionList{"ordenes.view", "recetas.view"},
	}
	require.NoError(t, vault.Save(ctx, "tok-abc", id))

	snap, err := vault.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "tok-abc", snap.Token)
	require.NotNil(t, snap.Identity)
	require.Equal(t, "supervisor", snap.Identity.RoleName)
	require.Equal(t, identity.PermissionList{"ordenes.view", "recetas.view"}, snap.Identity.Permissions)
	// The credential rides along on the rehydrated identity.
	require.Equal(t, "tok-abc", snap.Identity.Token)
}

func TestFileVaultRejectsEmptyToken(t *testing.T) {
	vault := newTestFileVault(t)
	require.Error(t, vault.Save(context.Background(), "", &identity.Identity{}))
}

func TestFileVaultMissingFileMeansNoSession(t *testing.T) {
	vault := newTestFileVault(t)
	_, err := vault.Load(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFileVaultTokenNeverStoredInClear(t *testing.T) {
	vault := newTestFileVault(t)
	require.NoError(t, vault.Save(context.Background(), "tok-secret", &identity.Identity{Email: "op@telar.local"}))

	raw, err := os.ReadFile(filepath.Join(vault.dir, vaultFileName))
	require.NoError(t, err)
	require.NotContains(t, string(raw), "tok-secret")
	require.NotContains(t, string(raw), "op@telar.local")
}

func TestFileVaultCorruptRecordTreatedAsAbsent(t *testing.T) {
	vault := newTestFileVault(t)
	ctx := context.Background()
	require.NoError(t, vault.Save(ctx, "tok-abc", &identity.Identity{}))

	path := filepath.Join(vault.dir, vaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("not a sealed record"), 0o600))

	_, err := vault.Load(ctx)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFileVaultWrongSecretCannotOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileVault(dir, "secret-one")
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "tok-abc", &identity.Identity{}))

	second, err := NewFileVault(dir, "secret-two")
	require.NoError(t, err)
	_, err = second.Load(ctx)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFileVaultClearIsIdempotent(t *testing.T) {
	vault := newTestFileVault(t)
	ctx := context.Background()
	require.NoError(t, vault.Save(ctx, "tok-abc", &identity.Identity{}))

	require.NoError(t, vault.Clear(ctx))
	_, err := os.Stat(filepath.Join(vault.dir, vaultFileName))
	require.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, vault.Clear(ctx))
}
