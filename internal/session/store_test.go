package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telar-erp/telar-admin/internal/identity"
)

type fakeVault struct {
	saved    *Snapshot
	saveErr  error
	clearErr error
	clears   int
}

func (f *fakeVault) Save(ctx context.Context, token string, id *identity.Identity) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = &Snapshot{Token: token, Identity: id}
	return nil
}

func (f *fakeVault) Load(ctx context.Context) (Snapshot, error) {
	if f.saved == nil {
		return Snapshot{}, ErrNoSession
	}
	return *f.saved, nil
}

func (f *fakeVault) Clear(ctx context.Context) error {
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.saved = nil
	return nil
}

func operator() *identity.Identity {
	return &identity.Identity{
		UserID:      "1",
		Email:       "op@telar.local",
		RoleName:    "editor",
		Permissions: identity.PermissionList{"productos.view"},
		Token:       "tok-1",
	}
}

func TestStoreStartsResolvingAndAnonymous(t *testing.T) {
	store := NewStore(&fakeVault{}, nil)
	require.True(t, store.Resolving())
	require.Nil(t, store.Current())
	require.Empty(t, store.Token())

	store.FinishResolving()
	require.False(t, store.Resolving())
}

func TestSetIdentityPersistsBeforeReplacing(t *testing.T) {
	vault := &fakeVault{}
	store := NewStore(vault, nil)

	require.NoError(t, store.SetIdentity(context.Background(), operator()))
	require.NotNil(t, vault.saved)
	require.Equal(t, "tok-1", vault.saved.Token)
	require.Equal(t, "tok-1", store.Token())
	require.Equal(t, "op@telar.local", store.Current().Email)
}

func TestSetIdentityFailureLeavesStateUntouched(t *testing.T) {
	vault := &fakeVault{saveErr: errors.New("disk full")}
	store := NewStore(vault, nil)
	before := store.Generation()

	err := store.SetIdentity(context.Background(), operator())
	require.Error(t, err)
	require.Nil(t, store.Current())
	require.Equal(t, before, store.Generation())
}

func TestClearDropsMemoryEvenWhenVaultFails(t *testing.T) {
	vault := &fakeVault{}
	store := NewStore(vault, nil)
	require.NoError(t, store.SetIdentity(context.Background(), operator()))

	vault.clearErr = errors.New("redis down")
	store.Clear(context.Background())

	require.Nil(t, store.Current())
	require.Empty(t, store.Token())
}

func TestClearIsIdempotent(t *testing.T) {
	vault := &fakeVault{}
	store := NewStore(vault, nil)

	store.Clear(context.Background())
	store.Clear(context.Background())

	require.Nil(t, store.Current())
	require.Equal(t, 2, vault.clears)
}

func TestGenerationAdvancesOnEveryReplacement(t *testing.T) {
	store := NewStore(&fakeVault{}, nil)
	g0 := store.Generation()

	require.NoError(t, store.SetIdentity(context.Background(), operator()))
	g1 := store.Generation()
	require.Greater(t, g1, g0)

	store.Restore(operator())
	g2 := store.Generation()
	require.Greater(t, g2, g1)

	store.Clear(context.Background())
	require.Greater(t, store.Generation(), g2)
}
