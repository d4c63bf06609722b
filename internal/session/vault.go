// Package session keeps the current operator identity and its durable copy.
package session

import (
	"context"
	"errors"

	"github.com/telar-erp/telar-admin/internal/identity"
)

// ErrNoSession indicates that no credential is persisted.
var ErrNoSession = errors.New("session: no persisted session")

// Snapshot is what a vault yields on rehydration. Token is always set when
// Load succeeds; Identity may be nil when the profile record did not parse,
// in which case the resolver re-fetches it from the backend.
type Snapshot struct {
	Token    string
	Identity *identity.Identity
}

// Vault persists the bearer credential and the serialized identity. The two
// records are written together and cleared together; implementations must
// not leave one without the other.
type Vault interface {
	Save(ctx context.Context, token string, id *identity.Identity) error
	Load(ctx context.Context) (Snapshot, error)
	Clear(ctx context.Context) error
}
