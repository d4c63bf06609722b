package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/telar-erp/telar-admin/internal/identity"
)

// Store is the single source of truth for "who is logged in right now".
// Every mutation replaces the whole record; consumers never patch fields.
type Store struct {
	mu        sync.RWMutex
	current   *identity.Identity
	resolving bool
	gen       uint64

	vault  Vault
	logger *slog.Logger
}

// NewStore constructs a Store. The resolving flag starts true and stays true
// until the resolver finishes its first pass, so guards can tell "anonymous"
// apart from "not yet determined".
func NewStore(vault Vault, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{vault: vault, resolving: true, logger: logger}
}

// Current returns the identity snapshot, or nil when anonymous.
func (s *Store) Current() *identity.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Token returns the bearer credential of the current identity, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Resolving reports whether the first resolution pass is still in flight.
func (s *Store) Resolving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolving
}

// FinishResolving marks the first resolution pass as settled.
func (s *Store) FinishResolving() {
	s.mu.Lock()
	s.resolving = false
	s.mu.Unlock()
}

// Generation increments on every identity replacement or clear. The resolver
// uses it to discard a stale background result that lost a race against a
// newer interactive login.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// SetIdentity persists both durable records and then replaces the in-memory
// snapshot. When persistence fails nothing is replaced and the error is
// returned, so the caller treats the whole operation as failed.
func (s *Store) SetIdentity(ctx context.Context, id *identity.Identity) error {
	if id == nil {
		return errors.New("session: nil identity")
	}
	if err := s.vault.Save(ctx, id.Token, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = id
	s.gen++
	s.mu.Unlock()
	return nil
}

// Restore replaces only the in-memory snapshot. Used by the resolver when
// rehydrating a record the vault already holds.
func (s *Store) Restore(id *identity.Identity) {
	s.mu.Lock()
	s.current = id
	s.gen++
	s.mu.Unlock()
}

// Clear removes the in-memory identity and both durable records. It is
// idempotent; clearing an already-empty store is a no-op. The in-memory
// state is dropped even if the vault errors, so a broken vault can never
// keep a rejected session alive.
func (s *Store) Clear(ctx context.Context) {
	if err := s.vault.Clear(ctx); err != nil {
		s.logger.Warn("session: clear vault", slog.Any("error", err))
	}
	s.mu.Lock()
	s.current = nil
	s.gen++
	s.mu.Unlock()
}

// LoadPersisted reads the durable records without touching in-memory state.
func (s *Store) LoadPersisted(ctx context.Context) (Snapshot, error) {
	return s.vault.Load(ctx)
}
