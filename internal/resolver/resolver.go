// Package resolver establishes a trustworthy identity at startup and on
// interactive login, reconciling the persisted session with the backend.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/telar-erp/telar-admin/internal/erp"
	"github.com/telar-erp/telar-admin/internal/identity"
	"github.com/telar-erp/telar-admin/internal/session"
)

// DefaultTimeout bounds the profile fetch so a hung backend cannot leave
// the console in the resolving state forever.
const DefaultTimeout = 10 * time.Second

// Resolver reconciles the session store with the backend's view of the
// operator identity.
type Resolver struct {
	store   *session.Store
	client  *erp.Client
	logger  *slog.Logger
	timeout time.Duration
	group   singleflight.Group
}

// New constructs a Resolver. A non-positive timeout falls back to
// DefaultTimeout.
func New(store *session.Store, client *erp.Client, logger *slog.Logger, timeout time.Duration) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{store: store, client: client, logger: logger, timeout: timeout}
}

// Bootstrap runs the startup pass: rehydrate the persisted session, verify
// it against the backend, and flip the resolving flag once the outcome is
// known. Guards must not make decisions before this returns.
//
// The locally cached identity is restored first so a valid session does not
// flash as anonymous while the profile fetch is in flight; the fetched
// profile then overwrites it, since the server is authoritative over any
// cached copy.
func (r *Resolver) Bootstrap(ctx context.Context) {
	defer r.store.FinishResolving()

	snap, err := r.store.LoadPersisted(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			r.logger.Warn("resolver: load persisted session", slog.Any("error", err))
		}
		return
	}
	if snap.Identity != nil {
		r.store.Restore(snap.Identity)
	}

	gen := r.store.Generation()
	id, err := r.refresh(ctx, snap.Token)
	if err != nil {
		// 401, network failure or timeout: a session the backend will
		// not vouch for is dropped rather than trusted.
		r.logger.Info("resolver: session not verifiable", slog.Any("error", err))
		r.store.Clear(ctx)
		return
	}
	if r.store.Generation() != gen {
		// A newer login completed while this fetch was in flight.
		return
	}
	if err := r.store.SetIdentity(ctx, id); err != nil {
		r.logger.Warn("resolver: persist refreshed identity", slog.Any("error", err))
		r.store.Restore(id)
	}
}

// Login exchanges credentials for a token, fetches the matching profile and
// stores both as one logical unit. On any failure the prior session state is
// left untouched and the backend's rejection is returned to the caller.
func (r *Resolver) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	token, err := r.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	id, err := r.client.FetchProfileWithToken(fetchCtx, token)
	if err != nil {
		return nil, err
	}
	id.Token = token
	if err := r.store.SetIdentity(ctx, id); err != nil {
		return nil, err
	}
	r.store.FinishResolving()
	return id, nil
}

// Logout destroys the session. Idempotent.
func (r *Resolver) Logout(ctx context.Context) {
	r.store.Clear(ctx)
}

// refresh fetches the authoritative profile for token, deduplicating
// concurrent callers onto one upstream request.
func (r *Resolver) refresh(ctx context.Context, token string) (*identity.Identity, error) {
	v, err, _ := r.group.Do("profile", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		id, err := r.client.FetchProfileWithToken(fetchCtx, token)
		if err != nil {
			return nil, err
		}
		id.Token = token
		return id, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*identity.Identity), nil
}
