package rbac

import (
	"log/slog"
	"net/http"

	"github.com/telar-erp/telar-admin/internal/identity"
)

// Verdict labels for guard observers.
const (
	VerdictResolving       = "resolving"
	VerdictUnauthenticated = "unauthenticated"
	VerdictForbidden       = "forbidden"
	VerdictAuthorized      = "authorized"
)

// Sessions is the slice of the session store the guard reads.
type Sessions interface {
	Current() *identity.Identity
	Resolving() bool
}

// Guard gates route subtrees on the session state. Guards nest: a nested
// route must pass every ancestor's rule, and the first failing ancestor
// short-circuits the rest.
//
// While the first resolution pass is in flight the guard renders a neutral
// waiting page instead of redirecting, so a valid session is never bounced
// to the login screen mid-verification.
type Guard struct {
	Sessions Sessions
	Logger   *slog.Logger

	// RenderWaiting draws the neutral page shown in the resolving state.
	// Nil falls back to a plain 200.
	RenderWaiting func(w http.ResponseWriter, r *http.Request)

	// Observe receives the verdict of every decision, typically backed by
	// prometheus. Optional.
	Observe func(verdict string)

	LoginPath  string
	DeniedPath string
}

// RequireAuth admits any authenticated identity.
func (g Guard) RequireAuth() func(http.Handler) http.Handler {
	return g.require(nil)
}

// RequirePermission admits identities the oracle approves for slug.
func (g Guard) RequirePermission(slug string) func(http.Handler) http.Handler {
	return g.require(func(id *identity.Identity) bool {
		return HasPermission(id, slug)
	})
}

// RequireRole admits identities holding any of the given role slugs.
func (g Guard) RequireRole(slugs ...string) func(http.Handler) http.Handler {
	return g.require(func(id *identity.Identity) bool {
		return HasRole(id, slugs...)
	})
}

func (g Guard) require(rule func(*identity.Identity) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Sessions.Resolving() {
				g.observe(VerdictResolving)
				g.renderWaiting(w, r)
				return
			}
			id := g.Sessions.Current()
			if id == nil {
				g.observe(VerdictUnauthenticated)
				http.Redirect(w, r, g.loginPath(), http.StatusSeeOther)
				return
			}
			if rule != nil && !rule(id) {
				// Routine control flow, not an error: the operator is
				// authenticated, just not entitled.
				g.observe(VerdictForbidden)
				http.Redirect(w, r, g.deniedPath(), http.StatusSeeOther)
				return
			}
			g.observe(VerdictAuthorized)
			next.ServeHTTP(w, r)
		})
	}
}

func (g Guard) renderWaiting(w http.ResponseWriter, r *http.Request) {
	if g.RenderWaiting != nil {
		g.RenderWaiting(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (g Guard) observe(verdict string) {
	if g.Observe != nil {
		g.Observe(verdict)
	}
}

func (g Guard) loginPath() string {
	if g.LoginPath != "" {
		return g.LoginPath
	}
	return "/login"
}

func (g Guard) deniedPath() string {
	if g.DeniedPath != "" {
		return g.DeniedPath
	}
	return "/unauthorized"
}
