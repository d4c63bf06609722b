package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/telar-erp/telar-admin/internal/identity"
)

type fakeSessions struct {
	current   *identity.Identity
	resolving bool
}

func (f *fakeSessions) Current() *identity.Identity { return f.current }
func (f *fakeSessions) Resolving() bool             { return f.resolving }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("page"))
	})
}

func TestGuardRendersNeutralPageWhileResolving(t *testing.T) {
	guard := Guard{
		Sessions: &fakeSessions{resolving: true},
		RenderWaiting: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("verificando"))
		},
	}

	// Even a request that will eventually be denied waits instead of
	// redirecting.
	res := httptest.NewRecorder()
	guard.RequirePermission("roles.delete")(okHandler()).
		ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/roles", nil))

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "verificando")
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	guard := Guard{Sessions: &fakeSessions{}}

	res := httptest.NewRecorder()
	guard.RequireAuth()(okHandler()).
		ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/login", res.Header().Get("Location"))
}

func TestGuardRedirectsUnderPrivilegedToUnauthorized(t *testing.T) {
	sessions := &fakeSessions{current: &identity.Identity{
		RoleName:    "editor",
		Permissions: identity.PermissionList{"roles.view"},
	}}
	guard := Guard{Sessions: sessions}

	res := httptest.NewRecorder()
	guard.RequirePermission("roles.create")(okHandler()).
		ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/roles/nuevo", nil))

	// Authenticated but not entitled: denied, not bounced to login.
	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/unauthorized", res.Header().Get("Location"))
}

func TestGuardAdmitsEntitledIdentity(t *testing.T) {
	sessions := &fakeSessions{current: &identity.Identity{
		RoleName:    "editor",
		Permissions: identity.PermissionList{"productos.view"},
	}}
	guard := Guard{Sessions: sessions, Observe: func(string) {}}

	res := httptest.NewRecorder()
	guard.RequirePermission("productos.view")(okHandler()).
		ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/productos", nil))

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "page", res.Body.String())
}

func TestGuardRequireRoleMatchesLiterally(t *testing.T) {
	sessions := &fakeSessions{current: &identity.Identity{RoleName: "admin"}}
	guard := Guard{Sessions: sessions}

	res := httptest.NewRecorder()
	guard.RequireRole("editor")(okHandler()).
		ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/x", nil))

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/unauthorized", res.Header().Get("Location"))
}

func TestNestedGuardsFirstFailingAncestorWins(t *testing.T) {
	sessions := &fakeSessions{current: &identity.Identity{
		RoleName: "editor",
		// Holds the child rule's permission but not the ancestor's.
		Permissions: identity.PermissionList{"usuarios.create"},
	}}
	guard := Guard{Sessions: sessions}

	var verdicts []string
	guard.Observe = func(v string) { verdicts = append(verdicts, v) }

	r := chi.NewRouter()
	r.Route("/usuarios", func(r chi.Router) {
		r.Use(guard.RequirePermission("usuarios.view"))
		r.Route("/nuevo", func(r chi.Router) {
			r.Use(guard.RequirePermission("usuarios.create"))
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})
	})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/usuarios/nuevo", nil))

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/unauthorized", res.Header().Get("Location"))
	// The ancestor short-circuits: the child rule is never evaluated.
	require.Equal(t, []string{VerdictForbidden}, verdicts)
}
