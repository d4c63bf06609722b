package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telar-erp/telar-admin/internal/erp"
	"github.com/telar-erp/telar-admin/internal/identity"
	"github.com/telar-erp/telar-admin/internal/observability"
	"github.com/telar-erp/telar-admin/internal/resolver"
	"github.com/telar-erp/telar-admin/internal/session"
	"github.com/telar-erp/telar-admin/internal/view"
)

type fixture struct {
	handler *Handler
	store   *session.Store
	backend atomic.Value
}

func (f *fixture) serve(h http.HandlerFunc) { f.backend.Store(h) }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{}
	f.serve(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no backend handler installed", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.backend.Load().(http.HandlerFunc)(w, r)
	}))
	t.Cleanup(srv.Close)

	vault, err := session.NewFileVault(t.TempDir(), "console-test-secret")
	require.NoError(t, err)
	f.store = session.NewStore(vault, nil)
	f.store.FinishResolving()

	client, err := erp.NewClient(srv.URL, f.store, nil, 5*time.Second)
	require.NoError(t, err)

	templates, err := view.NewEngine()
	require.NoError(t, err)

	res := resolver.New(f.store, client, nil, 2*time.Second)
	f.handler = NewHandler(nil, templates, f.store, client, res, observability.NewMetrics())
	return f
}

func postForm(handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res := httptest.NewRecorder()
	handler(res, req)
	return res
}

func TestShowLoginRendersForm(t *testing.T) {
	f := newFixture(t)

	res := httptest.NewRecorder()
	f.handler.ShowLogin(res, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), "Iniciar sesión")
	require.Contains(t, res.Body.String(), `action="/login"`)
}

func TestShowLoginRedirectsLiveSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetIdentity(context.Background(), &identity.Identity{
		Email: "op@telar.local", RoleName: "editor", Token: "tok-live",
	}))

	res := httptest.NewRecorder()
	f.handler.ShowLogin(res, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/dashboard", res.Header().Get("Location"))
}

func TestHandleLoginReportsFieldErrors(t *testing.T) {
	f := newFixture(t)
	f.serve(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid form must not reach the backend")
	})

	res := postForm(f.handler.HandleLogin, "/login", url.Values{
		"email":    {"not-an-email"},
		"password": {""},
	})

	require.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Ingresa un correo válido")
	require.Contains(t, body, "Ingresa tu contraseña")
}

func TestHandleLoginRejectionShowsGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.serve(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := postForm(f.handler.HandleLogin, "/login", url.Values{
		"email":    {"op@telar.local"},
		"password": {"wrong-password"},
	})

	require.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	require.Contains(t, body, "Correo o contraseña incorrectos")
	// The email is replayed; the password never is.
	require.Contains(t, body, "op@telar.local")
	require.NotContains(t, body, "wrong-password")
}

func TestHandleLoginBackendDownShowsAvailabilityMessage(t *testing.T) {
	f := newFixture(t)
	f.serve(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	res := postForm(f.handler.HandleLogin, "/login", url.Values{
		"email":    {"op@telar.local"},
		"password": {"hunter2"},
	})

	require.Equal(t, http.StatusBadRequest, res.Code)
	require.Contains(t, res.Body.String(), "No se pudo contactar el servicio ERP")
}

func TestHandleLoginSuccessRedirectsToDashboard(t *testing.T) {
	f := newFixture(t)
	f.serve(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-new"})
		case "/auth/me-permissions":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id": 1, "email": "op@telar.local", "role": "admin",
			})
		default:
			http.NotFound(w, r)
		}
	})

	res := postForm(f.handler.HandleLogin, "/login", url.Values{
		"email":    {"op@telar.local"},
		"password": {"hunter2"},
	})

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/dashboard", res.Header().Get("Location"))
	require.Equal(t, "tok-new", f.store.Token())
}

func TestHandleLogoutDestroysSession(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetIdentity(context.Background(), &identity.Identity{
		Email: "op@telar.local", RoleName: "editor", Token: "tok-live",
	}))

	res := postForm(f.handler.HandleLogout, "/logout", url.Values{})

	require.Equal(t, http.StatusSeeOther, res.Code)
	require.Equal(t, "/login", res.Header().Get("Location"))
	require.Nil(t, f.store.Current())
}
