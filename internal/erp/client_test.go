package erp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telar-erp/telar-admin/internal/identity"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *stubSessions) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sessions := &stubSessions{}
	client, err := NewClient(srv.URL, sessions, nil, 5*time.Second)
	require.NoError(t, err)
	return client, sessions
}

func TestNewClientRejectsRelativeBaseURL(t *testing.T) {
	_, err := NewClient("/api", &stubSessions{}, nil, 0)
	require.Error(t, err)
}

func TestLoginExchangesCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "op@telar.local", in["email"])
		require.Equal(t, "hunter2", in["password"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-new"})
	}))

	token, err := client.Login(context.Background(), "op@telar.local", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "tok-new", token)
}

func TestLoginRejectionMapsToUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(Problem{Title: "Credenciales inválidas", Status: 401})
	}))

	_, err := client.Login(context.Background(), "op@telar.local", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Contains(t, err.Error(), "Credenciales inválidas")
}

func TestFetchProfileWithTokenDecodesBothPermissionShapes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me-permissions", r.URL.Path)
		require.Equal(t, "Bearer tok-fresh", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"id": 4,
			"email": "op@telar.local",
			"role": "editor",
			"permissions": ["productos.view", {"slug": "ordenes.view"}]
		}`))
	}))

	id, err := client.FetchProfileWithToken(context.Background(), "tok-fresh")
	require.NoError(t, err)
	require.Equal(t, identity.UserID("4"), id.UserID)
	require.Equal(t, identity.PermissionList{"productos.view", "ordenes.view"}, id.Permissions)
}

func TestFetchProfileUsesStoredCredential(t *testing.T) {
	client, sessions := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-stored", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id": 1, "role": "admin"}`))
	}))
	sessions.token = "tok-stored"

	id, err := client.FetchProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "admin", id.RoleName)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusConflict, ErrValidation},
		{http.StatusBadGateway, ErrUnavailable},
	}
	for _, tc := range cases {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		err := client.get(context.Background(), "/productos", nil)
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
	}
}

func TestUnreachableBackendMapsToUnavailable(t *testing.T) {
	client, err := NewClient("http://127.0.0.1:1", &stubSessions{}, nil, time.Second)
	require.NoError(t, err)

	_, err = client.ListProductos(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestObserverSeesUpstreamCalls(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	var endpoint string
	var status int
	client.SetObserver(func(ep string, st int, _ time.Duration) {
		endpoint = ep
		status = st
	})

	_, err := client.ListProductos(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/productos", endpoint)
	require.Equal(t, http.StatusOK, status)
}
