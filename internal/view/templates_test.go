package view

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/telar-erp/telar-admin/internal/identity"
)

func renderDashboard(t *testing.T, id *identity.Identity) string {
	t.Helper()
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	require.NoError(t, engine.Render(res, "pages/dashboard.html", TemplateData{
		Title:       "Panel",
		CurrentPath: "/dashboard",
		Identity:    id,
	}))
	return res.Body.String()
}

func TestNavOmitsLinksWithoutPermission(t *testing.T) {
	body := renderDashboard(t, &identity.Identity{
		Email:       "op@telar.local",
		RoleName:    "consulta",
		Permissions: identity.PermissionList{"productos.view"},
	})

	require.Contains(t, body, `href="/productos"`)
	// Ungranted sections are absent from the markup, not merely disabled.
	require.NotContains(t, body, `href="/usuarios"`)
	require.NotContains(t, body, `href="/roles"`)
	require.NotContains(t, body, `href="/ordenes"`)
}

func TestNavShowsEverythingForSuperRole(t *testing.T) {
	body := renderDashboard(t, &identity.Identity{
		Email:    "admin@telar.local",
		RoleName: "admin",
	})

	for _, href := range []string{"/productos", "/materiales", "/recetas", "/ordenes", "/usuarios", "/roles"} {
		require.Contains(t, body, `href="`+href+`"`)
	}
}

func TestNavHiddenWhenAnonymous(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	require.NoError(t, engine.Render(res, "pages/login.html", TemplateData{Title: "Iniciar sesión"}))

	body := res.Body.String()
	require.NotContains(t, body, `href="/productos"`)
	require.NotContains(t, body, `action="/logout"`)
}

func TestRenderSetsContentType(t *testing.T) {
	engine, err := NewEngine()
	require.NoError(t, err)

	res := httptest.NewRecorder()
	require.NoError(t, engine.Render(res, "pages/login.html", TemplateData{Title: "Iniciar sesión"}))
	require.Equal(t, "text/html; charset=utf-8", res.Header().Get("Content-Type"))
}
