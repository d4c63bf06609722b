package app

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/telar-erp/telar-admin/internal/console"
	"github.com/telar-erp/telar-admin/internal/observability"
	"github.com/telar-erp/telar-admin/internal/rbac"
	"github.com/telar-erp/telar-admin/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Console *console.Handler
	Guard   rbac.Guard
	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with the console's guarded route
// table. Guards nest top-down: a subtree's rule runs before any child rule,
// and the first failing ancestor redirects without evaluating deeper.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()
	h := params.Console
	guard := params.Guard

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Login is public; the POST is rate-limited per client address. The
	// limiter is off in test mode so suites can hammer the form.
	r.Get("/login", h.ShowLogin)
	login := r.With()
	if !InTestMode() {
		login = r.With(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	login.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth())

		r.Get("/", h.Home)
		r.Get("/dashboard", h.Dashboard)
		r.Get("/unauthorized", h.Unauthorized)

		r.With(guard.RequirePermission(rbac.PermProductosView)).Get("/productos", h.Productos)
		r.With(guard.RequirePermission(rbac.PermMaterialesView)).Get("/materiales", h.Materiales)
		r.With(guard.RequirePermission(rbac.PermRecetasView)).Get("/recetas", h.Recetas)
		r.With(guard.RequirePermission(rbac.PermOrdenesView)).Get("/ordenes", h.Ordenes)
		r.With(guard.RequirePermission(rbac.PermMovimientosView)).Get("/movimientos", h.Movimientos)
		r.With(guard.RequirePermission(rbac.PermAlmacenesView)).Get("/almacenes", h.Almacenes)
		r.With(guard.RequirePermission(rbac.PermSizesView)).Get("/sizes", h.Sizes)
		r.With(guard.RequirePermission(rbac.PermColoresView)).Get("/colores", h.Colores)
		r.With(guard.RequirePermission(rbac.PermUnidadesView)).Get("/unidades", h.Unidades)

		r.Route("/inventario", func(r chi.Router) {
			r.Use(guard.RequirePermission(rbac.PermInventarioView))
			r.Get("/materia-prima", h.InventarioMateriaPrima)
			r.Get("/producto-terminado", h.InventarioProductoTerminado)
		})

		r.Route("/usuarios", func(r chi.Router) {
			r.Use(guard.RequirePermission(rbac.PermUsuariosView))
			r.Get("/", h.Usuarios)
			r.Route("/nuevo", func(r chi.Router) {
				r.Use(guard.RequirePermission(rbac.PermUsuariosCreate))
				r.Get("/", h.NuevoUsuario)
				r.Post("/", h.CrearUsuario)
			})
			r.Route("/editar/{id}", func(r chi.Router) {
				r.Use(guard.RequirePermission(rbac.PermUsuariosEdit))
				r.Get("/", h.EditarUsuario)
				r.Post("/", h.ActualizarUsuario)
			})
			r.Route("/seguridad/{id}", func(r chi.Router) {
				r.Use(guard.RequirePermission(rbac.PermUsuariosEdit))
				r.Get("/", h.SeguridadUsuario)
				r.Post("/", h.GuardarSeguridadUsuario)
			})
		})

		r.Route("/roles", func(r chi.Router) {
			r.Use(guard.RequirePermission(rbac.PermRolesView))
			r.Get("/", h.Roles)
			r.Route("/nuevo", func(r chi.Router) {
				r.Use(guard.RequirePermission(rbac.PermRolesCreate))
				r.Get("/", h.NuevoRol)
				r.Post("/", h.CrearRol)
			})
			r.Route("/editar/{id}", func(r chi.Router) {
				r.Use(guard.RequirePermission(rbac.PermRolesEdit))
				r.Get("/", h.EditarRol)
				r.Post("/", h.ActualizarRol)
			})
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
