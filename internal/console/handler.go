// Package console wires the operator-facing screens. Every screen is thin:
// fetch from the ERP backend, shape rows, render. Business rules stay
// server-side.
package console

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/telar-erp/telar-admin/internal/erp"
	"github.com/telar-erp/telar-admin/internal/observability"
	"github.com/telar-erp/telar-admin/internal/resolver"
	"github.com/telar-erp/telar-admin/internal/session"
	"github.com/telar-erp/telar-admin/internal/view"
)

// Handler renders the console screens.
type Handler struct {
	logger    *slog.Logger
	templates *view.Engine
	sessions  *session.Store
	erp       *erp.Client
	resolver  *resolver.Resolver
	metrics   *observability.Metrics
	validate  *validator.Validate
	collator  *collate.Collator
}

// NewHandler constructs the console handler.
func NewHandler(logger *slog.Logger, templates *view.Engine, sessions *session.Store, client *erp.Client, res *resolver.Resolver, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		templates: templates,
		sessions:  sessions,
		erp:       client,
		resolver:  res,
		metrics:   metrics,
		validate:  validator.New(),
		collator:  collate.New(language.Spanish, collate.IgnoreCase),
	}
}

// tableData feeds the generic listing template.
type tableData struct {
	Columns []string
	Rows    [][]string
	Empty   string

	NewPath  string
	NewPerm  string
	NewLabel string
}

// Home redirects the root path to the dashboard; the guard takes it from
// there.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Dashboard renders the landing screen for an authenticated operator.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/dashboard.html", "Panel", nil)
}

// Unauthorized renders the access-denied screen. The operator is
// authenticated here, just not entitled to whatever sent them over.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/unauthorized.html", "Acceso denegado", nil)
}

// RenderWaiting draws the neutral page used by the guard while the first
// session resolution is still in flight.
func (h *Handler) RenderWaiting(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/loading.html", "Verificando sesión", nil)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	viewData := view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Identity:    h.sessions.Current(),
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render page", slog.String("page", page), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail maps an upstream error to the right console response. A 401 has
// already cleared the session store by the time it lands here, so the next
// render redirects to login on its own.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, erp.ErrUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, erp.ErrForbidden):
		http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
	default:
		h.logger.Error("upstream call failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		http.Error(w, "el servicio ERP no está disponible", http.StatusBadGateway)
	}
}

// sortRows orders listing rows by their first column using Spanish
// collation, so names with accents and eñes land where an operator expects.
func (h *Handler) sortRows(rows [][]string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return h.collator.CompareString(rows[i][0], rows[j][0]) < 0
	})
}

// upstreamMessage turns a backend validation rejection into the text shown
// above the form. Redirect-worthy errors never reach it.
func upstreamMessage(err error) string {
	if errors.Is(err, erp.ErrValidation) {
		msg := err.Error()
		if idx := strings.Index(msg, ": "); idx >= 0 {
			return msg[idx+2:]
		}
		return msg
	}
	return "No se pudo guardar, intenta de nuevo"
}

// isRedirectworthy reports whether the error must leave the current screen
// instead of re-rendering the form.
func isRedirectworthy(err error) bool {
	return errors.Is(err, erp.ErrUnauthorized) || errors.Is(err, erp.ErrForbidden)
}

func formatQty(q float64) string {
	return fmt.Sprintf("%.2f", q)
}

func boolLabel(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
