// Package view renders the console's HTML pages.
package view

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/telar-erp/telar-admin/internal/identity"
	"github.com/telar-erp/telar-admin/internal/rbac"
	"github.com/telar-erp/telar-admin/web"
)

// Engine renders HTML templates parsed from the embedded filesystem.
type Engine struct {
	templates *template.Template
}

// TemplateData carries the values shared across templates. Identity is the
// session snapshot at render time; gated markup queries it through Can and
// HasRole so templates never inspect role or permission fields directly.
type TemplateData struct {
	Title       string
	CurrentPath string
	Identity    *identity.Identity
	Data        any
}

// Can reports whether the rendering identity may perform the action. Markup
// wrapped in a failed Can check is omitted entirely, not disabled.
func (d TemplateData) Can(slug string) bool {
	return rbac.HasPermission(d.Identity, slug)
}

// HasRole reports whether the rendering identity holds any of the roles.
func (d TemplateData) HasRole(slugs ...string) bool {
	return rbac.HasRole(d.Identity, slugs...)
}

// LoggedIn reports whether an identity is present.
func (d TemplateData) LoggedIn() bool {
	return d.Identity != nil
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatQty": func(q float64) string {
			return fmt.Sprintf("%.2f", q)
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return e.templates.ExecuteTemplate(w, name, data)
}
