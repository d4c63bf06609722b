package console

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/telar-erp/telar-admin/internal/erp"
	"github.com/telar-erp/telar-admin/internal/rbac"
)

type usuarioFormData struct {
	Action string
	IsEdit bool
	Error  string
	Form   erp.UsuarioInput
}

type roleChoice struct {
	Slug     string
	Nombre   string
	Assigned bool
}

type seguridadData struct {
	Error   string
	Usuario *erp.Usuario
	Roles   []roleChoice
}

type permChoice struct {
	Slug    string
	Granted bool
}

type rolFormData struct {
	Action       string
	IsEdit       bool
	Error        string
	Form         erp.RolInput
	ShowPermisos bool
	Permisos     []permChoice
}

// Usuarios lists user accounts.
func (h *Handler) Usuarios(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListUsuarios(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, u := range items {
		roles := u.Rol
		if len(u.Roles) > 0 {
			roles = strings.Join(u.Roles, ", ")
		}
		rows = append(rows, []string{u.Nombre, u.Email, roles, boolLabel(u.Activo)})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", "Usuarios", tableData{
		Columns:  []string{"Nombre", "Correo", "Roles", "Activo"},
		Rows:     rows,
		Empty:    "Sin usuarios registrados",
		NewPath:  "/usuarios/nuevo",
		NewPerm:  "usuarios.create",
		NewLabel: "Nuevo usuario",
	})
}

// NuevoUsuario renders the user creation form.
func (h *Handler) NuevoUsuario(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/usuario_form.html", "Nuevo usuario", usuarioFormData{
		Action: "/usuarios/nuevo",
		Form:   erp.UsuarioInput{Activo: true},
	})
}

// CrearUsuario submits the user creation form.
func (h *Handler) CrearUsuario(w http.ResponseWriter, r *http.Request) {
	form, err := parseUsuarioForm(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.erp.CreateUsuario(r.Context(), form); err != nil {
		h.renderUsuarioForm(w, r, "Nuevo usuario", usuarioFormData{
			Action: "/usuarios/nuevo", Form: form, Error: upstreamMessage(err),
		}, err)
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// EditarUsuario renders the user edit form.
func (h *Handler) EditarUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.erp.GetUsuario(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "pages/usuario_form.html", "Editar usuario", usuarioFormData{
		Action: r.URL.Path,
		IsEdit: true,
		Form:   erp.UsuarioInput{Email: u.Email, Nombre: u.Nombre, Activo: u.Activo},
	})
}

// ActualizarUsuario submits the user edit form.
func (h *Handler) ActualizarUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	form, err := parseUsuarioForm(r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.erp.UpdateUsuario(r.Context(), id, form); err != nil {
		h.renderUsuarioForm(w, r, "Editar usuario", usuarioFormData{
			Action: r.URL.Path, IsEdit: true, Form: form, Error: upstreamMessage(err),
		}, err)
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// SeguridadUsuario renders the role assignment screen for one user.
func (h *Handler) SeguridadUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.erp.GetUsuario(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	roles, err := h.erp.ListRoles(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, "pages/usuario_seguridad.html", "Seguridad", seguridadData{
		Usuario: u,
		Roles:   roleChoices(roles, u.Roles),
	})
}

// GuardarSeguridadUsuario submits the role assignment.
func (h *Handler) GuardarSeguridadUsuario(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := h.erp.SetUsuarioRoles(r.Context(), id, r.PostForm["roles"]); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/usuarios", http.StatusSeeOther)
}

// Roles lists roles with their permission counts.
func (h *Handler) Roles(w http.ResponseWriter, r *http.Request) {
	items, err := h.erp.ListRoles(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows := make([][]string, 0, len(items))
	for _, rol := range items {
		rows = append(rows, []string{rol.Nombre, rol.Slug, strconv.Itoa(len(rol.Permisos))})
	}
	h.sortRows(rows)
	h.render(w, r, "pages/table.html", "Roles", tableData{
		Columns:  []string{"Nombre", "Slug", "Permisos"},
		Rows:     rows,
		Empty:    "Sin roles registrados",
		NewPath:  "/roles/nuevo",
		NewPerm:  "roles.create",
		NewLabel: "Nuevo rol",
	})
}

// NuevoRol renders the role creation form.
func (h *Handler) NuevoRol(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/rol_form.html", "Nuevo rol", rolFormData{Action: "/roles/nuevo"})
}

// CrearRol submits the role creation form.
func (h *Handler) CrearRol(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := erp.RolInput{
		Slug:        strings.TrimSpace(r.PostFormValue("slug")),
		Nombre:      strings.TrimSpace(r.PostFormValue("nombre")),
		Descripcion: strings.TrimSpace(r.PostFormValue("descripcion")),
	}
	if _, err := h.erp.CreateRol(r.Context(), form); err != nil {
		h.render(w, r, "pages/rol_form.html", "Nuevo rol", rolFormData{
			Action: "/roles/nuevo", Form: form, Error: upstreamMessage(err),
		})
		return
	}
	http.Redirect(w, r, "/roles", http.StatusSeeOther)
}

// EditarRol renders the role edit form. The permission checklist only shows
// for operators entitled to reassign permissions; for everyone else the
// markup is absent entirely.
func (h *Handler) EditarRol(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rol, err := h.erp.GetRol(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data := rolFormData{
		Action: r.URL.Path,
		IsEdit: true,
		Form:   erp.RolInput{Slug: rol.Slug, Nombre: rol.Nombre, Descripcion: rol.Descripcion},
	}
	if h.canAssignPermissions() {
		catalog, err := h.erp.ListPermisos(r.Context())
		if err != nil {
			h.fail(w, r, err)
			return
		}
		data.ShowPermisos = true
		data.Permisos = permChoices(catalog, rol.Permisos)
	}
	h.render(w, r, "pages/rol_form.html", "Editar rol", data)
}

// ActualizarRol submits the role edit form, including permission grants
// when the operator may assign them.
func (h *Handler) ActualizarRol(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := erp.RolInput{
		Slug:        strings.TrimSpace(r.PostFormValue("slug")),
		Nombre:      strings.TrimSpace(r.PostFormValue("nombre")),
		Descripcion: strings.TrimSpace(r.PostFormValue("descripcion")),
	}
	if _, err := h.erp.UpdateRol(r.Context(), id, form); err != nil {
		h.render(w, r, "pages/rol_form.html", "Editar rol", rolFormData{
			Action: r.URL.Path, IsEdit: true, Form: form, Error: upstreamMessage(err),
		})
		return
	}
	if h.canAssignPermissions() {
		if err := h.erp.SetRolPermisos(r.Context(), id, r.PostForm["permisos"]); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/roles", http.StatusSeeOther)
}

func (h *Handler) renderUsuarioForm(w http.ResponseWriter, r *http.Request, title string, data usuarioFormData, err error) {
	if isRedirectworthy(err) {
		h.fail(w, r, err)
		return
	}
	data.Form.Password = ""
	w.WriteHeader(http.StatusBadRequest)
	h.render(w, r, "pages/usuario_form.html", title, data)
}

func (h *Handler) canAssignPermissions() bool {
	return rbac.HasPermission(h.sessions.Current(), rbac.PermRolesAssignPerm)
}

func parseUsuarioForm(r *http.Request) (erp.UsuarioInput, error) {
	if err := r.ParseForm(); err != nil {
		return erp.UsuarioInput{}, err
	}
	return erp.UsuarioInput{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Nombre:   strings.TrimSpace(r.PostFormValue("nombre")),
		Password: r.PostFormValue("password"),
		Activo:   r.PostFormValue("activo") != "",
	}, nil
}

func roleChoices(all []erp.Rol, assigned []string) []roleChoice {
	set := make(map[string]struct{}, len(assigned))
	for _, slug := range assigned {
		set[slug] = struct{}{}
	}
	choices := make([]roleChoice, 0, len(all))
	for _, rol := range all {
		_, ok := set[rol.Slug]
		choices = append(choices, roleChoice{Slug: rol.Slug, Nombre: rol.Nombre, Assigned: ok})
	}
	return choices
}

func permChoices(catalog, granted []string) []permChoice {
	set := make(map[string]struct{}, len(granted))
	for _, slug := range granted {
		set[slug] = struct{}{}
	}
	choices := make([]permChoice, 0, len(catalog))
	for _, slug := range catalog {
		_, ok := set[slug]
		choices = append(choices, permChoice{Slug: slug, Granted: ok})
	}
	return choices
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
