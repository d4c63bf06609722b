package erp

import (
	"context"
	"fmt"
)

// Usuario is a backend user account.
type Usuario struct {
	ID     int64    `json:"id"`
	Email  string   `json:"email"`
	Nombre string   `json:"nombre"`
	Rol    string   `json:"rol"`
	Roles  []string `json:"roles,omitempty"`
	Activo bool     `json:"activo"`
}

// UsuarioInput carries the writable user fields.
type UsuarioInput struct {
	Email    string `json:"email"`
	Nombre   string `json:"nombre"`
	Password string `json:"password,omitempty"`
	Activo   bool   `json:"activo"`
}

// Rol is a backend role with its granted permission slugs.
type Rol struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Nombre      string   `json:"nombre"`
	Descripcion string   `json:"descripcion,omitempty"`
	Permisos    []string `json:"permisos,omitempty"`
}

// RolInput carries the writable role fields.
type RolInput struct {
	Slug        string `json:"slug"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion,omitempty"`
}

// ListUsuarios fetches user accounts.
func (c *Client) ListUsuarios(ctx context.Context) ([]Usuario, error) {
	var out []Usuario
	if err := c.get(ctx, "/usuarios", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUsuario fetches one user account.
func (c *Client) GetUsuario(ctx context.Context, id int64) (*Usuario, error) {
	var out Usuario
	if err := c.get(ctx, fmt.Sprintf("/usuarios/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUsuario creates a user account.
func (c *Client) CreateUsuario(ctx context.Context, in UsuarioInput) (*Usuario, error) {
	var out Usuario
	if err := c.post(ctx, "/usuarios", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUsuario updates a user account.
func (c *Client) UpdateUsuario(ctx context.Context, id int64, in UsuarioInput) (*Usuario, error) {
	var out Usuario
	if err := c.put(ctx, fmt.Sprintf("/usuarios/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetUsuarioRoles replaces the role assignment of a user.
func (c *Client) SetUsuarioRoles(ctx context.Context, id int64, roles []string) error {
	return c.put(ctx, fmt.Sprintf("/usuarios/%d/roles", id), map[string][]string{"roles": roles}, nil)
}

// ListRoles fetches roles with their permissions.
func (c *Client) ListRoles(ctx context.Context) ([]Rol, error) {
	var out []Rol
	if err := c.get(ctx, "/roles", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRol fetches one role.
func (c *Client) GetRol(ctx context.Context, id int64) (*Rol, error) {
	var out Rol
	if err := c.get(ctx, fmt.Sprintf("/roles/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRol creates a role.
func (c *Client) CreateRol(ctx context.Context, in RolInput) (*Rol, error) {
	var out Rol
	if err := c.post(ctx, "/roles", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRol updates a role.
func (c *Client) UpdateRol(ctx context.Context, id int64, in RolInput) (*Rol, error) {
	var out Rol
	if err := c.put(ctx, fmt.Sprintf("/roles/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetRolPermisos replaces the permission grants of a role.
func (c *Client) SetRolPermisos(ctx context.Context, id int64, permisos []string) error {
	return c.put(ctx, fmt.Sprintf("/roles/%d/permisos", id), map[string][]string{"permisos": permisos}, nil)
}

// ListPermisos fetches the backend's permission catalog, used when editing
// role grants. The catalog is backend-defined; the console never assumes a
// closed set.
func (c *Client) ListPermisos(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/permisos", &out); err != nil {
		return nil, err
	}
	return out, nil
}
