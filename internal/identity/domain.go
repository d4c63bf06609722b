// Package identity holds the authenticated-actor model shared by the
// session store and the authorization checks.
package identity

import (
	"encoding/json"
	"strings"
)

// SuperRole is the distinguished role granted every permission.
const SuperRole = "admin"

// Role describes a role attached to the identity.
type Role struct {
	Slug string `json:"slug"`
	Name string `json:"name,omitempty"`
}

// UserID is an opaque identifier. Some backend payloads carry it as a JSON
// number, others as a string; both decode to the string form.
type UserID string

// UnmarshalJSON accepts 42 as well as "42".
func (u *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*u = UserID(n.String())
	return nil
}

// Identity represents the authenticated operator as reported by the backend.
type Identity struct {
	UserID      UserID         `json:"id"`
	Email       string         `json:"email"`
	RoleName    string         `json:"role"`
	Roles       RoleList       `json:"roles,omitempty"`
	Permissions PermissionList `json:"permissions"`

	// Token is the opaque bearer credential. It is persisted separately
	// from the profile and never sent back to the backend in a body.
	Token string `json:"-"`
}

// IsSuperRole reports whether the identity bypasses permission checks.
// The role name comparison is case-insensitive; role slugs are compared
// exactly the way the backend issues them.
func (id *Identity) IsSuperRole() bool {
	if id == nil {
		return false
	}
	if strings.EqualFold(id.RoleName, SuperRole) {
		return true
	}
	for _, r := range id.Roles {
		if r.Slug == SuperRole {
			return true
		}
	}
	return false
}

// HoldsPermission reports whether the permission set contains slug exactly.
// It does not apply the super-role bypass; callers that want the full
// authorization decision go through rbac.HasPermission.
func (id *Identity) HoldsPermission(slug string) bool {
	if id == nil {
		return false
	}
	for _, p := range id.Permissions {
		if p == slug {
			return true
		}
	}
	return false
}

// PermissionList normalizes the backend's two permission encodings
// (bare string slug, or an object carrying a slug field) into plain slugs
// at the decode boundary, so nothing downstream handles both shapes.
type PermissionList []string

// UnmarshalJSON accepts entries of the form "productos.view" as well as
// {"slug": "productos.view"}. Entries with no usable slug are dropped.
func (pl *PermissionList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		if slug, ok := decodeSlug(entry); ok {
			out = append(out, slug)
		}
	}
	*pl = out
	return nil
}

// RoleList accepts role entries encoded either as bare slugs or as objects.
type RoleList []Role

// UnmarshalJSON accepts "supervisor" as well as {"slug": "supervisor"}.
func (rl *RoleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]Role, 0, len(raw))
	for _, entry := range raw {
		var role Role
		if err := json.Unmarshal(entry, &role); err == nil && role.Slug != "" {
			out = append(out, role)
			continue
		}
		if slug, ok := decodeSlug(entry); ok {
			out = append(out, Role{Slug: slug})
		}
	}
	*rl = out
	return nil
}

func decodeSlug(entry json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(entry, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	var obj struct {
		Slug string `json:"slug"`
	}
	if err := json.Unmarshal(entry, &obj); err == nil {
		obj.Slug = strings.TrimSpace(obj.Slug)
		return obj.Slug, obj.Slug != ""
	}
	return "", false
}
