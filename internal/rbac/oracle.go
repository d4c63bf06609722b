// Package rbac answers "may the current operator do X" from the cached
// identity snapshot and gates routes with that answer. Decisions are pure
// lookups; the permission catalog itself lives in the backend.
package rbac

import "github.com/telar-erp/telar-admin/internal/identity"

// HasPermission reports whether id may perform the action named by slug.
// A super-role identity passes every check. Otherwise the match is exact
// and case-sensitive; unknown slugs simply never match.
func HasPermission(id *identity.Identity, slug string) bool {
	if id == nil {
		return false
	}
	if id.IsSuperRole() {
		return true
	}
	return id.HoldsPermission(slug)
}

// HasRole reports whether id holds any of the given role slugs. Role checks
// test literal role identity, so the super-role bypass does not apply here:
// callers using this form are asking "is this specifically an editor", not
// "may this identity act".
func HasRole(id *identity.Identity, slugs ...string) bool {
	if id == nil {
		return false
	}
	for _, slug := range slugs {
		if id.RoleName == slug {
			return true
		}
		for _, r := range id.Roles {
			if r.Slug == slug {
				return true
			}
		}
	}
	return false
}
