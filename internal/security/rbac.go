package security

import (
	"fmt"
	"net/http"
	"strings"

	"adminapi/internal/model"
)

// RBAC checks role-menu permissions. A route declares the permission
// identifier it needs; the user holds it when one of the enabled menus of
// their enabled roles lists it in Perms (comma separated).
type RBAC struct {
	exclude map[string]struct{}
}

// NewRBAC returns an RBAC that lets every authenticated user through for the
// permission identifiers in exclude.
func NewRBAC(exclude []string) *RBAC {
	m := make(map[string]struct{}, len(exclude))
	for _, p := range exclude {
		if p = strings.TrimSpace(p); p != "" {
			m[p] = struct{}{}
		}
	}
	return &RBAC{exclude: m}
}

func denied(reason string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
}

// Verify reports whether u may call a route with method that requires perm.
// An empty perm only requires the role and staff checks.
func (r *RBAC) Verify(u *model.UserDetail, method, perm string) error {
	if u == nil {
		return ErrTokenInvalid
	}
	if u.IsSuperuser {
		return nil
	}

	roles := u.EnabledRoles()
	if len(roles) == 0 {
		return denied("user has not been assigned a role")
	}
	hasMenus := false
	for _, role := range roles {
		if len(role.Menus) > 0 {
			hasMenus = true
			break
		}
	}
	if !hasMenus {
		return denied("user's roles have not been assigned menus")
	}

	if isMutating(method) && !u.IsStaff {
		return denied("user is not allowed to perform management operations")
	}

	for _, role := range roles {
		if role.DataScope == model.DataScopeAll {
			return nil
		}
	}

	if perm == "" {
		return nil
	}
	if _, ok := r.exclude[perm]; ok {
		return nil
	}
	if _, ok := Perms(roles)[perm]; ok {
		return nil
	}
	return denied(perm)
}

// Perms collects the permission identifiers granted by the enabled menus of roles.
func Perms(roles []model.RoleDetail) map[string]struct{} {
	out := make(map[string]struct{})
	for _, role := range roles {
		for _, m := range role.Menus {
			if m.Status != model.StatusEnabled || m.Perms == nil {
				continue
			}
			for _, p := range strings.Split(*m.Perms, ",") {
				if p = strings.TrimSpace(p); p != "" {
					out[p] = struct{}{}
				}
			}
		}
	}
	return out
}

func isMutating(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
