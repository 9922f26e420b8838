package middleware

import (
	"net/http"
	"slices"
	"strings"

	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"
)

const (
	MsgNotAuthenticated = "Access denied. User not authenticated."
	MsgRoleNotFound     = "Access denied. User role not found."
)

// RequireRoles admits principals whose role is one of roles.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	denied := "Access denied. Required roles: " + strings.Join(names, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusForbidden, MsgNotAuthenticated)
				return
			}
			if !p.Role.Valid() {
				common.RespondWithError(w, http.StatusForbidden, MsgRoleNotFound)
				return
			}
			if !slices.Contains(roles, p.Role) {
				common.RespondWithErrors(w, http.StatusForbidden, denied, map[string]any{"requiredRoles": names})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	IsAdmin            = RequireRoles(model.RoleAdmin)
	IsTherapist        = RequireRoles(model.RoleTherapist)
	IsLearner          = RequireRoles(model.RoleLearner)
	IsUser             = RequireRoles(model.RoleUser)
	IsAdminOrTherapist = RequireRoles(model.RoleAdmin, model.RoleTherapist)
)
