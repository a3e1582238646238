package utils

import (
	"net/http"

	"mercato/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetRolesFromRequest(r *http.Request) []string {
	roles, ok := r.Context().Value(globals.RoleKey).([]string)
	if !ok {
		return nil
	}
	return roles
}

// IsPrivileged reports whether the request carries an admin or manager role.
func IsPrivileged(r *http.Request) bool {
	roles := GetRolesFromRequest(r)
	return Contains(roles, "admin") || Contains(roles, "manager")
}
