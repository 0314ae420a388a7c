package utils

import (
	"net/http"

	"recipepress/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	requestingUserID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// IsAdmin reports whether the authenticated user carries the admin role.
func IsAdmin(r *http.Request) bool {
	roles, _ := r.Context().Value(globals.RoleKey).([]string)
	for _, role := range roles {
		if role == "admin" {
			return true
		}
	}
	return false
}
