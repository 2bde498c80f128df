package handlers

import (
	"net/http"

	"github.com/camden-git/gallerybackend/permissions"
)

type PermissionsHandler struct{}

// ListDefinedPermissions serves the permission groups so clients can label
// what an account may do.
func (h *PermissionsHandler) ListDefinedPermissions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, permissions.DefinedPermissionGroups)
}

// ListGranted returns the definitions of the permissions the caller holds
func (h *PermissionsHandler) ListGranted(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteAPIError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}
	granted := make([]permissions.PermissionDefinition, 0, len(user.GlobalPermissions))
	for _, key := range user.GlobalPermissions {
		if def, ok := permissions.GetPermissionDefinition(key); ok {
			granted = append(granted, def)
		}
	}
	writeJSON(w, http.StatusOK, granted)
}
