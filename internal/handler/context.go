package handler

import (
	"net/http"

	"github.com/juniorcav/gestao-pesca-sub000/internal/server/authctx"
)

// currentUser pulls the authenticated user or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*authctx.CurrentUser, bool) {
	user := authctx.FromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return user, true
}
