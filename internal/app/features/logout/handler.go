// Package logout closes the staff session.
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/auditlog"
	"github.com/openparish/steward/internal/app/system/auth"
	"github.com/openparish/steward/internal/app/system/httpjson"
)

type Handler struct {
	Sessions *auth.SessionManager
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(sessions *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Audit: audit, Log: logger}
}

// HandleLogout expires the session cookie. Safe to call while signed
// out; only signed-in logouts are audited.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, signedIn := auth.CurrentUser(r)

	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Error("session sign-out failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if signedIn {
		h.Audit.Logout(r.Context(), r, u.ID)
	}
	httpjson.Respond(w, http.StatusOK, map[string]string{"message": "signed out"})
}
