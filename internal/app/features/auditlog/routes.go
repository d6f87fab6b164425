package auditlog

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)
	r.Use(checker.RequirePermission(models.PermViewAuditLog))
	r.Get("/", h.HandleList)
	return r
}
