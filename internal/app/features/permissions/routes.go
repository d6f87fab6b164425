package permissions

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the permission endpoints. Reads require a signed-in
// user; grant changes require the manage_accounts grant, which only
// superadmins hold out of the box.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)

	r.Get("/", h.HandleList)
	r.Get("/roles/{role}", h.HandleRoleGrants)

	r.Group(func(wr chi.Router) {
		wr.Use(checker.RequirePermission(models.PermManageAccounts))
		wr.Post("/grants", h.HandleGrant)
		wr.Delete("/grants", h.HandleRevoke)
	})

	return r
}
