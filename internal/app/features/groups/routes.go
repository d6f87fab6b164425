package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the group endpoints. Reads require a signed-in user;
// writes additionally require the manage_groups grant.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/members", h.HandleListMembers)

	r.Group(func(wr chi.Router) {
		wr.Use(checker.RequirePermission(models.PermManageGroups))
		wr.Post("/", h.HandleCreate)
		wr.Put("/{id}", h.HandleUpdate)
		wr.Delete("/{id}", h.HandleDelete)
		wr.Post("/{id}/members", h.HandleAddMember)
		wr.Put("/{id}/members/{memberID}", h.HandleSetRole)
		wr.Delete("/{id}/members/{memberID}", h.HandleRemoveMember)
	})

	return r
}
