package families

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the family endpoints. Reads require a signed-in user;
// writes additionally require the manage_members grant.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	r.Group(func(wr chi.Router) {
		wr.Use(checker.RequirePermission(models.PermManageMembers))
		wr.Post("/", h.HandleCreate)
		wr.Put("/{id}", h.HandleUpdate)
		wr.Put("/{id}/head", h.HandleSetHead)
		wr.Delete("/{id}", h.HandleDelete)
	})

	return r
}
