package events

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the event endpoints. Reads require a signed-in user;
// writes additionally require the manage_events grant.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/volunteers", h.HandleRoster)
	r.Get("/volunteers/member/{memberID}", h.HandleMemberAssignments)

	r.Group(func(wr chi.Router) {
		wr.Use(checker.RequirePermission(models.PermManageEvents))
		wr.Post("/", h.HandleCreate)
		wr.Put("/{id}", h.HandleUpdate)
		wr.Delete("/{id}", h.HandleDelete)
		wr.Post("/{id}/volunteers", h.HandleAssign)
		wr.Delete("/volunteers/{assignmentID}", h.HandleUnassign)
	})

	return r
}
