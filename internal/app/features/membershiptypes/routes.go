package membershiptypes

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the membership type endpoints. Reads require a
// signed-in user; writes additionally require the manage_groups grant.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)

	r.Get("/", h.HandleList)
	r.Get("/assignments/member/{memberID}", h.HandleMemberHistory)

	r.Group(func(wr chi.Router) {
		wr.Use(checker.RequirePermission(models.PermManageGroups))
		wr.Post("/", h.HandleCreate)
		wr.Put("/{id}", h.HandleUpdate)
		wr.Delete("/{id}", h.HandleDelete)
		wr.Post("/assignments", h.HandleAssign)
		wr.Put("/assignments/{assignmentID}/end", h.HandleEndAssignment)
	})

	return r
}
