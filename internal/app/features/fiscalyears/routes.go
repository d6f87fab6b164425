package fiscalyears

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

// Routes mounts the fiscal year endpoints. Reads require a signed-in
// user; writes additionally require the manage_finance grant.
func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)

	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)

	r.Group(func(wr chi.Router) {
		wr.Use(checker.RequirePermission(models.PermManageFinance))
		wr.Post("/", h.HandleCreate)
		wr.Post("/{id}/close", h.HandleClose)
	})

	return r
}
