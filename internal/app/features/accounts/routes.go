package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/openparish/steward/internal/app/system/authz"
	"github.com/openparish/steward/internal/domain/models"
)

func Routes(h *Handler, checker *authz.Checker) chi.Router {
	r := chi.NewRouter()
	r.Use(authz.RequireUser)
	r.Use(checker.RequirePermission(models.PermManageAccounts))

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)

	return r
}
