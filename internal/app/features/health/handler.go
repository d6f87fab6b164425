// Package health answers liveness probes. The database check is
// optional; with no pinger configured (memory storage) the endpoint
// reports ok without a db field.
package health

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/httpjson"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	DB  Pinger
	Log *zap.Logger
}

func NewHandler(db Pinger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db,omitempty"`
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.Ping(ctx); err != nil {
			h.Log.Warn("database ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.DB = "down"
			httpjson.Respond(w, http.StatusServiceUnavailable, resp)
			return
		}
		resp.DB = "ok"
	}

	httpjson.Respond(w, http.StatusOK, resp)
}
