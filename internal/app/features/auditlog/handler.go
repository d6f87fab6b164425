// Package auditlog exposes the audit trail to staff with the
// view_audit_log grant. Entries are written elsewhere (the auth flow
// and the admin features); this feature only reads.
package auditlog

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openparish/steward/internal/app/system/httpjson"
	"github.com/openparish/steward/internal/app/system/paging"
	"github.com/openparish/steward/internal/store"
)

type Handler struct {
	Audit store.AuditStore
	Log   *zap.Logger
}

func NewHandler(audit store.AuditStore, logger *zap.Logger) *Handler {
	return &Handler{Audit: audit, Log: logger}
}

type listResponse struct {
	Items []*store.AuditEvent `json:"items"`
	paging.ListMeta
}

// HandleList returns one page of audit events, newest first. Filters:
// category, event_type, actor_id, from, to (dates, inclusive).
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.AuditFilter{
		Category:  q.Get("category"),
		EventType: q.Get("event_type"),
		Page:      paging.Parse(r),
	}
	if raw := q.Get("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "actor_id must be a UUID")
			return
		}
		f.ActorID = &id
	}
	if raw := q.Get("from"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		f.From = &ts
	}
	if raw := q.Get("to"); raw != "" {
		ts, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		// Include the whole end day.
		end := ts.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}

	items, total, err := h.Audit.Query(r.Context(), f)
	if err != nil {
		h.Log.Error("audit query error", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []*store.AuditEvent{}
	}
	httpjson.Respond(w, http.StatusOK, listResponse{
		Items:    items,
		ListMeta: paging.Meta(total, f.Page),
	})
}
