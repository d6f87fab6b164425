package memory

import (
	"context"
	"sort"

	"github.com/openparish/steward/internal/store"
)

// AuditStore implements store.AuditStore in memory.
type AuditStore struct {
	db *DB
}

// Log appends one event.
func (s *AuditStore) Log(ctx context.Context, e store.AuditEvent) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if e.Details != nil {
		details := make(map[string]string, len(e.Details))
		for k, v := range e.Details {
			details[k] = v
		}
		e.Details = details
	}
	s.db.audit = append(s.db.audit, &e)
	return nil
}

// Query returns one page, newest first, plus the total matching count.
func (s *AuditStore) Query(ctx context.Context, f store.AuditFilter) ([]*store.AuditEvent, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var matched []*store.AuditEvent
	for _, e := range s.db.audit {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.EventType != "" && e.EventType != f.EventType {
			continue
		}
		if f.ActorID != nil && (e.ActorID == nil || *e.ActorID != *f.ActorID) {
			continue
		}
		if f.From != nil && e.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Timestamp.After(*f.To) {
			continue
		}
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	total := len(matched)
	out := make([]*store.AuditEvent, 0, len(matched))
	for _, e := range paginate(matched, f.Page) {
		c := *e
		out = append(out, &c)
	}
	return out, total, nil
}
