// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"

	"github.com/openparish/steward/internal/store"
)

// DefaultLimit is the page size used when the caller does not ask for
// one.
const DefaultLimit = 50

// MaxLimit caps the page size a caller may request.
const MaxLimit = 200

// Parse extracts limit/offset query parameters, applying the default
// and cap. Invalid or negative values fall back to defaults.
func Parse(r *http.Request) store.Page {
	p := store.Page{Limit: DefaultLimit, Offset: 0}

	if s := query.Get(r, "limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			p.Limit = n
			if p.Limit > MaxLimit {
				p.Limit = MaxLimit
			}
		}
	}
	if s := query.Get(r, "offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			p.Offset = n
		}
	}

	return p
}

// ListMeta is the pagination envelope attached to list responses.
type ListMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Meta builds the response envelope for one page.
func Meta(total int, p store.Page) ListMeta {
	return ListMeta{Total: total, Limit: p.Limit, Offset: p.Offset}
}
