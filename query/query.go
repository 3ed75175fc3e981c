package query

import (
	"net/url"
	"strconv"
)

// Query describes one list request. Each distinct Query is its own cache entry.
type Query struct {
	Filters       map[string]string
	Page          int
	PerPage       int
	SortField     string
	SortDirection string
}

// Values encodes the query as URL parameters, dropping empty filters and zero paging.
func (q Query) Values() url.Values {
	v := url.Values{}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.SortField != "" {
		v.Set("sort_field", q.SortField)
	}
	if q.SortDirection != "" {
		v.Set("sort_direction", q.SortDirection)
	}
	return v
}

// Key is the canonical encoding: parameters sorted by name, so equal queries share a key
// whatever order their filters were set in.
func (q Query) Key() string {
	return q.Values().Encode()
}
