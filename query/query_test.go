package query_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-console/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryKeyIsCanonical(t *testing.T) {
	a := query.Query{Filters: map[string]string{"status": "active", "search": "shoe", "parent_id": ""}, Page: 2, PerPage: 15}
	b := query.Query{PerPage: 15, Page: 2, Filters: map[string]string{"search": "shoe", "status": "active"}}

	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "page=2&per_page=15&search=shoe&status=active", a.Key())
	assert.NotEqual(t, a.Key(), query.Query{Page: 3, PerPage: 15}.Key())
}

func TestQueryValuesSorting(t *testing.T) {
	v := query.Query{SortField: "name", SortDirection: "desc"}.Values()
	assert.Equal(t, "name", v.Get("sort_field"))
	assert.Equal(t, "desc", v.Get("sort_direction"))
	assert.False(t, v.Has("page"))
}

type row struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDecodePageShapes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected query.Page[row]
	}{
		{
			name:     "data with meta",
			raw:      `{"data":[{"id":1,"name":"a"}],"meta":{"current_page":2,"per_page":1,"last_page":4,"total":4},"links":{}}`,
			expected: query.Page[row]{Items: []row{{1, "a"}}, TotalCount: 4, CurrentPage: 2, PerPage: 1, LastPage: 4},
		},
		{
			name:     "flat paginator",
			raw:      `{"data":[{"id":1,"name":"a"}],"current_page":1,"per_page":10,"last_page":1,"total":1}`,
			expected: query.Page[row]{Items: []row{{1, "a"}}, TotalCount: 1, CurrentPage: 1, PerPage: 10, LastPage: 1},
		},
		{
			name:     "paginator wrapped in data",
			raw:      `{"success":true,"data":{"data":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"current_page":1,"per_page":15,"last_page":1,"total":2}}`,
			expected: query.Page[row]{Items: []row{{1, "a"}, {2, "b"}}, TotalCount: 2, CurrentPage: 1, PerPage: 15, LastPage: 1},
		},
		{
			name:     "bare array",
			raw:      `[{"id":1,"name":"a"}]`,
			expected: query.Page[row]{Items: []row{{1, "a"}}, TotalCount: 1, CurrentPage: 1, PerPage: 1, LastPage: 1},
		},
		{
			name:     "empty list",
			raw:      `{"data":[],"meta":{"current_page":1,"per_page":15,"last_page":1,"total":0}}`,
			expected: query.Page[row]{Items: []row{}, TotalCount: 0, CurrentPage: 1, PerPage: 15, LastPage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := query.DecodePage[row]([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page)
		})
	}
}

func TestDecodePageRejectsNonLists(t *testing.T) {
	_, err := query.DecodePage[row]([]byte(`{"data":{"id":1}}`))
	assert.Error(t, err)
	_, err = query.DecodePage[row]([]byte(``))
	assert.Error(t, err)
}

func TestDefaultMessages(t *testing.T) {
	m := query.DefaultMessages("Category", "categories")
	assert.Equal(t, "Category created successfully", m.Created)
	assert.Equal(t, "Categories deleted successfully", m.BulkDeleted)
	assert.Equal(t, "Categories status updated successfully", m.BulkUpdated)
	assert.Equal(t, "Failed to update categories status", m.BulkUpdateFailed)
	assert.Equal(t, "Failed to delete category", m.DeleteFailed)

	assert.Equal(t, "Products deleted successfully", query.DefaultMessages("Product", "").BulkDeleted)
}
