package resources

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/go-admin-console/query"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const CategoriesPath = "/admin/categories"

type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	ParentID      *int64     `json:"parent_id,omitempty"`
	Parent        *Category  `json:"parent,omitempty"`
	Children      []Category `json:"children,omitempty"`
	ChildrenCount int        `json:"children_count,omitempty"`
	Featured      bool       `json:"featured"`
	Active        bool       `json:"active"`
	FullPath      string     `json:"full_path,omitempty"`
	Level         int        `json:"level,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CategoryOption is one entry of a parent picker.
type CategoryOption struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
	Level int    `json:"level"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ParentID *int64 `json:"parent_id,omitempty"`
	Featured *bool  `json:"featured,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	Slug     *string `json:"slug,omitempty"`
	ParentID *int64  `json:"parent_id,omitempty"`
	Featured *bool   `json:"featured,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type CategoryFilters struct {
	Search        string
	ParentID      *int64
	Status        string
	Featured      *bool
	Active        *bool
	SortField     string
	SortDirection string
	Page          int
	PerPage       int
}

func (f CategoryFilters) Query() query.Query {
	filters := map[string]string{
		"search": f.Search,
		"status": f.Status,
	}
	if f.ParentID != nil {
		filters["parent_id"] = strconv.FormatInt(*f.ParentID, 10)
	}
	if f.Featured != nil {
		filters["featured"] = strconv.FormatBool(*f.Featured)
	}
	if f.Active != nil {
		filters["active"] = strconv.FormatBool(*f.Active)
	}
	return query.Query{
		Filters:       filters,
		Page:          f.Page,
		PerPage:       f.PerPage,
		SortField:     f.SortField,
		SortDirection: f.SortDirection,
	}
}

// Categories adds the tree and options lookups to the category collection.
type Categories struct {
	*query.Resource[Category]
	lookupStale time.Duration
}

func NewCategories(gw query.Doer, cache *query.Cache, staleTime, lookupStaleTime time.Duration, opts ...query.Option) *Categories {
	return &Categories{
		Resource: query.NewResource[Category](gw, cache, query.Config{
			Name:         "categories",
			Path:         CategoriesPath,
			StaleTime:    staleTime,
			BulkIDsField: "category_ids",
			Messages:     query.DefaultMessages("Category", "categories"),
		}, opts...),
		lookupStale: lookupStaleTime,
	}
}

// Tree returns the category hierarchy, optionally active categories only.
func (c *Categories) Tree(ctx context.Context, activeOnly bool) ([]Category, error) {
	params := url.Values{}
	if activeOnly {
		params.Set("active", "true")
	}
	return query.Lookup[[]Category](ctx, c.Resource, "tree", "/tree", params, c.lookupStale)
}

// Options lists parent choices, leaving out the excluded ids.
func (c *Categories) Options(ctx context.Context, activeOnly bool, exclude []int64) ([]CategoryOption, error) {
	params := url.Values{}
	if activeOnly {
		params.Set("active", "true")
	}
	for _, id := range exclude {
		params.Add("exclude[]", strconv.FormatInt(id, 10))
	}
	return query.Lookup[[]CategoryOption](ctx, c.Resource, "options", "/options", params, c.lookupStale)
}
