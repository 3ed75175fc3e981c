package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/internal/utils"
	"github.com/jrsteele09/go-admin-console/resources"
	"github.com/jrsteele09/go-admin-console/server/catalogrepo"
)

type categoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	ParentID *int64  `json:"parent_id"`
	Featured *bool   `json:"featured"`
	Active   *bool   `json:"active"`
}

func (req categoryRequest) apply(c *resources.Category) {
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		c.Slug = strings.TrimSpace(*req.Slug)
	}
	if req.ParentID != nil {
		if *req.ParentID == 0 {
			c.ParentID = nil
		} else {
			c.ParentID = req.ParentID
		}
	}
	if req.Featured != nil {
		c.Featured = *req.Featured
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
}

func (s *Server) saveCategory(w http.ResponseWriter, c *resources.Category, status int, message string) {
	verrs := validationErrors{}
	verrs.required("name", c.Name)
	if verrs.write(w) {
		return
	}
	if err := s.repos.Catalog.UpsertCategory(c); err != nil {
		switch {
		case errors.Is(err, catalogrepo.ErrInvalidParent):
			validationErrors{"parent_id": {"A category cannot be its own parent or a child of its descendants."}}.write(w)
		case errors.Is(err, catalogrepo.ErrUnknownParent):
			validationErrors{"parent_id": {"The selected parent category is invalid."}}.write(w)
		default:
			writeRepoError(w, err, "slug")
		}
		return
	}
	writeData(w, status, message, c)
}

// categoryFilter reads the listing filters. status=active|inactive is an alias for active.
func categoryFilter(r *http.Request) catalogrepo.CategoryFilter {
	q := r.URL.Query()
	f := catalogrepo.CategoryFilter{
		Search:        q.Get("search"),
		ParentID:      int64Param(r, "parent_id"),
		Active:        boolParam(r, "active"),
		Featured:      boolParam(r, "featured"),
		SortField:     q.Get("sort_field"),
		SortDirection: q.Get("sort_direction"),
	}
	switch q.Get("status") {
	case resources.StatusActive:
		f.Active = utils.Ptr(true)
	case resources.StatusInactive:
		f.Active = utils.Ptr(false)
	}
	return f
}

// ListCategoriesHandler responds with data plus a meta pagination block.
func (s *Server) ListCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := s.repos.Catalog.ListCategories(categoryFilter(r))
		items, meta := paginate(all, intParam(r, "page", 1), intParam(r, "per_page", defaultPerPage))
		writeJSON(w, http.StatusOK, struct {
			Data []resources.Category `json:"data"`
			Meta paginationMeta       `json:"meta"`
		}{items, meta})
	}
}

func (s *Server) GetCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		c, err := s.repos.Catalog.GetCategory(id)
		if err != nil {
			writeRepoError(w, err, "id")
			return
		}
		writeData(w, http.StatusOK, "", c)
	}
}

func (s *Server) CreateCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		c := &resources.Category{Active: true}
		req.apply(c)
		s.saveCategory(w, c, http.StatusCreated, "Category created successfully")
	}
}

func (s *Server) UpdateCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req categoryRequest
		if !decodeBody(w, r, &req) {
			return
		}
		c, err := s.repos.Catalog.GetCategory(id)
		if err != nil {
			writeRepoError(w, err, "id")
			return
		}
		req.apply(c)
		s.saveCategory(w, c, http.StatusOK, "Category updated successfully")
	}
}

func (s *Server) DeleteCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.repos.Catalog.DeleteCategory(id); err != nil {
			writeRepoError(w, err, "category")
			return
		}
		writeData(w, http.StatusOK, "Category deleted successfully", nil)
	}
}

func (s *Server) CategoryTreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := boolParam(r, "active")
		tree := s.repos.Catalog.CategoryTree(activeOnly != nil && *activeOnly)
		if tree == nil {
			tree = []resources.Category{}
		}
		writeData(w, http.StatusOK, "", tree)
	}
}

// CategoryOptionsHandler accepts exclude[]=id (repeatable) to hide a category and its
// subtree, e.g. when picking a new parent.
func (s *Server) CategoryOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var exclude []int64
		for _, raw := range r.URL.Query()["exclude[]"] {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				exclude = append(exclude, id)
			}
		}
		activeOnly := boolParam(r, "active")
		writeData(w, http.StatusOK, "", s.repos.Catalog.CategoryOptions(activeOnly != nil && *activeOnly, exclude))
	}
}

type bulkRequest struct {
	CategoryIDs []int64 `json:"category_ids"`
	Status      string  `json:"status"`
}

func (req bulkRequest) validate(withStatus bool) validationErrors {
	verrs := validationErrors{}
	if len(req.CategoryIDs) == 0 {
		verrs.add("category_ids", "The category ids field is required.")
	}
	if withStatus && req.Status != resources.StatusActive && req.Status != resources.StatusInactive {
		verrs.add("status", "The selected status is invalid.")
	}
	return verrs
}

func (s *Server) BulkCategoryStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if !decodeBody(w, r, &req) || req.validate(true).write(w) {
			return
		}
		n, err := s.repos.Catalog.SetCategoriesActive(req.CategoryIDs, req.Status == resources.StatusActive)
		if err != nil {
			writeRepoError(w, err, "category_ids")
			return
		}
		writeData(w, http.StatusOK, "Categories updated successfully", map[string]int{"updated": n})
	}
}

func (s *Server) BulkDeleteCategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkRequest
		if !decodeBody(w, r, &req) || req.validate(false).write(w) {
			return
		}
		n, err := s.repos.Catalog.DeleteCategories(req.CategoryIDs)
		if err != nil {
			writeRepoError(w, err, "category_ids")
			return
		}
		writeData(w, http.StatusOK, "Categories deleted successfully", map[string]int{"deleted": n})
	}
}
