package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-admin-console/resources"
	"github.com/jrsteele09/go-admin-console/server/catalogrepo"
)

type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	SKU         *string  `json:"sku"`
	Status      *string  `json:"status"`
}

func (req productRequest) apply(p *resources.Product) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.SKU != nil {
		p.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}

func (s *Server) saveProduct(w http.ResponseWriter, p *resources.Product, status int, message string) {
	verrs := validationErrors{}
	verrs.required("name", p.Name)
	verrs.required("sku", p.SKU)
	verrs.required("category", p.Category)
	if p.Price < 0 {
		verrs.add("price", "The price must be at least 0.")
	}
	if p.Stock < 0 {
		verrs.add("stock", "The stock must be at least 0.")
	}
	if p.Status != resources.StatusActive && p.Status != resources.StatusInactive {
		verrs.add("status", "The selected status is invalid.")
	}
	if verrs.write(w) {
		return
	}
	if err := s.repos.Catalog.UpsertProduct(p); err != nil {
		writeRepoError(w, err, "sku")
		return
	}
	writeData(w, status, message, p)
}

// ListProductsHandler responds with a flat paginator: data next to current_page, total...
func (s *Server) ListProductsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		all := s.repos.Catalog.ListProducts(catalogrepo.ProductFilter{
			Search:     q.Get("search"),
			Category:   q.Get("category"),
			CategoryID: int64Param(r, "category_id"),
			Status:     q.Get("status"),
			MinPrice:   floatParam(r, "min_price"),
			MaxPrice:   floatParam(r, "max_price"),
			SortBy:     q.Get("sort_by"),
			SortOrder:  q.Get("sort_order"),
		})
		items, meta := paginate(all, intParam(r, "page", 1), intParam(r, "per_page", defaultPerPage))
		writeJSON(w, http.StatusOK, struct {
			Data []resources.Product `json:"data"`
			paginationMeta
		}{items, meta})
	}
}

func (s *Server) GetProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		p, err := s.repos.Catalog.GetProduct(id)
		if err != nil {
			writeRepoError(w, err, "id")
			return
		}
		writeData(w, http.StatusOK, "", p)
	}
}

func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req productRequest
		if !decodeBody(w, r, &req) {
			return
		}
		p := &resources.Product{Status: resources.StatusActive}
		req.apply(p)
		s.saveProduct(w, p, http.StatusCreated, "Product created successfully")
	}
}

func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req productRequest
		if !decodeBody(w, r, &req) {
			return
		}
		p, err := s.repos.Catalog.GetProduct(id)
		if err != nil {
			writeRepoError(w, err, "id")
			return
		}
		req.apply(p)
		s.saveProduct(w, p, http.StatusOK, "Product updated successfully")
	}
}

func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := s.repos.Catalog.DeleteProduct(id); err != nil {
			writeRepoError(w, err, "id")
			return
		}
		writeData(w, http.StatusOK, "Product deleted successfully", nil)
	}
}
