package resources

import (
	"strconv"
	"time"

	"github.com/jrsteele09/go-admin-console/query"
)

const ProductsPath = "/products"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	CategoryID  int64     `json:"category_id"`
	Stock       int       `json:"stock"`
	SKU         string    `json:"sku"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	SKU         string  `json:"sku"`
	Status      string  `json:"status"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	Status      *string  `json:"status,omitempty"`
}

// ProductFilters sorts with sort_by/sort_order, unlike categories.
type ProductFilters struct {
	Search     string
	Category   string
	CategoryID *int64
	Status     string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

func (f ProductFilters) Query() query.Query {
	filters := map[string]string{
		"search":     f.Search,
		"category":   f.Category,
		"status":     f.Status,
		"sort_by":    f.SortBy,
		"sort_order": f.SortOrder,
	}
	if f.CategoryID != nil {
		filters["category_id"] = strconv.FormatInt(*f.CategoryID, 10)
	}
	if f.MinPrice != nil {
		filters["min_price"] = strconv.FormatFloat(*f.MinPrice, 'f', -1, 64)
	}
	if f.MaxPrice != nil {
		filters["max_price"] = strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64)
	}
	return query.Query{Filters: filters, Page: f.Page, PerPage: f.PerPage}
}

func NewProducts(gw query.Doer, cache *query.Cache, staleTime time.Duration, opts ...query.Option) *query.Resource[Product] {
	return query.NewResource[Product](gw, cache, query.Config{
		Name:      "products",
		Path:      ProductsPath,
		StaleTime: staleTime,
		Messages:  query.DefaultMessages("Product", "products"),
	}, opts...)
}
