// Package catalogrepo stores the mock API's categories and products.
package catalogrepo

import (
	"errors"

	"github.com/jrsteele09/go-admin-console/resources"
)

// ErrUnknownParent is returned when a category names a parent that does not exist.
var ErrUnknownParent = errors.New("parent category not found")

// ErrInvalidParent is returned when a category would become its own ancestor.
var ErrInvalidParent = errors.New("category cannot be moved under itself or a descendant")

type CategoryFilter struct {
	Search        string
	ParentID      *int64
	Active        *bool
	Featured      *bool
	SortField     string
	SortDirection string
}

type ProductFilter struct {
	Search     string
	Category   string
	CategoryID *int64
	Status     string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string
	SortOrder  string
}

type Repo interface {
	ListCategories(f CategoryFilter) []resources.Category
	GetCategory(id int64) (*resources.Category, error)
	UpsertCategory(c *resources.Category) error
	DeleteCategory(id int64) error
	CategoryTree(activeOnly bool) []resources.Category
	CategoryOptions(activeOnly bool, exclude []int64) []resources.CategoryOption
	SetCategoriesActive(ids []int64, active bool) (int, error)
	DeleteCategories(ids []int64) (int, error)

	ListProducts(f ProductFilter) []resources.Product
	GetProduct(id int64) (*resources.Product, error)
	UpsertProduct(p *resources.Product) error
	DeleteProduct(id int64) error
}
