package server

// Route path constants
// All API routes are defined here to ensure consistency and prevent typos
const (
	// Auth
	RouteAuthLogin   = "/auth/login"
	RouteAuthLogout  = "/auth/logout"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthMe      = "/auth/me"

	// Categories
	RouteCategories           = "/admin/categories"
	RouteCategory             = "/admin/categories/{id}"
	RouteCategoryTree         = "/admin/categories/tree"
	RouteCategoryOptions      = "/admin/categories/options"
	RouteCategoriesBulkStatus = "/admin/categories/bulk-update-status"
	RouteCategoriesBulkDelete = "/admin/categories/bulk-delete"

	// Products
	RouteProducts = "/products"
	RouteProduct  = "/products/{id}"

	// Users
	RouteUsers        = "/users"
	RouteUser         = "/users/{id}"
	RouteOnboardStore = "/admin/onboard-store"
)
