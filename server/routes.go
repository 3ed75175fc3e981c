package server

import (
	"net/http"

	"github.com/jrsteele09/go-admin-console/users"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware
	authed := func(mw ...func(http.HandlerFunc) http.HandlerFunc) []func(http.HandlerFunc) http.HandlerFunc {
		return s.APIMiddleware(append([]func(http.HandlerFunc) http.HandlerFunc{s.RequireAuth()}, mw...)...)
	}
	manageCategories := authed(s.RequirePermission(users.PermManageCategories))
	viewProducts := authed(s.RequirePermission(users.PermViewProducts))
	manageProducts := authed(s.RequirePermission(users.PermManageProducts))
	manageUsers := authed(s.RequirePermission(users.PermManageUsers))

	// AUTH
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), api()...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), api()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), authed()...))
	s.RegisterRouteFunc("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), authed()...))

	// CATEGORIES
	s.RegisterRouteFunc("GET "+RouteCategories, ChainMiddleware(s.ListCategoriesHandler(), manageCategories...))
	s.RegisterRouteFunc("POST "+RouteCategories, ChainMiddleware(s.CreateCategoryHandler(), manageCategories...))
	s.RegisterRouteFunc("GET "+RouteCategoryTree, ChainMiddleware(s.CategoryTreeHandler(), manageCategories...))
	s.RegisterRouteFunc("GET "+RouteCategoryOptions, ChainMiddleware(s.CategoryOptionsHandler(), manageCategories...))
	s.RegisterRouteFunc("POST "+RouteCategoriesBulkStatus, ChainMiddleware(s.BulkCategoryStatusHandler(), manageCategories...))
	s.RegisterRouteFunc("DELETE "+RouteCategoriesBulkDelete, ChainMiddleware(s.BulkDeleteCategoriesHandler(), manageCategories...))
	s.RegisterRouteFunc("GET "+RouteCategory, ChainMiddleware(s.GetCategoryHandler(), manageCategories...))
	s.RegisterRouteFunc("PUT "+RouteCategory, ChainMiddleware(s.UpdateCategoryHandler(), manageCategories...))
	s.RegisterRouteFunc("DELETE "+RouteCategory, ChainMiddleware(s.DeleteCategoryHandler(), manageCategories...))

	// PRODUCTS
	s.RegisterRouteFunc("GET "+RouteProducts, ChainMiddleware(s.ListProductsHandler(), viewProducts...))
	s.RegisterRouteFunc("GET "+RouteProduct, ChainMiddleware(s.GetProductHandler(), viewProducts...))
	s.RegisterRouteFunc("POST "+RouteProducts, ChainMiddleware(s.CreateProductHandler(), manageProducts...))
	s.RegisterRouteFunc("PUT "+RouteProduct, ChainMiddleware(s.UpdateProductHandler(), manageProducts...))
	s.RegisterRouteFunc("DELETE "+RouteProduct, ChainMiddleware(s.DeleteProductHandler(), manageProducts...))

	// USERS
	s.RegisterRouteFunc("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), manageUsers...))
	s.RegisterRouteFunc("POST "+RouteUsers, ChainMiddleware(s.CreateUserHandler(), manageUsers...))
	s.RegisterRouteFunc("GET "+RouteUser, ChainMiddleware(s.GetUserHandler(), manageUsers...))
	s.RegisterRouteFunc("PUT "+RouteUser, ChainMiddleware(s.UpdateUserHandler(), manageUsers...))
	s.RegisterRouteFunc("DELETE "+RouteUser, ChainMiddleware(s.DeleteUserHandler(), manageUsers...))
	s.RegisterRouteFunc("POST "+RouteOnboardStore, ChainMiddleware(s.OnboardStoreHandler(), authed()...))

	// CORS preflight for everything above
	s.RegisterRouteFunc("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {}, api()...))
	s.RegisterRouteFunc("/", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	}, api()...))
}
