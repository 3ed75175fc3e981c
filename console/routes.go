package console

import (
	"net/url"
	"strings"

	"github.com/jrsteele09/go-admin-console/guard"
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/users"
)

// Screen names what the console renders for a route.
type Screen string

const (
	ScreenAdminLogin          Screen = "admin-login"
	ScreenSuperAdminLogin     Screen = "superadmin-login"
	ScreenAdminDashboard      Screen = "admin-dashboard"
	ScreenSuperAdminDashboard Screen = "superadmin-dashboard"
	ScreenCategories          Screen = "categories"
	ScreenProducts            Screen = "products"
	ScreenUsers               Screen = "users"
	ScreenReports             Screen = "reports"
	ScreenOnboarding          Screen = "onboarding"
	ScreenNotFound            Screen = "not-found"
	ScreenLoading             Screen = "loading"
	ScreenAccessDenied        Screen = "access-denied"
)

// Route binds a path to a screen. Guest routes are only shown to anonymous sessions;
// RedirectTo makes the route an unconditional redirect.
type Route struct {
	Path       string
	Screen     Screen
	Guest      bool
	RedirectTo string
	Require    *guard.Requirement
}

func require(perm string, t users.UserType) *guard.Requirement {
	return &guard.Requirement{Permission: perm, UserType: t}
}

var routes = []Route{
	{Path: nav.RouteAdminLogin, Screen: ScreenAdminLogin, Guest: true},
	{Path: nav.RouteSuperAdminLogin, Screen: ScreenSuperAdminLogin, Guest: true},

	{Path: nav.RouteAdminDashboard, Screen: ScreenAdminDashboard, Require: require(users.PermViewDashboard, users.TypeAdmin)},
	{Path: nav.RouteSuperAdminDashboard, Screen: ScreenSuperAdminDashboard, Require: require("", users.TypeSuperAdmin)},

	{Path: nav.RouteCategories, Screen: ScreenCategories, Require: require(users.PermManageCategories, "")},
	{Path: nav.RouteProducts, Screen: ScreenProducts, Require: require(users.PermViewProducts, "")},
	{Path: nav.RouteUsers, Screen: ScreenUsers, Require: require(users.PermManageUsers, "")},
	{Path: nav.RouteReports, Screen: ScreenReports, Require: require(users.PermViewReports, "")},
	{Path: nav.RouteOnboarding, Screen: ScreenOnboarding, Require: require("", "")},

	{Path: nav.RouteRoot, RedirectTo: nav.RouteAdminLogin},
	{Path: nav.RouteLogin, RedirectTo: nav.RouteAdminLogin},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	return append([]Route(nil), routes...)
}

// Lookup finds the route for path. Query strings and trailing slashes are ignored.
func Lookup(path string) (Route, bool) {
	p := cleanPath(path)
	for _, r := range routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

func cleanPath(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	if path == "" {
		return nav.RouteRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
