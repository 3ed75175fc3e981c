package nav

import (
	"sync"

	"github.com/jrsteele09/go-admin-console/users"
)

const (
	RouteRoot                = "/"
	RouteLogin               = "/login"
	RouteAdminLogin          = "/admin/login"
	RouteSuperAdminLogin     = "/superadmin/login"
	RouteAdminDashboard      = "/admin/dashboard"
	RouteSuperAdminDashboard = "/superadmin/dashboard"
	RouteCategories          = "/admin/categories"
	RouteProducts            = "/admin/products"
	RouteUsers               = "/admin/users"
	RouteReports             = "/admin/reports"
	RouteOnboarding          = "/admin/onboarding"
)

// Navigator moves the operator to another route.
type Navigator interface {
	Navigate(route string)
}

// LoginRouteFor picks the login screen for a required user type. Anything but superadmin
// goes to the admin login.
func LoginRouteFor(t users.UserType) string {
	if t == users.TypeSuperAdmin {
		return RouteSuperAdminLogin
	}
	return RouteAdminLogin
}

func DashboardFor(t users.UserType) string {
	if t == users.TypeSuperAdmin {
		return RouteSuperAdminDashboard
	}
	return RouteAdminDashboard
}

var _ Navigator = (*History)(nil)

// History records where the operator is and has been.
type History struct {
	mu      sync.RWMutex
	current string
	visits  []string
}

func NewHistory(start string) *History {
	return &History{current: start}
}

func (h *History) Navigate(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = route
	h.visits = append(h.visits, route)
}

func (h *History) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *History) Visits() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.visits...)
}
