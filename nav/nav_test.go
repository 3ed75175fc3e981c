package nav_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/stretchr/testify/assert"
)

func TestRoutesForUserType(t *testing.T) {
	assert.Equal(t, nav.RouteSuperAdminLogin, nav.LoginRouteFor(users.TypeSuperAdmin))
	assert.Equal(t, nav.RouteAdminLogin, nav.LoginRouteFor(users.TypeAdmin))
	assert.Equal(t, nav.RouteAdminLogin, nav.LoginRouteFor(""))
	assert.Equal(t, nav.RouteSuperAdminDashboard, nav.DashboardFor(users.TypeSuperAdmin))
	assert.Equal(t, nav.RouteAdminDashboard, nav.DashboardFor(users.TypeAdmin))
}

func TestHistory(t *testing.T) {
	h := nav.NewHistory(nav.RouteRoot)
	assert.Equal(t, nav.RouteRoot, h.Current())

	h.Navigate(nav.RouteAdminLogin)
	h.Navigate(nav.RouteAdminDashboard)
	assert.Equal(t, nav.RouteAdminDashboard, h.Current())
	assert.Equal(t, []string{nav.RouteAdminLogin, nav.RouteAdminDashboard}, h.Visits())
}
