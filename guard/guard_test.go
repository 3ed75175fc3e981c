package guard_test

import (
	"testing"

	"github.com/jrsteele09/go-admin-console/guard"
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/session"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/stretchr/testify/assert"
)

func authed(t users.UserType, perms ...string) session.Session {
	return session.Session{
		Status:          session.StatusAuthenticated,
		AccessToken:     "a",
		IsAuthenticated: true,
		UserType:        t,
		Permissions:     perms,
	}
}

func TestEvaluate(t *testing.T) {
	adminDashboard := guard.Requirement{Permission: users.PermViewDashboard, UserType: users.TypeAdmin}
	superDashboard := guard.Requirement{UserType: users.TypeSuperAdmin}

	tests := []struct {
		name     string
		session  session.Session
		req      guard.Requirement
		expected guard.Decision
	}{
		{
			name:     "loading while login in flight",
			session:  session.Session{Status: session.StatusAuthenticating, IsLoading: true},
			req:      adminDashboard,
			expected: guard.Decision{Outcome: guard.Loading},
		},
		{
			name:     "anonymous to admin login",
			session:  session.Session{Status: session.StatusAnonymous},
			req:      adminDashboard,
			expected: guard.Decision{Outcome: guard.Redirect, RedirectTo: nav.RouteAdminLogin},
		},
		{
			name:     "anonymous to superadmin login",
			session:  session.Session{Status: session.StatusAnonymous},
			req:      superDashboard,
			expected: guard.Decision{Outcome: guard.Redirect, RedirectTo: nav.RouteSuperAdminLogin},
		},
		{
			name:     "anonymous with no type requirement",
			session:  session.Session{Status: session.StatusError, LastError: "bad"},
			req:      guard.Requirement{Permission: users.PermViewProducts},
			expected: guard.Decision{Outcome: guard.Redirect, RedirectTo: nav.RouteAdminLogin},
		},
		{
			name:     "admin on superadmin screen goes to own dashboard",
			session:  authed(users.TypeAdmin, users.PermViewDashboard),
			req:      superDashboard,
			expected: guard.Decision{Outcome: guard.Redirect, RedirectTo: nav.RouteAdminDashboard},
		},
		{
			name:     "superadmin on admin screen goes to own dashboard",
			session:  authed(users.TypeSuperAdmin, users.PermViewDashboard),
			req:      adminDashboard,
			expected: guard.Decision{Outcome: guard.Redirect, RedirectTo: nav.RouteSuperAdminDashboard},
		},
		{
			name:     "missing permission is denied in place",
			session:  authed(users.TypeAdmin, users.PermViewProducts),
			req:      adminDashboard,
			expected: guard.Decision{Outcome: guard.Denied, Message: guard.MsgAccessDenied},
		},
		{
			name:     "allowed",
			session:  authed(users.TypeAdmin, users.PermViewDashboard),
			req:      adminDashboard,
			expected: guard.Decision{Outcome: guard.Allow},
		},
		{
			name:     "no requirement only needs authentication",
			session:  authed(users.TypeSuperAdmin),
			req:      guard.Requirement{},
			expected: guard.Decision{Outcome: guard.Allow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, guard.Evaluate(tt.session, tt.req))
		})
	}
}

func TestEvaluateGuest(t *testing.T) {
	assert.Equal(t, guard.Decision{Outcome: guard.Allow}, guard.EvaluateGuest(session.Session{}))
	assert.Equal(t,
		guard.Decision{Outcome: guard.Redirect, RedirectTo: nav.RouteSuperAdminDashboard},
		guard.EvaluateGuest(authed(users.TypeSuperAdmin)),
	)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "denied", guard.Denied.String())
	assert.Equal(t, "unknown", guard.Outcome(42).String())
}
