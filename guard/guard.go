// Package guard decides whether a session may see a screen.
package guard

import (
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/session"
	"github.com/jrsteele09/go-admin-console/users"
)

type Outcome int

const (
	Allow Outcome = iota
	Loading
	Redirect
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Denied:
		return "denied"
	}
	return "unknown"
}

const MsgAccessDenied = "You don't have permission to access this page."

// Requirement is what a screen demands. Zero values demand nothing.
type Requirement struct {
	Permission string
	UserType   users.UserType
}

type Decision struct {
	Outcome    Outcome
	RedirectTo string
	Message    string
}

// Evaluate checks, in order: a login in flight, authentication, user type, permission.
// A user type mismatch redirects to the session's own dashboard; a missing permission is
// denied in place.
func Evaluate(s session.Session, req Requirement) Decision {
	if s.IsLoading {
		return Decision{Outcome: Loading}
	}
	if !s.IsAuthenticated {
		return Decision{Outcome: Redirect, RedirectTo: nav.LoginRouteFor(req.UserType)}
	}
	if req.UserType != "" && s.UserType != req.UserType {
		return Decision{Outcome: Redirect, RedirectTo: nav.DashboardFor(s.UserType)}
	}
	if req.Permission != "" && !s.HasPermission(req.Permission) {
		return Decision{Outcome: Denied, Message: MsgAccessDenied}
	}
	return Decision{Outcome: Allow}
}

// EvaluateGuest guards the login screens: an authenticated session is sent to its
// dashboard instead.
func EvaluateGuest(s session.Session) Decision {
	if s.IsAuthenticated {
		return Decision{Outcome: Redirect, RedirectTo: nav.DashboardFor(s.UserType)}
	}
	return Decision{Outcome: Allow}
}
