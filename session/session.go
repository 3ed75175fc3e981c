package session

import (
	"slices"

	"github.com/jrsteele09/go-admin-console/users"
)

type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
	StatusError          Status = "error"
)

// Session is a point-in-time copy of the authentication state. Mutating it has no effect
// on the Manager.
type Session struct {
	Status          Status
	User            *users.User
	AccessToken     string
	RefreshToken    string
	Permissions     []string
	UserType        users.UserType
	IsAuthenticated bool
	IsLoading       bool
	LastError       string
}

// HasPermission is false for every name while unauthenticated.
func (s Session) HasPermission(name string) bool {
	if !s.IsAuthenticated {
		return false
	}
	return slices.Contains(s.Permissions, name)
}

func anonymous() Session {
	return Session{Status: StatusAnonymous, Permissions: []string{}}
}

func (s Session) clone() Session {
	cp := s
	cp.Permissions = slices.Clone(s.Permissions)
	if cp.Permissions == nil {
		cp.Permissions = []string{}
	}
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	return cp
}
