package kvtest

import (
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/users"
	"golang.org/x/oauth2"
)

// SampleRecord is an authenticated admin session.
func SampleRecord() tokenstore.Record {
	return tokenstore.Record{
		Token: &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1", TokenType: "Bearer"},
		User: &users.User{
			ID:       1,
			Name:     "Admin",
			Email:    "admin@example.com",
			IsActive: true,
			Role:     users.Role{ID: 2, Name: "Admin", Slug: "admin"},
		},
		Permissions: []string{users.PermViewDashboard, users.PermManageCategories},
		UserType:    users.TypeAdmin,
	}
}
