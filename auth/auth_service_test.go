package auth_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/auth"
	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-admin-console/token/refresh/repofake"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/jrsteele09/go-admin-console/users/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Password123"

type fixture struct {
	service  *auth.Service
	users    *repofake.FakeUserRepo
	tokens   *token.Manager
	refresh  *refreshrepofake.FakeRefreshTokenRepo
	now      time.Time
	admin    *users.Account
	inactive *users.Account
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   repofake.NewFakeUserRepo(),
		refresh: refreshrepofake.NewFakeRefreshTokenRepo(),
		now:     time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	roles := repofake.NewFakeRoleRepo(users.Role{
		ID:          1,
		Name:        "Admin",
		Permissions: []users.Permission{{ID: 1, Name: users.PermViewDashboard}},
	})

	hash, err := users.HashPassword(password)
	require.NoError(t, err)
	f.admin = &users.Account{User: users.User{Email: "admin@example.com", RoleID: 1, IsActive: true}, PasswordHash: hash, UserType: users.TypeAdmin}
	f.inactive = &users.Account{User: users.User{Email: "gone@example.com", RoleID: 1}, PasswordHash: hash, UserType: users.TypeAdmin}
	require.NoError(t, f.users.Upsert(f.admin))
	require.NoError(t, f.users.Upsert(f.inactive))

	clock := func() time.Time { return f.now }
	f.tokens = token.New(token.NewHMACSigner("test-secret"), token.WithNowFunc(clock))
	f.service, err = auth.NewService(auth.Repos{Users: f.users, Roles: roles}, f.tokens,
		refresh.NewManager(f.refresh, config.MockAPI{RefreshTokenExpiry: time.Hour}), auth.WithNowTime(clock))
	require.NoError(t, err)
	return f
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := auth.NewService(auth.Repos{}, nil, nil)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	f := setupService(t)

	grant, err := f.service.Login(" admin@example.com ", password, users.TypeAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, grant.AccessToken)
	assert.NotEmpty(t, grant.RefreshToken)
	assert.Equal(t, 15*60, grant.ExpiresIn)
	assert.Equal(t, []string{users.PermViewDashboard}, grant.Account.Role.PermissionNames())
	require.NotNil(t, grant.Account.LastLoginAt)
	assert.Equal(t, f.now, *grant.Account.LastLoginAt)
	assert.Equal(t, 1, f.refresh.Len())

	claims, err := f.tokens.Validate(grant.AccessToken)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, id)
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		userType users.UserType
		expected error
	}{
		{"unknown email", "nobody@example.com", password, "", errors.ErrInvalidCredentials},
		{"wrong password", "admin@example.com", "nope", "", errors.ErrInvalidCredentials},
		{"wrong password hides type", "admin@example.com", "nope", users.TypeSuperAdmin, errors.ErrInvalidCredentials},
		{"inactive", "gone@example.com", password, "", errors.ErrUserInactive},
		{"wrong portal", "admin@example.com", password, users.TypeSuperAdmin, errors.ErrWrongUserType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupService(t)
			_, err := f.service.Login(tt.email, tt.password, tt.userType)
			assert.ErrorIs(t, err, tt.expected)
			assert.Zero(t, f.refresh.Len())
		})
	}
}

func TestRefreshRotates(t *testing.T) {
	f := setupService(t)
	first, err := f.service.Login("admin@example.com", password, "")
	require.NoError(t, err)

	f.now = f.now.Add(time.Minute)
	second, err := f.service.Refresh(first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	_, err = f.service.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)

	_, err = f.service.Refresh("  ")
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestRefreshDropsDeactivatedAccounts(t *testing.T) {
	f := setupService(t)
	grant, err := f.service.Login("admin@example.com", password, "")
	require.NoError(t, err)

	f.admin.IsActive = false
	require.NoError(t, f.users.Upsert(f.admin))

	_, err = f.service.Refresh(grant.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	assert.Zero(t, f.refresh.Len())
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	f := setupService(t)
	grant, err := f.service.Login("admin@example.com", password, "")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(grant.AccessToken, f.admin.ID))

	_, err = f.tokens.Validate(grant.AccessToken)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
	_, err = f.service.Refresh(grant.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)

	// a second logout with the same token is harmless
	assert.NoError(t, f.service.Logout(grant.AccessToken, 0))
}

func TestRevokeUserEndsEverySession(t *testing.T) {
	f := setupService(t)
	grant, err := f.service.Login("admin@example.com", password, "")
	require.NoError(t, err)

	require.NoError(t, f.service.RevokeUser(f.admin.ID))

	_, err = f.tokens.Validate(grant.AccessToken)
	assert.ErrorIs(t, err, errors.ErrInvalidToken)
	_, err = f.service.Refresh(grant.RefreshToken)
	assert.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestAccountLoadsRole(t *testing.T) {
	f := setupService(t)

	acc, err := f.service.Account(f.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", acc.Role.Name)

	_, err = f.service.Account(999)
	assert.Error(t, err)
}
