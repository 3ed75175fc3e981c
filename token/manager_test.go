package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount() *users.Account {
	return &users.Account{
		User: users.User{
			ID:    42,
			Email: "admin@example.com",
			Role: users.Role{Permissions: []users.Permission{
				{Name: users.PermViewDashboard},
			}},
		},
		UserType: users.TypeAdmin,
	}
}

func TestIssueAndValidate(t *testing.T) {
	m := token.New(token.NewHMACSigner("secret"), token.WithAccessTokenExpiry(time.Minute))

	raw, exp, err := m.Issue(testAccount())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 2*time.Second)

	claims, err := m.Validate(raw)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, users.TypeAdmin, claims.UserType)
	assert.Equal(t, []string{users.PermViewDashboard}, claims.Permissions)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateRejects(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := token.New(token.NewHMACSigner("secret"), token.WithNowFunc(clock))
	raw, _, err := m.Issue(testAccount())
	require.NoError(t, err)

	other := token.New(token.NewHMACSigner("other"))
	_, err = other.Validate(raw)
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))

	_, err = m.Validate("")
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))

	now = now.Add(time.Hour)
	_, err = m.Validate(raw)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}

func TestRevoke(t *testing.T) {
	m := token.New(token.NewHMACSigner("secret"))
	raw, _, err := m.Issue(testAccount())
	require.NoError(t, err)

	require.NoError(t, m.Revoke(raw))
	_, err = m.Validate(raw)
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))

	require.NoError(t, m.Revoke("garbage"))
}

func TestRevokeUserCutsOffEarlierTokens(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m := token.New(token.NewHMACSigner("secret"), token.WithNowFunc(func() time.Time { return now }))
	acc := testAccount()

	before, _, err := m.Issue(acc)
	require.NoError(t, err)
	m.RevokeUser(acc.ID)

	_, err = m.Validate(before)
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))

	now = now.Add(time.Second)
	after, _, err := m.Issue(acc)
	require.NoError(t, err)
	_, err = m.Validate(after)
	assert.NoError(t, err)
}

func TestRevocationListPrunes(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	l := token.NewRevocationList(15 * time.Minute)

	l.RevokeToken("jti-1", now.Add(5*time.Minute))
	l.RevokeUser(7, now)
	assert.True(t, l.IsRevoked("jti-1", 1, now))
	assert.True(t, l.IsRevoked("other", 7, now.Add(-time.Minute)))
	assert.False(t, l.IsRevoked("other", 7, now.Add(time.Second)))
	assert.False(t, l.IsRevoked("", 1, now))

	l.Prune(now.Add(10 * time.Minute))
	assert.Equal(t, 1, l.Len())
	l.Prune(now.Add(16 * time.Minute))
	assert.Zero(t, l.Len())
}

func TestInspectSkipsVerification(t *testing.T) {
	m := token.New(token.NewHMACSigner("secret"))
	raw, exp, err := m.Issue(testAccount())
	require.NoError(t, err)

	claims, err := token.Inspect(raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())

	_, err = token.Inspect("not-a-jwt")
	assert.Error(t, err)
}
