package refresh_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/internal/config"
	"github.com/jrsteele09/go-admin-console/internal/errors"
	"github.com/jrsteele09/go-admin-console/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-admin-console/token/refresh/repofake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) (*refresh.Manager, *refreshrepofake.FakeRefreshTokenRepo) {
	t.Helper()
	repo := refreshrepofake.NewFakeRefreshTokenRepo()
	return refresh.NewManager(repo, config.MockAPI{RefreshTokenExpiry: time.Hour}), repo
}

func TestCreateReplacesPreviousToken(t *testing.T) {
	m, repo := setupManager(t)

	first, err := m.Create(1)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := m.Create(1)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 1, repo.Len())

	_, _, err = m.Rotate(first)
	assert.True(t, errors.Is(err, errors.ErrInvalidRefreshToken))
}

func TestRotateIsSingleUse(t *testing.T) {
	m, _ := setupManager(t)

	issued, err := m.Create(7)
	require.NoError(t, err)

	next, userID, err := m.Rotate(issued)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
	assert.NotEqual(t, issued, next)

	_, _, err = m.Rotate(issued)
	assert.True(t, errors.Is(err, errors.ErrInvalidRefreshToken))
}

func TestRotateExpired(t *testing.T) {
	m, repo := setupManager(t)
	issued, err := m.Create(3)
	require.NoError(t, err)

	refresh.NowTimeFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	t.Cleanup(func() { refresh.NowTimeFunc = time.Now })

	_, _, err = m.Rotate(issued)
	assert.True(t, errors.Is(err, errors.ErrRefreshTokenExpired))
	assert.Equal(t, 0, repo.Len())
}

func TestRevoke(t *testing.T) {
	m, repo := setupManager(t)
	_, err := m.Create(2)
	require.NoError(t, err)

	require.NoError(t, m.Revoke(2))
	assert.Equal(t, 0, repo.Len())
	require.NoError(t, m.Revoke(2))
}
