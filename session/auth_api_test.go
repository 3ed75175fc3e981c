package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/jrsteele09/go-admin-console/session"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHTTPAuth(t *testing.T, mux *http.ServeMux) (*session.HTTPAuthAPI, *notify.Recorder) {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	notes := &notify.Recorder{}
	gw := gateway.New(srv.URL, tokenstore.New(tokenstore.NewMemoryKV()),
		gateway.WithHTTPClient(srv.Client()),
		gateway.WithNotifier(notes),
	)
	return session.NewHTTPAuthAPI(gw), notes
}

func TestHTTPAuthAPILoginUnwrapsEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "superadmin", creds["user_type"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]any{
				"user":          map[string]any{"id": 9, "email": "root@example.com", "role": map[string]any{"permissions": []map[string]any{{"name": "manage_users"}}}},
				"access_token":  "a",
				"refresh_token": "r",
				"user_type":     "superadmin",
				"expires_at":    "2026-10-16T12:00:00Z",
			},
		})
	})
	api, _ := setupHTTPAuth(t, mux)

	res, err := api.Login(context.Background(), users.Credentials{Email: "root@example.com", Password: "x", UserType: users.TypeSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, "a", res.AccessToken)
	assert.Equal(t, "r", res.RefreshToken)
	assert.Equal(t, users.TypeSuperAdmin, res.UserType)
	assert.Equal(t, []string{users.PermManageUsers}, res.Permissions)
	require.NotNil(t, res.ExpiresAt)
}

func TestHTTPAuthAPILogoutIsSilent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	api, notes := setupHTTPAuth(t, mux)

	err := api.Logout(context.Background())
	assert.Equal(t, gateway.KindServer, gateway.KindOf(err))
	assert.Empty(t, notes.All())
}

func TestHTTPAuthAPIMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": 3, "name": "Ada"}})
	})
	api, _ := setupHTTPAuth(t, mux)

	u, err := api.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "Ada", u.Name)
}
