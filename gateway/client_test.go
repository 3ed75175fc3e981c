package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-admin-console/gateway"
	"github.com/jrsteele09/go-admin-console/nav"
	"github.com/jrsteele09/go-admin-console/notify"
	"github.com/jrsteele09/go-admin-console/tokenstore"
	"github.com/jrsteele09/go-admin-console/tokenstore/kvfake"
	"github.com/jrsteele09/go-admin-console/tokenstore/kvtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fixture struct {
	client   *gateway.Client
	store    *tokenstore.Store
	kv       *kvfake.FakeKV
	notes    *notify.Recorder
	history  *nav.History
	server   *httptest.Server
	expiries atomic.Int32
}

func setup(t *testing.T, handler http.Handler, access, refresh string) *fixture {
	t.Helper()
	f := &fixture{
		kv:      kvfake.New(),
		notes:   &notify.Recorder{},
		history: nav.NewHistory(nav.RouteCategories),
		server:  httptest.NewServer(handler),
	}
	t.Cleanup(f.server.Close)

	f.store = tokenstore.New(f.kv)
	if access != "" {
		rec := kvtest.SampleRecord()
		rec.Token = &oauth2.Token{AccessToken: access, RefreshToken: refresh}
		require.NoError(t, f.store.Save(context.Background(), rec))
	}
	f.client = gateway.New(f.server.URL+"/api", f.store,
		gateway.WithHTTPClient(f.server.Client()),
		gateway.WithNotifier(f.notes),
		gateway.WithNavigator(f.history),
	)
	f.client.OnAuthExpired(func() { f.expiries.Add(1) })
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGetAttachesBearerAndDecodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer old", r.Header.Get("Authorization"))
		assert.Equal(t, "shoe", r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []string{"a"}})
	})
	f := setup(t, mux, "old", "refresh-1")

	var out struct {
		Data []string `json:"data"`
	}
	err := f.client.Get(context.Background(), "/products", url.Values{"search": {"shoe"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Data)
	assert.Empty(t, f.notes.All())
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	})
	f := setup(t, mux, "", "")
	require.NoError(t, f.client.Post(context.Background(), "/auth/login", map[string]string{"email": "a"}, nil))
}

func TestValidationNotifiesEveryMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors": map[string][]string{
				"slug": {"The slug has already been taken."},
				"name": {"The name field is required.", "The name must be a string."},
			},
		})
	})
	f := setup(t, mux, "old", "refresh-1")

	err := f.client.Post(context.Background(), "/admin/categories", map[string]string{}, nil)
	require.Error(t, err)
	assert.Equal(t, gateway.KindValidation, gateway.KindOf(err))
	assert.Len(t, gateway.FieldErrors(err)["name"], 2)
	assert.Equal(t, []string{
		"The name field is required.",
		"The name must be a string.",
		"The slug has already been taken.",
	}, f.notes.Messages())
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		kind    gateway.Kind
		message string
	}{
		{"forbidden", http.StatusForbidden, map[string]string{"message": "nope"}, gateway.KindPermissionDenied, gateway.MsgPermissionDenied},
		{"server", http.StatusBadGateway, nil, gateway.KindServer, gateway.MsgServerError},
		{"client with message", http.StatusNotFound, map[string]string{"message": "Category not found"}, gateway.KindClient, "Category not found"},
		{"client fallback", http.StatusConflict, nil, gateway.KindClient, gateway.MsgGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("GET /api/thing", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			f := setup(t, mux, "old", "refresh-1")

			err := f.client.Get(context.Background(), "/thing", nil, nil)
			require.Error(t, err)
			assert.Equal(t, tt.kind, gateway.KindOf(err))
			assert.Equal(t, tt.message, gateway.Message(err))
			assert.Equal(t, []string{tt.message}, f.notes.Messages())
			assert.Equal(t, "old", f.store.AccessToken(context.Background()))
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	f := setup(t, http.NewServeMux(), "old", "refresh-1")
	f.server.Close()

	err := f.client.Get(context.Background(), "/products", nil, nil)
	require.Error(t, err)
	assert.Equal(t, gateway.KindNetwork, gateway.KindOf(err))
	assert.Equal(t, 1, f.notes.Count(gateway.MsgNetworkError))
}

func TestRefreshThenRetryIsTransparent(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"name": "Admin"})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh_token"])
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "new"})
	})
	f := setup(t, mux, "old", "refresh-1")

	var out map[string]string
	require.NoError(t, f.client.Get(context.Background(), "/auth/me", nil, &out))
	assert.Equal(t, "Admin", out["name"])
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, "new", f.store.AccessToken(context.Background()))
	assert.Equal(t, "refresh-1", f.store.RefreshToken(context.Background()))
	assert.Empty(t, f.notes.All())
}

func TestRefreshListenersSeeRotatedTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new" {
			writeJSON(w, http.StatusUnauthorized, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"access_token": "new", "refresh_token": "refresh-2"}})
	})
	f := setup(t, mux, "old", "refresh-1")

	var got [][2]string
	f.client.OnTokensRefreshed(func(access, refresh string) {
		got = append(got, [2]string{access, refresh})
	})

	require.NoError(t, f.client.Get(context.Background(), "/auth/me", nil, nil))
	assert.Equal(t, [][2]string{{"new", "refresh-2"}}, got)
	assert.Equal(t, "refresh-2", f.store.RefreshToken(context.Background()))
}

func TestRefreshReplaysBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/products/1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Boots", body["name"])
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, body)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"access_token": "new", "refresh_token": "refresh-2"}})
	})
	f := setup(t, mux, "old", "refresh-1")

	var out map[string]string
	require.NoError(t, f.client.Put(context.Background(), "/products/1", map[string]string{"name": "Boots"}, &out))
	assert.Equal(t, "Boots", out["name"])
	assert.Equal(t, "refresh-2", f.store.RefreshToken(context.Background()))
}

func TestConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const callers = 8
	var refreshCalls atomic.Int32
	var arrivals sync.WaitGroup
	arrivals.Add(callers)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer new" {
			writeJSON(w, http.StatusOK, map[string]int{"total": 3})
			return
		}
		arrivals.Done()
		arrivals.Wait()
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		time.Sleep(20 * time.Millisecond)
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "new"})
	})
	f := setup(t, mux, "old", "refresh-1")

	var wg sync.WaitGroup
	errs := make([]error, callers)
	totals := make([]int, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out map[string]int
			errs[i] = f.client.Get(context.Background(), "/admin/categories", nil, &out)
			totals[i] = out["total"]
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), refreshCalls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 3, totals[i])
	}
	assert.Empty(t, f.notes.All())
}

func TestFailedRefreshExpiresSessionOnce(t *testing.T) {
	const callers = 6
	var refreshCalls atomic.Int32
	var arrivals sync.WaitGroup
	arrivals.Add(callers)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		arrivals.Done()
		arrivals.Wait()
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid refresh token"})
	})
	f := setup(t, mux, "old", "refresh-1")

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.client.Get(context.Background(), "/products", nil, nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.True(t, gateway.IsAuthExpired(err))
	}
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, 1, f.notes.Count(gateway.MsgSessionExpired))
	assert.Len(t, f.notes.All(), 1)
	assert.Equal(t, nav.RouteAdminLogin, f.history.Current())
	assert.Empty(t, f.kv.Snapshot())
	assert.Equal(t, int32(1), f.expiries.Load())
}

func TestMissingRefreshTokenExpiresWithUnauthorizedMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		t.Error("refresh must not be called without a refresh token")
	})
	f := setup(t, mux, "old", "")

	err := f.client.Get(context.Background(), "/products", nil, nil)
	assert.True(t, gateway.IsAuthExpired(err))
	assert.Equal(t, []string{gateway.MsgUnauthorized}, f.notes.Messages())
	assert.Equal(t, nav.RouteAdminLogin, f.history.Current())
	assert.Empty(t, f.kv.Snapshot())
}

func TestRejectedReplayEndsSession(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "new"})
	})
	f := setup(t, mux, "old", "refresh-1")

	err := f.client.Get(context.Background(), "/products", nil, nil)
	assert.True(t, gateway.IsAuthExpired(err))
	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, 1, f.notes.Count(gateway.MsgSessionExpired))
	assert.Empty(t, f.kv.Snapshot())
}

func TestSkipAuthRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		t.Error("login failures must not refresh")
	})
	f := setup(t, mux, "old", "refresh-1")

	err := f.client.Do(context.Background(), gateway.Request{Method: http.MethodPost, Path: "/auth/login", SkipAuthRefresh: true}, nil)
	require.Error(t, err)
	assert.Equal(t, gateway.KindClient, gateway.KindOf(err))
	assert.Equal(t, "Invalid credentials", gateway.Message(err))
	assert.Equal(t, "old", f.store.AccessToken(context.Background()))
}

func TestCancelledWaiterDoesNotCancelRefresh(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "new"})
	})
	f := setup(t, mux, "old", "refresh-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.client.Get(ctx, "/products", nil, nil)
	}()

	<-entered
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	close(release)

	require.Eventually(t, func() bool {
		return f.store.AccessToken(context.Background()) == "new"
	}, time.Second, 10*time.Millisecond)
	assert.Empty(t, f.notes.All())
}
