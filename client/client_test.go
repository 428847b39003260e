package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomall/client/guard"
	"gomall/internal/config"
)

func newTestMall(t *testing.T, handler http.HandlerFunc, opts ...Option) *Mall {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.ClientConfig{
		BaseURL:        srv.URL,
		Timeout:        2 * time.Second,
		TokenCachePath: filepath.Join(t.TempDir(), "token.json"),
		TokenTTL:       time.Hour,
	}, zerolog.Nop(), opts...)
}

const loginOK = `{"success":true,"data":{"token":"tok-abc","userId":"u1","userName":"alice","role":"USER"}}`

func TestForcedLogoutResetsEverything(t *testing.T) {
	var navigatedTo string
	mall := newTestMall(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /user/login":
			w.Write([]byte(loginOK))
		case "GET /cart/list":
			w.Write([]byte(`{"success":true,"data":[{"id":"line-1","product":{"id":"p1","name":"Mug","price":10.00},"quantity":1,"selected":true}]}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}, WithNavigator(func(path string) { navigatedTo = path }))

	ctx := context.Background()
	require.True(t, mall.Session.Login(ctx, "alice", "secret").Success)
	require.True(t, mall.Cart.List(ctx).Success)
	require.Equal(t, 10.00, mall.Cart.TotalPrice())

	// Any 401 forces a full client reset.
	result := mall.Orders.List(ctx, "", 1, 10)
	assert.False(t, result.Success)

	assert.False(t, mall.Session.Snapshot().IsLoggedIn)
	assert.Empty(t, mall.Session.Token())
	assert.Empty(t, mall.Cart.Items())
	assert.Equal(t, 0.0, mall.Cart.TotalPrice())
	assert.Empty(t, mall.Orders.Orders())
	assert.Equal(t, guard.LoginRoute, navigatedTo)
}

func TestRequestsCarrySessionToken(t *testing.T) {
	var authHeader string
	mall := newTestMall(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /user/login":
			w.Write([]byte(loginOK))
		default:
			authHeader = r.Header.Get("Authorization")
			w.Write([]byte(`{"success":true,"data":[]}`))
		}
	})

	ctx := context.Background()
	require.True(t, mall.Session.Login(ctx, "alice", "secret").Success)
	require.True(t, mall.Cart.List(ctx).Success)
	assert.Equal(t, "Bearer tok-abc", authHeader)
}

func TestGuardUsesLiveSnapshot(t *testing.T) {
	mall := newTestMall(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginOK))
	})

	authed := guard.Route{Path: "/orders", RequiresAuth: true}
	decision := mall.Guard(authed, "/products")
	assert.False(t, decision.Allowed)
	assert.Equal(t, guard.LoginRoute, decision.RedirectTo)

	require.True(t, mall.Session.Login(context.Background(), "alice", "secret").Success)
	assert.True(t, mall.Guard(authed, "/products").Allowed)
}

func TestRestoreWithoutCachedToken(t *testing.T) {
	mall := newTestMall(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})
	assert.False(t, mall.Restore())
}
