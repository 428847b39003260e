package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomall/client/gateway"
	"gomall/internal/config"
	"gomall/internal/models"
)

func newTestStore(t *testing.T, responses map[string]string) *Store {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := responses[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false,"message":"not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	gw := gateway.New(config.ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, zerolog.Nop())
	return New(gw, zerolog.Nop())
}

const userList = `{"success":true,"data":{"users":[
	{"id":"u1","username":"alice","role":"USER","status":"ACTIVE"},
	{"id":"u2","username":"bob","role":"ADMIN","status":"ACTIVE"}
],"total":2}}`

func TestListUsers(t *testing.T) {
	store := newTestStore(t, map[string]string{"GET /admin/user/list": userList})

	require.True(t, store.ListUsers(context.Background(), UserFilter{}).Success)

	assert.Len(t, store.Users(), 2)
	assert.Equal(t, 2, store.Total())
}

func TestSetUserRoleWritesListAndDetail(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/user/list":      userList,
		"GET /admin/user/detail/u1": `{"success":true,"data":{"id":"u1","username":"alice","role":"USER","status":"ACTIVE"}}`,
		"PUT /admin/user/role/u1":   `{"success":true}`,
	})
	require.True(t, store.ListUsers(context.Background(), UserFilter{}).Success)
	require.True(t, store.UserDetail(context.Background(), "u1").Success)

	require.True(t, store.SetUserRole(context.Background(), "u1", models.UserRoleAdmin).Success)

	assert.Equal(t, models.UserRoleAdmin, store.Users()[0].Role)
	current, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, models.UserRoleAdmin, current.Role)
}

func TestSetUserStatusWritesListAndDetail(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/user/list":      userList,
		"GET /admin/user/detail/u2": `{"success":true,"data":{"id":"u2","username":"bob","role":"ADMIN","status":"ACTIVE"}}`,
		"PUT /admin/user/status/u2": `{"success":true}`,
	})
	require.True(t, store.ListUsers(context.Background(), UserFilter{}).Success)
	require.True(t, store.UserDetail(context.Background(), "u2").Success)

	require.True(t, store.SetUserStatus(context.Background(), "u2", models.UserStatusDisabled).Success)

	assert.Equal(t, models.UserStatusDisabled, store.Users()[1].Status)
	current, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, models.UserStatusDisabled, current.Status)
}

func TestSetUserRoleWithoutOpenDetail(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/user/list":    userList,
		"PUT /admin/user/role/u1": `{"success":true}`,
	})
	require.True(t, store.ListUsers(context.Background(), UserFilter{}).Success)

	require.True(t, store.SetUserRole(context.Background(), "u1", models.UserRoleAdmin).Success)

	assert.Equal(t, models.UserRoleAdmin, store.Users()[0].Role)
	_, ok := store.CurrentUser()
	assert.False(t, ok)
}

func TestSetUserRoleFailureLeavesStateUntouched(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/user/list":    userList,
		"PUT /admin/user/role/u1": `{"success":false,"message":"cannot demote last admin"}`,
	})
	require.True(t, store.ListUsers(context.Background(), UserFilter{}).Success)

	result := store.SetUserRole(context.Background(), "u1", models.UserRoleAdmin)
	assert.False(t, result.Success)
	assert.Equal(t, "cannot demote last admin", result.Message)
	assert.Equal(t, models.UserRoleUser, store.Users()[0].Role)
}

func TestLoadStatistics(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/statistics/system":            `{"success":true,"data":{"userCount":10,"productCount":5,"orderCount":7,"pendingCount":2}}`,
		"GET /admin/statistics/sales":             `{"success":true,"data":{"totalSales":1234.56,"todaySales":99.90,"totalOrders":7,"todayOrders":1,"refundedTotal":10.00}}`,
		"GET /admin/statistics/productRanking":    `{"success":true,"data":[{"productId":"p1","productName":"Mug","sales":30,"revenue":599.70}]}`,
		"GET /admin/statistics/userRegistrations": `{"success":true,"data":[{"date":"2024-01-01","count":3}]}`,
	})

	ctx := context.Background()
	require.True(t, store.LoadSystemStats(ctx).Success)
	require.True(t, store.LoadSalesStats(ctx).Success)
	require.True(t, store.LoadProductRanking(ctx).Success)
	require.True(t, store.LoadUserRegistrations(ctx).Success)

	system, ok := store.SystemStats()
	require.True(t, ok)
	assert.Equal(t, 10, system.UserCount)

	sales, ok := store.SalesStats()
	require.True(t, ok)
	assert.Equal(t, 1234.56, sales.TotalSales)

	ranking := store.ProductRanking()
	require.Len(t, ranking, 1)
	assert.Equal(t, "Mug", ranking[0].ProductName)

	points := store.UserRegistrations()
	require.Len(t, points, 1)
	assert.Equal(t, 3, points[0].Count)
}

func TestResetDropsState(t *testing.T) {
	store := newTestStore(t, map[string]string{"GET /admin/user/list": userList})
	require.True(t, store.ListUsers(context.Background(), UserFilter{}).Success)

	store.Reset()

	assert.Empty(t, store.Users())
	assert.Equal(t, 0, store.Total())
	_, ok := store.SystemStats()
	assert.False(t, ok)
}
