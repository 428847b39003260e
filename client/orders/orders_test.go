package orders

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

func TestStatusText(t *testing.T) {
	cases := []struct {
		status models.OrderStatus
		want   string
	}{
		{models.OrderStatusPending, "awaiting payment"},
		{models.OrderStatusPaid, "awaiting shipment"},
		{models.OrderStatusShipped, "awaiting receipt"},
		{models.OrderStatusCompleted, "completed"},
		{models.OrderStatusCancelled, "cancelled"},
		{models.OrderStatusRefunded, "refunded"},
		{models.OrderStatus("BOGUS"), "unknown status"},
		{models.OrderStatus(""), "unknown status"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusText(tc.status), "status %q", tc.status)
	}
}

const orderList = `{"success":true,"data":{"orders":[
	{"id":"o1","orderNo":"20240101-a","status":"PENDING","totalAmount":39.98},
	{"id":"o2","orderNo":"20240102-b","status":"PAID","totalAmount":12.00}
],"total":2}}`

func TestListAnnotatesStatusText(t *testing.T) {
	store := newTestStore(t, map[string]string{"GET /order/list": orderList})

	require.True(t, store.List(context.Background(), "", 1, 10).Success)

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "awaiting payment", orders[0].StatusText)
	assert.Equal(t, "awaiting shipment", orders[1].StatusText)
	assert.Equal(t, 2, store.Total())
}

func TestCreateSetsCurrentOrder(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"POST /order/create": `{"success":true,"data":{"id":"o9","orderNo":"20240103-c","status":"PENDING","totalAmount":19.99}}`,
	})

	require.True(t, store.Create(context.Background(), "a1").Success)

	order, ok := store.CurrentOrder()
	require.True(t, ok)
	assert.Equal(t, "o9", order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "awaiting payment", order.StatusText)
}

func TestPayTransitionTargetsPaid(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /order/list":   orderList,
		"PUT /order/pay/o1": `{"success":true}`,
	})
	require.True(t, store.List(context.Background(), "", 1, 10).Success)

	require.True(t, store.Pay(context.Background(), "o1", "alipay").Success)

	assert.Equal(t, models.OrderStatusPaid, store.Orders()[0].Status)
	assert.Equal(t, "awaiting shipment", store.Orders()[0].StatusText)
}

// A status change must land in every cached copy of the order at once.
func TestTransitionUpdatesAllThreeViews(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /order/list":       orderList,
		"GET /admin/order/list": orderList,
		"GET /order/detail/o1":  `{"success":true,"data":{"id":"o1","orderNo":"20240101-a","status":"PENDING","totalAmount":39.98}}`,
		"PUT /order/cancel/o1":  `{"success":true}`,
	})
	require.True(t, store.List(context.Background(), "", 1, 10).Success)
	require.True(t, store.AdminList(context.Background(), AdminListFilter{}).Success)
	require.True(t, store.Detail(context.Background(), "o1").Success)

	require.True(t, store.Cancel(context.Background(), "o1").Success)

	assert.Equal(t, models.OrderStatusCancelled, store.Orders()[0].Status)
	assert.Equal(t, models.OrderStatusCancelled, store.AdminOrders()[0].Status)
	current, ok := store.CurrentOrder()
	require.True(t, ok)
	assert.Equal(t, models.OrderStatusCancelled, current.Status)
	assert.Equal(t, "cancelled", current.StatusText)
}

func TestConfirmReceiptTargetsCompleted(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /order/detail/o2":  `{"success":true,"data":{"id":"o2","status":"SHIPPED"}}`,
		"PUT /order/confirm/o2": `{"success":true}`,
	})
	require.True(t, store.Detail(context.Background(), "o2").Success)

	require.True(t, store.ConfirmReceipt(context.Background(), "o2").Success)

	current, _ := store.CurrentOrder()
	assert.Equal(t, models.OrderStatusCompleted, current.Status)
}

func TestRefundTargetsRefunded(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /order/detail/o2": `{"success":true,"data":{"id":"o2","status":"PAID"}}`,
		"PUT /order/refund/o2": `{"success":true}`,
	})
	require.True(t, store.Detail(context.Background(), "o2").Success)

	require.True(t, store.Refund(context.Background(), "o2", "changed my mind").Success)

	current, _ := store.CurrentOrder()
	assert.Equal(t, models.OrderStatusRefunded, current.Status)
}

func TestFailedTransitionLeavesStatusUntouched(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /order/list":   orderList,
		"PUT /order/pay/o2": `{"success":false,"message":"order is not payable"}`,
	})
	require.True(t, store.List(context.Background(), "", 1, 10).Success)

	result := store.Pay(context.Background(), "o2", "alipay")
	assert.False(t, result.Success)
	assert.Equal(t, "order is not payable", result.Message)
	assert.Equal(t, models.OrderStatusPaid, store.Orders()[1].Status)
}

func TestAdminShipSetsStatusAndShippingInfo(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/order/list":    orderList,
		"PUT /admin/order/ship/o2": `{"success":true}`,
	})
	require.True(t, store.AdminList(context.Background(), AdminListFilter{}).Success)

	require.True(t, store.AdminShip(context.Background(), "o2", "DHL", "TRK-1").Success)

	shipped := store.AdminOrders()[1]
	assert.Equal(t, models.OrderStatusShipped, shipped.Status)
	assert.Equal(t, "DHL", shipped.Shipping.Carrier)
	assert.Equal(t, "TRK-1", shipped.Shipping.TrackingNo)
}

func TestAdminSetStatusUsesGivenTarget(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/order/list":      orderList,
		"PUT /admin/order/status/o1": `{"success":true}`,
	})
	require.True(t, store.AdminList(context.Background(), AdminListFilter{}).Success)

	require.True(t, store.AdminSetStatus(context.Background(), "o1", models.OrderStatusRefunded).Success)

	assert.Equal(t, models.OrderStatusRefunded, store.AdminOrders()[0].Status)
}

func TestLoadStatistics(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /admin/order/statistics": `{"success":true,"data":{"byStatus":{"PENDING":3,"PAID":1},"total":4}}`,
	})

	require.True(t, store.LoadStatistics(context.Background()).Success)

	stats, ok := store.Statistics()
	require.True(t, ok)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.ByStatus[models.OrderStatusPending])
}

func TestResetDropsState(t *testing.T) {
	store := newTestStore(t, map[string]string{"GET /order/list": orderList})
	require.True(t, store.List(context.Background(), "", 1, 10).Success)

	store.Reset()

	assert.Empty(t, store.Orders())
	assert.Empty(t, store.AdminOrders())
	_, ok := store.CurrentOrder()
	assert.False(t, ok)
	assert.Equal(t, 0, store.Total())
}
