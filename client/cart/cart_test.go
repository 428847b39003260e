package cart

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
)

// stubServer maps "METHOD /path" to a canned envelope body.
func stubServer(t *testing.T, responses map[string]string) *Store {
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

const twoLineCart = `{"success":true,"data":[
	{"id":"line-1","product":{"id":"p1","name":"Mug","price":19.99,"imageUrl":""},"quantity":2,"selected":true},
	{"id":"line-2","product":{"id":"p2","name":"Shirt","price":45.50,"imageUrl":""},"quantity":1,"selected":false}
]}`

func loadedStore(t *testing.T, extra map[string]string) *Store {
	t.Helper()
	responses := map[string]string{"GET /cart/list": twoLineCart}
	for k, v := range extra {
		responses[k] = v
	}
	store := stubServer(t, responses)
	require.True(t, store.List(context.Background()).Success)
	return store
}

func TestListRecomputesAggregates(t *testing.T) {
	store := loadedStore(t, nil)

	// only line-1 is selected: 2 * 19.99
	assert.Equal(t, 39.98, store.TotalPrice())
	assert.Equal(t, 2, store.SelectedCount())
	assert.Len(t, store.Items(), 2)
}

func TestAddMergesByProductID(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"POST /cart/add": `{"success":true,"data":{"id":"line-1","product":{"id":"p1","name":"Mug","price":19.99,"imageUrl":""},"quantity":5,"selected":true}}`,
	})

	result := store.Add(context.Background(), "p1", 3)
	require.True(t, result.Success)

	items := store.Items()
	require.Len(t, items, 2, "merged line must replace, not append")
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 99.95, store.TotalPrice())
	assert.Equal(t, 5, store.SelectedCount())
}

func TestAddNewProductAppends(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"POST /cart/add": `{"success":true,"data":{"id":"line-3","product":{"id":"p3","name":"Cap","price":12.00,"imageUrl":""},"quantity":1,"selected":true}}`,
	})

	require.True(t, store.Add(context.Background(), "p3", 1).Success)
	assert.Len(t, store.Items(), 3)
	assert.Equal(t, 51.98, store.TotalPrice())
	assert.Equal(t, 3, store.SelectedCount())
}

func TestUpdateQuantityRecomputes(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"PUT /cart/update/line-1": `{"success":true}`,
	})

	require.True(t, store.UpdateQuantity(context.Background(), "line-1", 4).Success)
	assert.Equal(t, 79.96, store.TotalPrice())
	assert.Equal(t, 4, store.SelectedCount())
}

func TestUpdateQuantityRejectsZeroLocally(t *testing.T) {
	store := loadedStore(t, nil)

	result := store.UpdateQuantity(context.Background(), "line-1", 0)
	assert.False(t, result.Success)
	assert.Equal(t, 2, store.Items()[0].Quantity)
}

func TestServerFailureLeavesStateUntouched(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"PUT /cart/update/line-1": `{"success":false,"message":"stock insufficient"}`,
	})

	result := store.UpdateQuantity(context.Background(), "line-1", 99)
	assert.False(t, result.Success)
	assert.Equal(t, "stock insufficient", result.Message)
	assert.Equal(t, 2, store.Items()[0].Quantity)
	assert.Equal(t, 39.98, store.TotalPrice())
}

func TestToggleSelectRoundTripRestoresAggregates(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"PUT /cart/select/line-2": `{"success":true}`,
	})

	require.True(t, store.ToggleSelect(context.Background(), "line-2").Success)
	assert.Equal(t, 85.48, store.TotalPrice())
	assert.Equal(t, 3, store.SelectedCount())

	require.True(t, store.ToggleSelect(context.Background(), "line-2").Success)
	assert.Equal(t, 39.98, store.TotalPrice())
	assert.Equal(t, 2, store.SelectedCount())
}

func TestToggleSelectUnknownLine(t *testing.T) {
	store := loadedStore(t, nil)

	result := store.ToggleSelect(context.Background(), "line-99")
	assert.False(t, result.Success)
}

func TestToggleAllSelect(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"PUT /cart/selectAll": `{"success":true}`,
	})

	require.True(t, store.ToggleAllSelect(context.Background(), true).Success)
	assert.Equal(t, 85.48, store.TotalPrice())
	assert.Equal(t, 3, store.SelectedCount())

	require.True(t, store.ToggleAllSelect(context.Background(), false).Success)
	assert.Equal(t, 0.0, store.TotalPrice())
	assert.Equal(t, 0, store.SelectedCount())
}

func TestDeleteRemovesLine(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"DELETE /cart/delete/line-1": `{"success":true}`,
	})

	require.True(t, store.Delete(context.Background(), "line-1").Success)
	assert.Len(t, store.Items(), 1)
	assert.Equal(t, 0.0, store.TotalPrice())
	assert.Equal(t, 0, store.SelectedCount())
}

func TestDeleteMissingLineIsNoOp(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"DELETE /cart/delete/line-99": `{"success":true}`,
	})

	require.True(t, store.Delete(context.Background(), "line-99").Success)
	assert.Len(t, store.Items(), 2)
	assert.Equal(t, 39.98, store.TotalPrice())
}

func TestClearEmptiesCart(t *testing.T) {
	store := loadedStore(t, map[string]string{
		"DELETE /cart/clear": `{"success":true}`,
	})

	require.True(t, store.Clear(context.Background()).Success)
	assert.Empty(t, store.Items())
	assert.Equal(t, 0.0, store.TotalPrice())
	assert.Equal(t, 0, store.SelectedCount())
}

func TestResetDropsState(t *testing.T) {
	store := loadedStore(t, nil)

	store.Reset()
	assert.Empty(t, store.Items())
	assert.Equal(t, 0.0, store.TotalPrice())
	assert.Equal(t, 0, store.SelectedCount())
}

func TestTotalPriceRoundsToTwoDecimals(t *testing.T) {
	store := stubServer(t, map[string]string{
		"GET /cart/list": `{"success":true,"data":[
			{"id":"line-1","product":{"id":"p1","name":"Widget","price":0.1,"imageUrl":""},"quantity":3,"selected":true}
		]}`,
	})

	require.True(t, store.List(context.Background()).Success)
	assert.Equal(t, 0.3, store.TotalPrice())
}
