package catalog

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

const productPage = `{"success":true,"data":{"products":[
	{"id":"p1","name":"Mug","price":19.99,"status":"ON_SALE"},
	{"id":"p2","name":"Shirt","price":45.50,"status":"ON_SALE"}
],"total":12}}`

func TestListReplacesPageWholesale(t *testing.T) {
	store := newTestStore(t, map[string]string{"GET /product/list": productPage})

	require.True(t, store.List(context.Background(), 2, 10).Success)

	assert.Len(t, store.Products(), 2)
	assert.Equal(t, 12, store.Total())
	assert.Equal(t, 2, store.CurrentPage())
}

func TestDetailSetsCurrentProduct(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/detail/p1": `{"success":true,"data":{"id":"p1","name":"Mug","price":19.99,"status":"ON_SALE"}}`,
	})

	require.True(t, store.Detail(context.Background(), "p1").Success)

	product, ok := store.CurrentProduct()
	require.True(t, ok)
	assert.Equal(t, "Mug", product.Name)
}

func TestListCategories(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /category/list": `{"success":true,"data":[{"id":"c1","name":"Drinkware","sort":1}]}`,
	})

	require.True(t, store.ListCategories(context.Background()).Success)
	require.Len(t, store.Categories(), 1)
	assert.Equal(t, "Drinkware", store.Categories()[0].Name)
}

func TestAddProductPrependsAndBumpsTotal(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/list":       productPage,
		"POST /admin/product/add": `{"success":true,"data":{"id":"p3","name":"Cap","price":12.00,"status":"ON_SALE"}}`,
	})
	require.True(t, store.List(context.Background(), 1, 10).Success)

	require.True(t, store.AddProduct(context.Background(), ProductInput{Name: "Cap", Price: 12.00}).Success)

	products := store.Products()
	require.Len(t, products, 3)
	assert.Equal(t, "p3", products[0].ID, "new product is prepended")
	assert.Equal(t, 13, store.Total())
}

func TestUpdateProductReplacesListEntryAndDetail(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/list":            productPage,
		"GET /product/detail/p1":       `{"success":true,"data":{"id":"p1","name":"Mug","price":19.99,"status":"ON_SALE"}}`,
		"PUT /admin/product/update/p1": `{"success":true,"data":{"id":"p1","name":"Big Mug","price":24.99,"status":"ON_SALE"}}`,
	})
	require.True(t, store.List(context.Background(), 1, 10).Success)
	require.True(t, store.Detail(context.Background(), "p1").Success)

	require.True(t, store.UpdateProduct(context.Background(), "p1", ProductInput{Name: "Big Mug", Price: 24.99}).Success)

	assert.Equal(t, "Big Mug", store.Products()[0].Name)
	current, ok := store.CurrentProduct()
	require.True(t, ok)
	assert.Equal(t, 24.99, current.Price)
}

func TestUpdateProductStatus(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/list":            productPage,
		"PUT /admin/product/status/p2": `{"success":true}`,
	})
	require.True(t, store.List(context.Background(), 1, 10).Success)

	require.True(t, store.UpdateProductStatus(context.Background(), "p2", models.ProductStatusOffSale).Success)

	assert.Equal(t, models.ProductStatusOffSale, store.Products()[1].Status)
}

func TestDeleteProductRemovesAndDecrementsTotal(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/list":               productPage,
		"GET /product/detail/p1":          `{"success":true,"data":{"id":"p1","name":"Mug","price":19.99,"status":"ON_SALE"}}`,
		"DELETE /admin/product/delete/p1": `{"success":true}`,
	})
	require.True(t, store.List(context.Background(), 1, 10).Success)
	require.True(t, store.Detail(context.Background(), "p1").Success)

	require.True(t, store.DeleteProduct(context.Background(), "p1").Success)

	assert.Len(t, store.Products(), 1)
	assert.Equal(t, 11, store.Total())
	_, ok := store.CurrentProduct()
	assert.False(t, ok, "deleting the open product clears the detail view")
}

func TestSearchLeavesBrowsedPageIntact(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/list":   productPage,
		"GET /product/search": `{"success":true,"data":{"products":[
			{"id":"p1","name":"Mug","price":19.99,"status":"ON_SALE"}
		],"total":1}}`,
	})
	require.True(t, store.List(context.Background(), 1, 10).Success)

	require.True(t, store.Search(context.Background(), "mug", 1, 10).Success)

	assert.Len(t, store.Products(), 2, "browsed page must survive a search")
	results := store.SearchResults()
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].ID)
	assert.Equal(t, 1, store.Total())
}

func TestSearchFailureLeavesPageUntouched(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"GET /product/list":   productPage,
		"GET /product/search": `{"success":false,"message":"keyword required"}`,
	})
	require.True(t, store.List(context.Background(), 1, 10).Success)

	result := store.Search(context.Background(), "", 1, 10)
	assert.False(t, result.Success)
	assert.Equal(t, "keyword required", result.Message)
	assert.Len(t, store.Products(), 2)
	assert.Empty(t, store.SearchResults())
	assert.Equal(t, 12, store.Total())
}

func TestResetDropsState(t *testing.T) {
	store := newTestStore(t, map[string]string{"GET /product/list": productPage})
	require.True(t, store.List(context.Background(), 1, 10).Success)

	store.Reset()

	assert.Empty(t, store.Products())
	assert.Empty(t, store.SearchResults())
	assert.Equal(t, 0, store.Total())
	assert.Equal(t, 1, store.CurrentPage())
}
