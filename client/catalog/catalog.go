// Package catalog holds the client's view of the product listings. Every
// fetch replaces the relevant slice wholesale; the privileged mutations keep
// the cached page consistent with what the backend just acknowledged.
package catalog

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"gomall/client/gateway"
	"gomall/internal/models"
)

type Store struct {
	gw  *gateway.Client
	log zerolog.Logger

	// mu guards the fields below; the apply* mutation methods are their
	// only writers.
	mu             sync.Mutex
	products       []models.Product
	searchResults  []models.Product
	categories     []models.Category
	currentProduct *models.Product
	total          int
	currentPage    int
	loading        bool
}

func New(gw *gateway.Client, log zerolog.Logger) *Store {
	return &Store{gw: gw, log: log, currentPage: 1}
}

func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// SearchResults is kept apart from Products so running a search does not
// destroy the browsed catalog page.
func (s *Store) SearchResults() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) CurrentProduct() (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentProduct == nil {
		return models.Product{}, false
	}
	return *s.currentProduct, true
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentPage
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset drops all cached catalog state, as on forced logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.searchResults = nil
	s.categories = nil
	s.currentProduct = nil
	s.total = 0
	s.currentPage = 1
	s.loading = false
}

func (s *Store) List(ctx context.Context, page int, pageSize int) gateway.Result {
	payload, result := s.fetchPage(ctx, "/product/list", pageQuery(page, pageSize))
	if !result.Success {
		return result
	}
	s.applyPage(payload, page)
	return result
}

// Search fills the search collection; the browsed listing in Products is
// left alone. Total and the page cursor are shared with the listing.
func (s *Store) Search(ctx context.Context, keyword string, page int, pageSize int) gateway.Result {
	params := pageQuery(page, pageSize)
	params.Set("keyword", keyword)
	payload, result := s.fetchPage(ctx, "/product/search", params)
	if !result.Success {
		return result
	}
	s.applySearchResults(payload, page)
	return result
}

func (s *Store) ByCategory(ctx context.Context, categoryID string, page int, pageSize int) gateway.Result {
	payload, result := s.fetchPage(ctx, "/product/category/"+categoryID, pageQuery(page, pageSize))
	if !result.Success {
		return result
	}
	s.applyPage(payload, page)
	return result
}

func (s *Store) Detail(ctx context.Context, id string) gateway.Result {
	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, "/product/detail/"+id, nil)
	if err != nil {
		s.log.Error().Err(err).Str("product", id).Msg("product detail failed")
		return gateway.Fail("could not load product")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var product models.Product
	if err := gateway.Decode(env.Data, &product); err != nil {
		s.log.Error().Err(err).Msg("product detail payload malformed")
		return gateway.Fail("could not load product")
	}

	s.applyCurrentProduct(product)
	return gateway.OK()
}

func (s *Store) ListCategories(ctx context.Context) gateway.Result {
	env, err := s.gw.Get(ctx, "/category/list", nil)
	if err != nil {
		s.log.Error().Err(err).Msg("category list failed")
		return gateway.Fail("could not load categories")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var categories []models.Category
	if err := gateway.Decode(env.Data, &categories); err != nil {
		s.log.Error().Err(err).Msg("category list payload malformed")
		return gateway.Fail("could not load categories")
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return gateway.OK()
}

// ProductInput is the payload for the privileged add/update calls.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    string  `json:"imageUrl"`
}

// AddProduct creates a product and prepends it to the cached page so the
// caller sees the new entry without refetching.
func (s *Store) AddProduct(ctx context.Context, input ProductInput) gateway.Result {
	env, err := s.gw.Post(ctx, "/admin/product/add", input)
	if err != nil {
		s.log.Error().Err(err).Msg("product add failed")
		return gateway.Fail("could not add product")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var product models.Product
	if err := gateway.Decode(env.Data, &product); err != nil {
		s.log.Error().Err(err).Msg("product add payload malformed")
		return gateway.Fail("could not add product")
	}

	s.applyAdd(product)
	return gateway.OK()
}

func (s *Store) UpdateProduct(ctx context.Context, id string, input ProductInput) gateway.Result {
	env, err := s.gw.Put(ctx, "/admin/product/update/"+id, input)
	if err != nil {
		s.log.Error().Err(err).Str("product", id).Msg("product update failed")
		return gateway.Fail("could not update product")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var product models.Product
	if err := gateway.Decode(env.Data, &product); err != nil {
		s.log.Error().Err(err).Msg("product update payload malformed")
		return gateway.Fail("could not update product")
	}

	s.applyUpdate(product)
	return gateway.OK()
}

func (s *Store) UpdateProductStatus(ctx context.Context, id string, status models.ProductStatus) gateway.Result {
	env, err := s.gw.Put(ctx, "/admin/product/status/"+id, map[string]models.ProductStatus{
		"status": status,
	})
	if err != nil {
		s.log.Error().Err(err).Str("product", id).Msg("product status update failed")
		return gateway.Fail("could not update product status")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyStatus(id, status)
	return gateway.OK()
}

func (s *Store) DeleteProduct(ctx context.Context, id string) gateway.Result {
	env, err := s.gw.Delete(ctx, "/admin/product/delete/"+id)
	if err != nil {
		s.log.Error().Err(err).Str("product", id).Msg("product delete failed")
		return gateway.Fail("could not delete product")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyDelete(id)
	return gateway.OK()
}

func (s *Store) fetchPage(ctx context.Context, path string, params url.Values) (models.ProductPage, gateway.Result) {
	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, path, params)
	if err != nil {
		s.log.Error().Err(err).Str("path", path).Msg("product listing failed")
		return models.ProductPage{}, gateway.Fail("could not load products")
	}
	if !env.Success {
		return models.ProductPage{}, gateway.Fail(env.Message)
	}

	var payload models.ProductPage
	if err := gateway.Decode(env.Data, &payload); err != nil {
		s.log.Error().Err(err).Msg("product listing payload malformed")
		return models.ProductPage{}, gateway.Fail("could not load products")
	}
	return payload, gateway.OK()
}

func pageQuery(page int, pageSize int) url.Values {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	return params
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Store) applyPage(payload models.ProductPage, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = payload.Products
	s.total = payload.Total
	if page > 0 {
		s.currentPage = page
	} else {
		s.currentPage = 1
	}
}

func (s *Store) applySearchResults(payload models.ProductPage, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchResults = payload.Products
	s.total = payload.Total
	if page > 0 {
		s.currentPage = page
	} else {
		s.currentPage = 1
	}
}

func (s *Store) applyCurrentProduct(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentProduct = &product
}

func (s *Store) applyAdd(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product{product}, s.products...)
	s.total++
}

func (s *Store) applyUpdate(product models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == product.ID {
			s.products[i] = product
			break
		}
	}
	if s.currentProduct != nil && s.currentProduct.ID == product.ID {
		s.currentProduct = &product
	}
}

func (s *Store) applyStatus(id string, status models.ProductStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Status = status
			break
		}
	}
	if s.currentProduct != nil && s.currentProduct.ID == id {
		updated := *s.currentProduct
		updated.Status = status
		s.currentProduct = &updated
	}
}

func (s *Store) applyDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.total--
			break
		}
	}
	if s.currentProduct != nil && s.currentProduct.ID == id {
		s.currentProduct = nil
	}
}
