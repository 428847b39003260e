// Package cart mirrors the server-side shopping cart. State changes only
// after the backend acknowledges a mutation, and the derived aggregates are
// recomputed from a full scan after every change rather than adjusted
// incrementally, so they can never drift from the lines they summarize.
package cart

import (
	"context"
	"math"
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
	mu            sync.Mutex
	items         []models.CartItem
	totalPrice    float64
	selectedCount int
	loading       bool
}

func New(gw *gateway.Client, log zerolog.Logger) *Store {
	return &Store{gw: gw, log: log}
}

func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalPrice is the sum over selected lines of price times quantity, rounded
// to two decimals.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPrice
}

// SelectedCount is the total quantity across selected lines, not the number
// of selected lines.
func (s *Store) SelectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCount
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset drops all cached cart state, as on forced logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.recompute()
	s.loading = false
}

func (s *Store) List(ctx context.Context) gateway.Result {
	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, "/cart/list", nil)
	if err != nil {
		s.log.Error().Err(err).Msg("cart list failed")
		return gateway.Fail("could not load cart")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var items []models.CartItem
	if err := gateway.Decode(env.Data, &items); err != nil {
		s.log.Error().Err(err).Msg("cart list payload malformed")
		return gateway.Fail("could not load cart")
	}

	s.applyItems(items)
	return gateway.OK()
}

// Add puts a product in the cart. When a line for the same product already
// exists the server merges quantities and returns the merged line, which
// replaces the local one; identity is the product id, never the line id.
func (s *Store) Add(ctx context.Context, productID string, quantity int) gateway.Result {
	if quantity <= 0 {
		quantity = 1
	}
	env, err := s.gw.Post(ctx, "/cart/add", map[string]any{
		"productId": productID,
		"quantity":  quantity,
	})
	if err != nil {
		s.log.Error().Err(err).Str("product", productID).Msg("cart add failed")
		return gateway.Fail("could not add to cart")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var item models.CartItem
	if err := gateway.Decode(env.Data, &item); err != nil {
		s.log.Error().Err(err).Msg("cart add payload malformed")
		return gateway.Fail("could not add to cart")
	}

	s.applyAdd(item)
	return gateway.OK()
}

func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) gateway.Result {
	if quantity < 1 {
		return gateway.Fail("quantity must be at least 1")
	}
	env, err := s.gw.Put(ctx, "/cart/update/"+id, map[string]int{"quantity": quantity})
	if err != nil {
		s.log.Error().Err(err).Str("item", id).Msg("cart quantity update failed")
		return gateway.Fail("could not update quantity")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyQuantity(id, quantity)
	return gateway.OK()
}

func (s *Store) Delete(ctx context.Context, id string) gateway.Result {
	env, err := s.gw.Delete(ctx, "/cart/delete/"+id)
	if err != nil {
		s.log.Error().Err(err).Str("item", id).Msg("cart delete failed")
		return gateway.Fail("could not remove item")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyDelete(id)
	return gateway.OK()
}

func (s *Store) Clear(ctx context.Context) gateway.Result {
	env, err := s.gw.Delete(ctx, "/cart/clear")
	if err != nil {
		s.log.Error().Err(err).Msg("cart clear failed")
		return gateway.Fail("could not clear cart")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyItems(nil)
	return gateway.OK()
}

// ToggleSelect flips a line's selection to the opposite of its current local
// state.
func (s *Store) ToggleSelect(ctx context.Context, id string) gateway.Result {
	s.mu.Lock()
	var target *models.CartItem
	for i := range s.items {
		if s.items[i].ID == id {
			target = &s.items[i]
			break
		}
	}
	if target == nil {
		s.mu.Unlock()
		return gateway.Fail("item not in cart")
	}
	selected := !target.Selected
	s.mu.Unlock()

	return s.SetSelect(ctx, id, selected)
}

func (s *Store) SetSelect(ctx context.Context, id string, selected bool) gateway.Result {
	env, err := s.gw.Put(ctx, "/cart/select/"+id, map[string]bool{"selected": selected})
	if err != nil {
		s.log.Error().Err(err).Str("item", id).Msg("cart selection update failed")
		return gateway.Fail("could not update selection")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applySelect(id, selected)
	return gateway.OK()
}

func (s *Store) ToggleAllSelect(ctx context.Context, selected bool) gateway.Result {
	env, err := s.gw.Put(ctx, "/cart/selectAll", map[string]bool{"selected": selected})
	if err != nil {
		s.log.Error().Err(err).Msg("cart select-all failed")
		return gateway.Fail("could not update selection")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applySelectAll(selected)
	return gateway.OK()
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Store) applyItems(items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.recompute()
}

func (s *Store) applyAdd(item models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID == item.Product.ID {
			s.items[i] = item
			s.recompute()
			return
		}
	}
	s.items = append(s.items, item)
	s.recompute()
}

func (s *Store) applyQuantity(id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.recompute()
}

// applyDelete removes a line by id; an id that is no longer present is a
// no-op, which makes a repeated delete harmless.
func (s *Store) applyDelete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.recompute()
}

func (s *Store) applySelect(id string, selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Selected = selected
			break
		}
	}
	s.recompute()
}

func (s *Store) applySelectAll(selected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Selected = selected
	}
	s.recompute()
}

// recompute rebuilds both aggregates from scratch. Callers must hold mu.
func (s *Store) recompute() {
	total := 0.0
	count := 0
	for i := range s.items {
		if !s.items[i].Selected {
			continue
		}
		total += s.items[i].Product.Price * float64(s.items[i].Quantity)
		count += s.items[i].Quantity
	}
	s.totalPrice = round2(total)
	s.selectedCount = count
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
