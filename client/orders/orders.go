// Package orders tracks the user's orders and, for privileged sessions, the
// storewide order list. A status change is acknowledged by the backend first
// and then applied to every cached copy of the order, so the three views
// (own list, admin list, detail) never disagree.
package orders

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"gomall/client/gateway"
	"gomall/internal/models"
)

// StatusText renders an order status for display. Unknown values map to a
// fixed fallback instead of leaking the raw constant.
func StatusText(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusPending:
		return "awaiting payment"
	case models.OrderStatusPaid:
		return "awaiting shipment"
	case models.OrderStatusShipped:
		return "awaiting receipt"
	case models.OrderStatusCompleted:
		return "completed"
	case models.OrderStatusCancelled:
		return "cancelled"
	case models.OrderStatusRefunded:
		return "refunded"
	default:
		return "unknown status"
	}
}

type Store struct {
	gw  *gateway.Client
	log zerolog.Logger

	// mu guards the fields below; the apply* mutation methods are their
	// only writers.
	mu           sync.Mutex
	orders       []models.Order
	adminOrders  []models.Order
	currentOrder *models.Order
	total        int
	adminTotal   int
	statistics   *models.OrderStats
	loading      bool
}

func New(gw *gateway.Client, log zerolog.Logger) *Store {
	return &Store{gw: gw, log: log}
}

func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

func (s *Store) AdminOrders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, len(s.adminOrders))
	copy(out, s.adminOrders)
	return out
}

func (s *Store) CurrentOrder() (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentOrder == nil {
		return models.Order{}, false
	}
	return *s.currentOrder, true
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Store) AdminTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adminTotal
}

func (s *Store) Statistics() (models.OrderStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.statistics == nil {
		return models.OrderStats{}, false
	}
	return *s.statistics, true
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset drops all cached order state, as on forced logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	s.adminOrders = nil
	s.currentOrder = nil
	s.total = 0
	s.adminTotal = 0
	s.statistics = nil
	s.loading = false
}

// Create places an order from the currently selected cart lines, shipped to
// the given address. The acknowledged order becomes the current order.
func (s *Store) Create(ctx context.Context, addressID string) gateway.Result {
	env, err := s.gw.Post(ctx, "/order/create", map[string]string{
		"addressId": addressID,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("order create failed")
		return gateway.Fail("could not create order")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var order models.Order
	if err := gateway.Decode(env.Data, &order); err != nil {
		s.log.Error().Err(err).Msg("order create payload malformed")
		return gateway.Fail("could not create order")
	}

	order.StatusText = StatusText(order.Status)
	s.mu.Lock()
	s.currentOrder = &order
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) List(ctx context.Context, status models.OrderStatus, page int, pageSize int) gateway.Result {
	params := pageQuery(page, pageSize)
	if status != "" {
		params.Set("status", string(status))
	}

	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, "/order/list", params)
	if err != nil {
		s.log.Error().Err(err).Msg("order list failed")
		return gateway.Fail("could not load orders")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var payload models.OrderPage
	if err := gateway.Decode(env.Data, &payload); err != nil {
		s.log.Error().Err(err).Msg("order list payload malformed")
		return gateway.Fail("could not load orders")
	}

	annotate(payload.Orders)
	s.mu.Lock()
	s.orders = payload.Orders
	s.total = payload.Total
	s.mu.Unlock()
	return gateway.OK()
}

// AdminListFilter narrows the storewide order listing.
type AdminListFilter struct {
	Status   models.OrderStatus
	Keyword  string
	Page     int
	PageSize int
}

func (s *Store) AdminList(ctx context.Context, filter AdminListFilter) gateway.Result {
	params := pageQuery(filter.Page, filter.PageSize)
	if filter.Status != "" {
		params.Set("status", string(filter.Status))
	}
	if filter.Keyword != "" {
		params.Set("keyword", filter.Keyword)
	}

	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, "/admin/order/list", params)
	if err != nil {
		s.log.Error().Err(err).Msg("admin order list failed")
		return gateway.Fail("could not load orders")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var payload models.OrderPage
	if err := gateway.Decode(env.Data, &payload); err != nil {
		s.log.Error().Err(err).Msg("admin order list payload malformed")
		return gateway.Fail("could not load orders")
	}

	annotate(payload.Orders)
	s.mu.Lock()
	s.adminOrders = payload.Orders
	s.adminTotal = payload.Total
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) Detail(ctx context.Context, id string) gateway.Result {
	s.setLoading(true)
	defer s.setLoading(false)

	env, err := s.gw.Get(ctx, "/order/detail/"+id, nil)
	if err != nil {
		s.log.Error().Err(err).Str("order", id).Msg("order detail failed")
		return gateway.Fail("could not load order")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var order models.Order
	if err := gateway.Decode(env.Data, &order); err != nil {
		s.log.Error().Err(err).Msg("order detail payload malformed")
		return gateway.Fail("could not load order")
	}

	order.StatusText = StatusText(order.Status)
	s.mu.Lock()
	s.currentOrder = &order
	s.mu.Unlock()
	return gateway.OK()
}

// Pay marks the order paid. The target status is fixed; whether the order is
// actually payable is the backend's call.
func (s *Store) Pay(ctx context.Context, id string, payMethod string) gateway.Result {
	return s.transition(ctx, "/order/pay/"+id, map[string]string{"payMethod": payMethod},
		id, models.OrderStatusPaid, "could not pay order")
}

func (s *Store) Cancel(ctx context.Context, id string) gateway.Result {
	return s.transition(ctx, "/order/cancel/"+id, nil,
		id, models.OrderStatusCancelled, "could not cancel order")
}

func (s *Store) ConfirmReceipt(ctx context.Context, id string) gateway.Result {
	return s.transition(ctx, "/order/confirm/"+id, nil,
		id, models.OrderStatusCompleted, "could not confirm receipt")
}

func (s *Store) Refund(ctx context.Context, id string, reason string) gateway.Result {
	return s.transition(ctx, "/order/refund/"+id, map[string]string{"reason": reason},
		id, models.OrderStatusRefunded, "could not request refund")
}

func (s *Store) AdminSetStatus(ctx context.Context, id string, status models.OrderStatus) gateway.Result {
	return s.transition(ctx, "/admin/order/status/"+id, map[string]models.OrderStatus{"status": status},
		id, status, "could not update order status")
}

func (s *Store) AdminShip(ctx context.Context, id string, carrier string, trackingNo string) gateway.Result {
	result := s.transition(ctx, "/admin/order/ship/"+id, map[string]string{
		"carrier":    carrier,
		"trackingNo": trackingNo,
	}, id, models.OrderStatusShipped, "could not ship order")
	if result.Success {
		s.applyShipping(id, carrier, trackingNo)
	}
	return result
}

func (s *Store) LoadStatistics(ctx context.Context) gateway.Result {
	env, err := s.gw.Get(ctx, "/admin/order/statistics", nil)
	if err != nil {
		s.log.Error().Err(err).Msg("order statistics failed")
		return gateway.Fail("could not load order statistics")
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	var stats models.OrderStats
	if err := gateway.Decode(env.Data, &stats); err != nil {
		s.log.Error().Err(err).Msg("order statistics payload malformed")
		return gateway.Fail("could not load order statistics")
	}

	s.mu.Lock()
	s.statistics = &stats
	s.mu.Unlock()
	return gateway.OK()
}

func (s *Store) transition(ctx context.Context, path string, body any, id string, target models.OrderStatus, failMsg string) gateway.Result {
	env, err := s.gw.Put(ctx, path, body)
	if err != nil {
		s.log.Error().Err(err).Str("order", id).Msg("order status transition failed")
		return gateway.Fail(failMsg)
	}
	if !env.Success {
		return gateway.Fail(env.Message)
	}

	s.applyStatus(id, target)
	return gateway.OK()
}

// applyStatus writes the new status into every place the order may be
// cached: the user's list, the admin list, and the detail view.
func (s *Store) applyStatus(id string, status models.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := StatusText(status)
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			s.orders[i].StatusText = text
		}
	}
	for i := range s.adminOrders {
		if s.adminOrders[i].ID == id {
			s.adminOrders[i].Status = status
			s.adminOrders[i].StatusText = text
		}
	}
	if s.currentOrder != nil && s.currentOrder.ID == id {
		updated := *s.currentOrder
		updated.Status = status
		updated.StatusText = text
		s.currentOrder = &updated
	}
}

func (s *Store) applyShipping(id string, carrier string, trackingNo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.adminOrders {
		if s.adminOrders[i].ID == id {
			s.adminOrders[i].Shipping.Carrier = carrier
			s.adminOrders[i].Shipping.TrackingNo = trackingNo
		}
	}
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Shipping.Carrier = carrier
			s.orders[i].Shipping.TrackingNo = trackingNo
		}
	}
	if s.currentOrder != nil && s.currentOrder.ID == id {
		updated := *s.currentOrder
		updated.Shipping.Carrier = carrier
		updated.Shipping.TrackingNo = trackingNo
		s.currentOrder = &updated
	}
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func annotate(orders []models.Order) {
	for i := range orders {
		orders[i].StatusText = StatusText(orders[i].Status)
	}
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
