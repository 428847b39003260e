package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gomall/internal/ids"
	"gomall/internal/middleware"
	"gomall/internal/models"
	"gomall/internal/repository"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type createOrderRequest struct {
	AddressID string `json:"addressId" binding:"required"`
}

// CreateOrder builds the order from the user's currently selected cart lines.
// The item rows are price snapshots; later product edits do not rewrite them.
func (h HandlerSet) CreateOrder(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	addr, err := h.addresses.GetByID(c.Request.Context(), user.ID, req.AddressID)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			fail(c, http.StatusBadRequest, "address not found")
			return
		}
		h.log.Error().Err(err).Msg("order address lookup failed")
		fail(c, http.StatusInternalServerError, "could not create order")
		return
	}

	cartItems, err := h.carts.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("order cart lookup failed")
		fail(c, http.StatusInternalServerError, "could not create order")
		return
	}

	var (
		orderItems  []models.OrderItem
		cartLineIDs []string
		total       float64
	)
	for _, item := range cartItems {
		if !item.Selected {
			continue
		}
		orderItems = append(orderItems, models.OrderItem{
			ID:          ids.New(),
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
			ImageURL:    item.Product.ImageURL,
		})
		cartLineIDs = append(cartLineIDs, item.ID)
		total += item.Product.Price * float64(item.Quantity)
	}
	if len(orderItems) == 0 {
		fail(c, http.StatusBadRequest, "no items selected")
		return
	}

	order := models.Order{
		ID:          ids.New(),
		OrderNo:     ids.OrderNo(time.Now()),
		UserID:      user.ID,
		Items:       orderItems,
		TotalAmount: round2(total),
		Status:      models.OrderStatusPending,
		Shipping: models.ShippingInfo{
			Receiver: addr.Receiver,
			Phone:    addr.Phone,
			Address:  fmt.Sprintf("%s %s %s %s", addr.Province, addr.City, addr.District, addr.Detail),
		},
	}

	created, err := h.orders.Create(c.Request.Context(), order, cartLineIDs)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			fail(c, http.StatusBadRequest, "insufficient stock")
			return
		}
		h.log.Error().Err(err).Msg("order create failed")
		fail(c, http.StatusInternalServerError, "could not create order")
		return
	}
	ok(c, created)
}

func (h HandlerSet) ListOrders(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	page, pageSize := parsePage(c)
	result, err := h.orders.List(c.Request.Context(), repository.OrderFilter{
		UserID: user.ID,
		Status: c.Query("status"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("order list failed")
		fail(c, http.StatusInternalServerError, "could not load orders")
		return
	}
	ok(c, result)
}

func (h HandlerSet) OrderDetail(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		h.log.Error().Err(err).Msg("order detail failed")
		fail(c, http.StatusInternalServerError, "could not load order")
		return
	}
	if order.UserID != user.ID && user.Role != models.UserRoleAdmin {
		fail(c, http.StatusNotFound, "order not found")
		return
	}
	ok(c, order)
}

type payOrderRequest struct {
	PayMethod string `json:"payMethod" binding:"required"`
}

func (h HandlerSet) PayOrder(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req payOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.updateOrderStatus(c, c.Param("id"), user.ID, repository.StatusUpdate{
		Status:    models.OrderStatusPaid,
		PayMethod: req.PayMethod,
	})
}

func (h HandlerSet) CancelOrder(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.updateOrderStatus(c, c.Param("id"), user.ID, repository.StatusUpdate{
		Status: models.OrderStatusCancelled,
	})
}

func (h HandlerSet) ConfirmOrder(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	h.updateOrderStatus(c, c.Param("id"), user.ID, repository.StatusUpdate{
		Status: models.OrderStatusCompleted,
	})
}

type refundOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h HandlerSet) RefundOrder(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req refundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.updateOrderStatus(c, c.Param("id"), user.ID, repository.StatusUpdate{
		Status:       models.OrderStatusRefunded,
		RefundReason: req.Reason,
	})
}

func (h HandlerSet) updateOrderStatus(c *gin.Context, orderID string, userID string, update repository.StatusUpdate) {
	if err := h.orders.UpdateStatus(c.Request.Context(), orderID, userID, update); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		h.log.Error().Err(err).Str("order_id", orderID).Msg("order status update failed")
		fail(c, http.StatusInternalServerError, "could not update order")
		return
	}
	ok(c, gin.H{"status": update.Status})
}
