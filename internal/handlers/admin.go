package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"gomall/internal/ids"
	"gomall/internal/models"
	"gomall/internal/repository"
)

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	page, pageSize := parsePage(c)

	result, err := h.users.List(c.Request.Context(), repository.UserFilter{
		Keyword: c.Query("keyword"),
		Role:    c.Query("role"),
		Status:  c.Query("status"),
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("admin user list failed")
		fail(c, http.StatusInternalServerError, "could not load users")
		return
	}
	ok(c, result)
}

func (h HandlerSet) AdminUserDetail(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Msg("admin user detail failed")
		fail(c, http.StatusInternalServerError, "could not load user")
		return
	}
	ok(c, user)
}

type setRoleRequest struct {
	Role models.UserRole `json:"role" binding:"required,oneof=USER ADMIN"`
}

func (h HandlerSet) AdminSetUserRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Msg("admin set role failed")
		fail(c, http.StatusInternalServerError, "could not update role")
		return
	}
	ok(c, gin.H{"role": req.Role})
}

type setUserStatusRequest struct {
	Status models.UserStatus `json:"status" binding:"required,oneof=ACTIVE DISABLED"`
}

func (h HandlerSet) AdminSetUserStatus(c *gin.Context) {
	var req setUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		h.log.Error().Err(err).Msg("admin set status failed")
		fail(c, http.StatusInternalServerError, "could not update status")
		return
	}
	ok(c, gin.H{"status": req.Status})
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	CategoryID  string  `json:"categoryId" binding:"required"`
	ImageURL    string  `json:"imageUrl"`
}

func (h HandlerSet) AdminAddProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	product := models.Product{
		ID:          ids.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		Status:      models.ProductStatusOnSale,
	}

	if err := h.products.Create(c.Request.Context(), product); err != nil {
		h.log.Error().Err(err).Msg("admin product create failed")
		fail(c, http.StatusInternalServerError, "could not add product")
		return
	}

	created, err := h.products.GetByID(c.Request.Context(), product.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("admin product reload failed")
		fail(c, http.StatusInternalServerError, "could not add product")
		return
	}
	ok(c, created)
}

func (h HandlerSet) AdminUpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.products.Update(c.Request.Context(), models.Product{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error().Err(err).Msg("admin product update failed")
		fail(c, http.StatusInternalServerError, "could not update product")
		return
	}
	ok(c, updated)
}

func (h HandlerSet) AdminDeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error().Err(err).Msg("admin product delete failed")
		fail(c, http.StatusInternalServerError, "could not delete product")
		return
	}
	ok(c, nil)
}

type setProductStatusRequest struct {
	Status models.ProductStatus `json:"status" binding:"required,oneof=ON_SALE OFF_SALE"`
}

func (h HandlerSet) AdminSetProductStatus(c *gin.Context) {
	var req setProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.products.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error().Err(err).Msg("admin product status failed")
		fail(c, http.StatusInternalServerError, "could not update product status")
		return
	}
	ok(c, updated)
}

func (h HandlerSet) AdminUploadProductImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "image file required")
		return
	}

	src, err := file.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "could not read image")
		return
	}
	defer src.Close()

	key := ids.New() + path.Ext(file.Filename)
	url, err := h.store.PutProductImage(c.Request.Context(), key, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		h.log.Error().Err(err).Msg("product image upload failed")
		fail(c, http.StatusInternalServerError, "could not store image")
		return
	}
	ok(c, gin.H{"url": url})
}

func (h HandlerSet) AdminListOrders(c *gin.Context) {
	page, pageSize := parsePage(c)

	result, err := h.orders.List(c.Request.Context(), repository.OrderFilter{
		Status:  c.Query("status"),
		Keyword: c.Query("keyword"),
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("admin order list failed")
		fail(c, http.StatusInternalServerError, "could not load orders")
		return
	}
	ok(c, result)
}

type adminOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=PENDING PAID SHIPPED COMPLETED CANCELLED REFUNDED"`
}

func (h HandlerSet) AdminSetOrderStatus(c *gin.Context) {
	var req adminOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.updateOrderStatus(c, c.Param("id"), "", repository.StatusUpdate{Status: req.Status})
}

type shipOrderRequest struct {
	Carrier    string `json:"carrier" binding:"required"`
	TrackingNo string `json:"trackingNo" binding:"required"`
}

func (h HandlerSet) AdminShipOrder(c *gin.Context) {
	var req shipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	h.updateOrderStatus(c, c.Param("id"), "", repository.StatusUpdate{
		Status:     models.OrderStatusShipped,
		Carrier:    req.Carrier,
		TrackingNo: req.TrackingNo,
	})
}

func (h HandlerSet) AdminOrderStatistics(c *gin.Context) {
	h.cachedStats(c, "stats:orders", func(ctx context.Context) (any, error) {
		return h.stats.OrdersByStatus(ctx)
	})
}

func (h HandlerSet) AdminSystemStats(c *gin.Context) {
	h.cachedStats(c, "stats:system", func(ctx context.Context) (any, error) {
		return h.stats.System(ctx)
	})
}

func (h HandlerSet) AdminSalesStats(c *gin.Context) {
	h.cachedStats(c, "stats:sales", func(ctx context.Context) (any, error) {
		return h.stats.Sales(ctx)
	})
}

func (h HandlerSet) AdminProductRanking(c *gin.Context) {
	h.cachedStats(c, "stats:productRanking", func(ctx context.Context) (any, error) {
		return h.stats.ProductRanking(ctx, 10)
	})
}

func (h HandlerSet) AdminUserRegistrations(c *gin.Context) {
	h.cachedStats(c, "stats:userRegistrations", func(ctx context.Context) (any, error) {
		return h.stats.UserRegistrations(ctx, 30)
	})
}

// cachedStats serves the snapshot from Redis when fresh, otherwise queries
// and repopulates. Statistics are allowed to lag by the configured TTL.
func (h HandlerSet) cachedStats(c *gin.Context, key string, fetch func(context.Context) (any, error)) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.Get(ctx, key).Bytes(); err == nil {
			var data any
			if err := json.Unmarshal(cached, &data); err == nil {
				ok(c, data)
				return
			}
		}
	}

	data, err := fetch(ctx)
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("statistics query failed")
		fail(c, http.StatusInternalServerError, "could not load statistics")
		return
	}

	if h.cache != nil {
		if encoded, err := json.Marshal(data); err == nil {
			if err := h.cache.Set(ctx, key, encoded, h.cfg.Orders.StatsTTL).Err(); err != nil {
				h.log.Warn().Err(err).Str("key", key).Msg("statistics cache write failed")
			}
		}
	}
	ok(c, data)
}
