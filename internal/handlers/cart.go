package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gomall/internal/ids"
	"gomall/internal/middleware"
	"gomall/internal/models"
	"gomall/internal/repository"
)

func (h HandlerSet) ListCart(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	items, err := h.carts.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("cart list failed")
		fail(c, http.StatusInternalServerError, "could not load cart")
		return
	}
	ok(c, items)
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h HandlerSet) AddToCart(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	product, err := h.products.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error().Err(err).Msg("cart add lookup failed")
		fail(c, http.StatusInternalServerError, "could not add to cart")
		return
	}
	if product.Status != models.ProductStatusOnSale {
		fail(c, http.StatusBadRequest, "product is not on sale")
		return
	}

	item, err := h.carts.Add(c.Request.Context(), ids.New(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		h.log.Error().Err(err).Msg("cart add failed")
		fail(c, http.StatusInternalServerError, "could not add to cart")
		return
	}
	ok(c, item)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h HandlerSet) UpdateCartItem(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.carts.UpdateQuantity(c.Request.Context(), user.ID, c.Param("id"), req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			fail(c, http.StatusNotFound, "cart item not found")
			return
		}
		h.log.Error().Err(err).Msg("cart update failed")
		fail(c, http.StatusInternalServerError, "could not update cart")
		return
	}
	ok(c, item)
}

func (h HandlerSet) DeleteCartItem(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.carts.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			fail(c, http.StatusNotFound, "cart item not found")
			return
		}
		h.log.Error().Err(err).Msg("cart delete failed")
		fail(c, http.StatusInternalServerError, "could not delete cart item")
		return
	}
	ok(c, nil)
}

func (h HandlerSet) ClearCart(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.carts.Clear(c.Request.Context(), user.ID); err != nil {
		h.log.Error().Err(err).Msg("cart clear failed")
		fail(c, http.StatusInternalServerError, "could not clear cart")
		return
	}
	ok(c, nil)
}

type selectCartItemRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

func (h HandlerSet) SelectCartItem(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req selectCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.UpdateSelected(c.Request.Context(), user.ID, c.Param("id"), *req.Selected); err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			fail(c, http.StatusNotFound, "cart item not found")
			return
		}
		h.log.Error().Err(err).Msg("cart select failed")
		fail(c, http.StatusInternalServerError, "could not update selection")
		return
	}
	ok(c, nil)
}

func (h HandlerSet) SelectAllCartItems(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req selectCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.UpdateAllSelected(c.Request.Context(), user.ID, *req.Selected); err != nil {
		h.log.Error().Err(err).Msg("cart select all failed")
		fail(c, http.StatusInternalServerError, "could not update selection")
		return
	}
	ok(c, nil)
}
