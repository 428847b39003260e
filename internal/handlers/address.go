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

type addressRequest struct {
	Receiver  string `json:"receiver" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Province  string `json:"province" binding:"required"`
	City      string `json:"city" binding:"required"`
	District  string `json:"district"`
	Detail    string `json:"detail" binding:"required"`
	IsDefault bool   `json:"isDefault"`
}

func (h HandlerSet) ListAddresses(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	addresses, err := h.addresses.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Msg("address list failed")
		fail(c, http.StatusInternalServerError, "could not load addresses")
		return
	}
	ok(c, addresses)
}

func (h HandlerSet) AddAddress(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	addr, err := h.addresses.Create(c.Request.Context(), models.Address{
		ID:        ids.New(),
		UserID:    user.ID,
		Receiver:  req.Receiver,
		Phone:     req.Phone,
		Province:  req.Province,
		City:      req.City,
		District:  req.District,
		Detail:    req.Detail,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("address create failed")
		fail(c, http.StatusInternalServerError, "could not add address")
		return
	}
	ok(c, addr)
}

func (h HandlerSet) UpdateAddress(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	addr, err := h.addresses.Update(c.Request.Context(), models.Address{
		ID:        c.Param("id"),
		UserID:    user.ID,
		Receiver:  req.Receiver,
		Phone:     req.Phone,
		Province:  req.Province,
		City:      req.City,
		District:  req.District,
		Detail:    req.Detail,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			fail(c, http.StatusNotFound, "address not found")
			return
		}
		h.log.Error().Err(err).Msg("address update failed")
		fail(c, http.StatusInternalServerError, "could not update address")
		return
	}
	ok(c, addr)
}

func (h HandlerSet) DeleteAddress(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.addresses.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			fail(c, http.StatusNotFound, "address not found")
			return
		}
		h.log.Error().Err(err).Msg("address delete failed")
		fail(c, http.StatusInternalServerError, "could not delete address")
		return
	}
	ok(c, nil)
}

func (h HandlerSet) SetDefaultAddress(c *gin.Context) {
	user, ok2 := middleware.CurrentUser(c)
	if !ok2 {
		fail(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.addresses.SetDefault(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			fail(c, http.StatusNotFound, "address not found")
			return
		}
		h.log.Error().Err(err).Msg("set default address failed")
		fail(c, http.StatusInternalServerError, "could not set default address")
		return
	}
	ok(c, nil)
}
