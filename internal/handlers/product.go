package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gomall/internal/repository"
)

func (h HandlerSet) ListProducts(c *gin.Context) {
	page, pageSize := parsePage(c)

	result, err := h.products.List(c.Request.Context(), repository.ProductFilter{
		CategoryID: c.Query("categoryId"),
		OnSaleOnly: true,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("product list failed")
		fail(c, http.StatusInternalServerError, "could not load products")
		return
	}
	ok(c, result)
}

func (h HandlerSet) ProductDetail(c *gin.Context) {
	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		h.log.Error().Err(err).Msg("product detail failed")
		fail(c, http.StatusInternalServerError, "could not load product")
		return
	}
	ok(c, product)
}

func (h HandlerSet) SearchProducts(c *gin.Context) {
	page, pageSize := parsePage(c)

	result, err := h.products.List(c.Request.Context(), repository.ProductFilter{
		Keyword:    c.Query("keyword"),
		OnSaleOnly: true,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("product search failed")
		fail(c, http.StatusInternalServerError, "search failed")
		return
	}
	ok(c, result)
}

func (h HandlerSet) ProductsByCategory(c *gin.Context) {
	page, pageSize := parsePage(c)

	result, err := h.products.List(c.Request.Context(), repository.ProductFilter{
		CategoryID: c.Param("id"),
		OnSaleOnly: true,
		Limit:      pageSize,
		Offset:     (page - 1) * pageSize,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("category products failed")
		fail(c, http.StatusInternalServerError, "could not load products")
		return
	}
	ok(c, result)
}

func (h HandlerSet) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("category list failed")
		fail(c, http.StatusInternalServerError, "could not load categories")
		return
	}
	ok(c, categories)
}
