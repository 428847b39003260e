package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope; the client gateway relies on
// the shape, not the HTTP status, to classify application failures.
func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"message": "",
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func parsePage(c *gin.Context) (page int, pageSize int) {
	page = 1
	pageSize = 10
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("pageSize")); err == nil && v > 0 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}
