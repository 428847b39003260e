package handlers

import (
	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Health(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		fail(c, 503, "database unavailable")
		return
	}
	ok(c, gin.H{"status": "ok"})
}
