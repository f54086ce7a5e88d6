package api

import (
	"context"  // Ping deadline
	"net/http" // HTTP status codes
	"time"     // Time durations

	"github.com/gin-gonic/gin" // Gin web framework
)

// HealthHandler reports whether the database answers a ping
func HealthHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := d.Repo.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
