package api

import (
	"context"     // Cache calls
	"sync/atomic" // Invalidation counter
	"time"        // Time durations

	"bank_api/internal/middleware" // Request ID helpers
	"bank_api/internal/store"      // Data access layer
	"bank_api/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// Deps carries what the handlers share
type Deps struct {
	Repo        store.Repository // Data access layer
	Redis       *redis.Client    // Cache for user reads, nil disables caching
	CacheTTL    time.Duration    // Lifetime of cached reads
	TokenSecret string           // JWT signing secret
	TokenTTL    time.Duration    // JWT lifetime, zero for non-expiring tokens
	CORSOrigins []string         // Allowed origins, empty allows all

	cacheGen atomic.Uint64 // Bumped on every invalidation
}

// invalidateUsers drops the cached list and the given users' entries
func (d *Deps) invalidateUsers(c *gin.Context, usernames ...string) {
	d.cacheGen.Add(1)
	keys := []string{utils.UsersListKey}
	for _, u := range usernames {
		keys = append(keys, utils.UserCacheKey(u))
	}
	if err := utils.DeleteCache(c.Request.Context(), d.Redis, keys...); err != nil {
		logrus.WithFields(logrus.Fields{
			"keys":       keys,                       // Keys that may now be stale
			"request_id": middleware.GetRequestID(c), // Correlation ID
			"error":      err.Error(),                // Error message
		}).Warn("Cache invalidation failed")
	}
}

// fillCache stores a read taken at generation gen. A fill that raced with an
// invalidation is skipped, or removed again if the invalidation landed mid-write.
func (d *Deps) fillCache(ctx context.Context, key string, value any, gen uint64) {
	if d.cacheGen.Load() != gen {
		return
	}
	_ = utils.SetCache(ctx, d.Redis, key, value, d.CacheTTL)
	if d.cacheGen.Load() != gen {
		_ = utils.DeleteCache(ctx, d.Redis, key)
	}
}
