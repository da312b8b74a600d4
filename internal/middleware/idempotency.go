package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Idempotency replays the cached response for a repeated Idempotency-Key and
// holds a short redis lock while the first request is in flight. Used on the
// payroll and sentiment generation endpoints, which are expensive to re-run.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		userID := c.GetString("user_id")

		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached any
			_ = json.Unmarshal([]byte(val), &cached)
			c.AbortWithStatusJSON(http.StatusOK, gin.H{"ok": true, "data": cached})
			return
		}

		// Short expiry so a crashed request cannot wedge the key forever.
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A request with this idempotency key is already being processed",
			})
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}

// StoreIdempotentResult caches a successful response body for one hour and
// releases the in-flight lock. Handlers call it after a 2xx outcome.
func StoreIdempotentResult(c *gin.Context, rdb *redis.Client, body any) {
	cacheKey := c.GetString("idempotency_cache_key")
	lockKey := c.GetString("idempotency_lock_key")
	if cacheKey == "" {
		return
	}

	if raw, err := json.Marshal(body); err == nil {
		_ = rdb.Set(c.Request.Context(), cacheKey, raw, time.Hour).Err()
	}
	if lockKey != "" {
		_ = rdb.Del(c.Request.Context(), lockKey).Err()
	}
}
