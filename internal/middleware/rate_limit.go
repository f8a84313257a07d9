package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RateLimit limite les requêtes par propriétaire (ou IP à défaut) sur une fenêtre fixe.
// Si Redis est indisponible la requête passe.
func RateLimit(client *redis.Client, prefix string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := OwnerID(c)
		if who == "" {
			who = c.ClientIP()
		}
		key := "ratelimit:" + prefix + ":" + who

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		n, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Warnf("⚠️ Rate limit indisponible (%s): %v", prefix, err)
			c.Next()
			return
		}
		if n == 1 {
			client.Expire(ctx, key, window)
		}

		count := int(n)
		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", max))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > max {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de requêtes. Ralentissez un peu",
				"retry_after": int(window.Seconds()),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
