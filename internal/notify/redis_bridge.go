package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// BridgeToRedis republie chaque événement du hub sur un canal Redis, pour les
// autres instances et les WebSockets ouvertes ailleurs.
func BridgeToRedis[E any](h *Hub[E], client *redis.Client, channel func(E) string, payload string) func() {
	return h.Subscribe(func(e E) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		ch := channel(e)
		if err := client.Publish(ctx, ch, payload).Err(); err != nil {
			log.Printf("⚠️ Publication Redis impossible sur %s: %v", ch, err)
		}
	})
}
