package handlers

import (
	"net/http"
	"time"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/order"
	"sack_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// PingInterval : keep-alive de la WebSocket, arrêté avec la connexion
var PingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// les origines sont déjà filtrées par CORS
		return true
	},
}

// GET /api/cart/ws
// Synchronisation temps réel : chaque écriture du sac (sur n'importe quelle
// instance) renvoie le sac complet ; un changement d'historique est signalé.
func (h *Handler) CartWebSocket(c *gin.Context) {
	who := owner(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	pubsub := h.Redis.Subscribe(ctx, cart.Channel(who), order.Channel(who))
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("❌ Abonnement Redis impossible: %v", err)
		return
	}
	ch := pubsub.Channel()

	// lecture : seule façon de voir la fermeture côté client
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	if err := conn.WriteJSON(gin.H{"type": "connected", "message": "Synchronisation du sac activée"}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload gin.H
			switch msg.Payload {
			case cart.UpdatedPayload:
				items, err := h.Cart.Load(ctx, who, "")
				if err != nil {
					log.Printf("⚠️ Lecture du sac impossible: %v", err)
					continue
				}
				payload = gin.H{
					"type":     "cart_updated",
					"items":    items,
					"count":    len(items),
					"subtotal": pricing.Subtotal(items),
				}
			case order.UpdatedPayload:
				payload = gin.H{"type": "orders_updated"}
			default:
				continue
			}
			if err := conn.WriteJSON(payload); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
