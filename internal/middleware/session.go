package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	log "github.com/sirupsen/logrus"
)

const (
	SessionName = "sack_session"
	ownerKey    = "owner"
)

// NewSessionStore : cookie signé, durée de vie calée sur la portée session du stockage
func NewSessionStore(secret string, maxAgeSeconds int, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Owner détermine à qui appartiennent le sac et les commandes : l'utilisateur
// authentifié s'il y en a un, sinon un invité identifié par cookie de session.
func Owner(store sessions.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetString("user_id"); userID != "" {
			c.Set(ownerKey, userID)
			c.Next()
			return
		}

		session, err := store.Get(c.Request, SessionName)
		if err != nil {
			// cookie illisible (secret changé...) : nouvelle session
			log.Warnf("⚠️ Session invalide, nouvelle session invité: %v", err)
		}

		guestID, _ := session.Values["guest_id"].(string)
		if guestID == "" {
			guestID = "guest-" + uuid.NewString()
			session.Values["guest_id"] = guestID
			if err := session.Save(c.Request, c.Writer); err != nil {
				log.Errorf("❌ Erreur sauvegarde session: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "session indisponible"})
				c.Abort()
				return
			}
		}

		c.Set(ownerKey, guestID)
		c.Next()
	}
}

// OwnerID retourne le propriétaire posé par Owner
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}
