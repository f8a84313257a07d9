package handlers

import (
	"errors"
	"net/http"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/coupon"
	"sack_back_end/internal/favorites"
	"sack_back_end/internal/middleware"
	"sack_back_end/internal/order"
	"sack_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Handler regroupe les dépendances des routes /api
type Handler struct {
	Cart      *cart.Store
	Coupons   *coupon.Service
	Orders    *order.Store
	Builder   *order.Builder
	Favorites *favorites.Store
	Mailer    *utils.Mailer
	Redis     *redis.Client

	UPIPayee     string
	UPIPayeeName string
}

func owner(c *gin.Context) string {
	return middleware.OwnerID(c)
}

// respondError traduit les erreurs métier en statut HTTP
func respondError(c *gin.Context, err error) {
	var te *order.TransitionError
	switch {
	case errors.As(err, &te):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "from": te.From, "to": te.To})
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrValidation),
		errors.Is(err, order.ErrValidation),
		errors.Is(err, favorites.ErrValidation),
		errors.Is(err, coupon.ErrCodeRequired),
		errors.Is(err, coupon.ErrUnknownCode),
		errors.Is(err, coupon.ErrMinimumNotMet):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.WithField("path", c.FullPath()).Errorf("❌ Erreur interne: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur interne"})
	}
}
