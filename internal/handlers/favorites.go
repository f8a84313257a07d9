package handlers

import (
	"net/http"
	"strings"

	"sack_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GET /api/favorites/studios
func (h *Handler) GetFavoriteStudios(c *gin.Context) {
	studios, err := h.Favorites.Studios(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"studios": studios})
}

// POST /api/favorites/studios (bascule)
func (h *Handler) ToggleFavoriteStudio(c *gin.Context) {
	var studio models.StudioSummary
	if err := c.ShouldBindJSON(&studio); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	favorite, err := h.Favorites.ToggleStudio(c.Request.Context(), owner(c), studio)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": studio.ID, "favorite": favorite})
}

// GET /api/favorites/services
func (h *Handler) GetFavoriteServices(c *gin.Context) {
	services, err := h.Favorites.Services(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// POST /api/favorites/services (bascule)
func (h *Handler) ToggleFavoriteService(c *gin.Context) {
	var service models.ServiceSummary
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	favorite, err := h.Favorites.ToggleService(c.Request.Context(), owner(c), service)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": service.ID, "favorite": favorite})
}

// GET /api/favorites/payment-method
func (h *Handler) GetPreferredPayment(c *gin.Context) {
	method, err := h.Favorites.PreferredPayment(c.Request.Context(), owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethod": method})
}

// PUT /api/favorites/payment-method
func (h *Handler) SetPreferredPayment(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod requis"})
		return
	}
	if err := h.Favorites.SetPreferredPayment(c.Request.Context(), owner(c), input.PaymentMethod); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paymentMethod": strings.ToLower(strings.TrimSpace(input.PaymentMethod))})
}
