package handlers

import (
	"net/http"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/models"
	"sack_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
)

// GET /api/cart?studioId=
func (h *Handler) GetCart(c *gin.Context) {
	items, err := h.Cart.Load(c.Request.Context(), owner(c), c.Query("studioId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"count":    len(items),
		"subtotal": pricing.Subtotal(items),
	})
}

// POST /api/cart/items
func (h *Handler) AddCartItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	items, err := h.Cart.Add(c.Request.Context(), owner(c), item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service ajouté au sac", "items": items, "count": len(items)})
}

// PATCH /api/cart/items/:serviceId?studioId=
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var input struct {
		Quantity *float64 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity requis"})
		return
	}

	items, err := h.Cart.UpdateQuantity(c.Request.Context(), owner(c), c.Query("studioId"), c.Param("serviceId"), *input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// DELETE /api/cart/items/:serviceId?studioId=
func (h *Handler) RemoveCartItem(c *gin.Context) {
	items, err := h.Cart.Remove(c.Request.Context(), owner(c), c.Query("studioId"), c.Param("serviceId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	if _, err := h.Cart.Clear(c.Request.Context(), owner(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sac vidé"})
}

// GET /api/cart/summary?studioId=
// Récapitulatif : montants, lignes groupées par catégorie et type de lavage dominant.
func (h *Handler) CartSummary(c *gin.Context) {
	ctx := c.Request.Context()
	who := owner(c)

	items, err := h.Cart.Load(ctx, who, c.Query("studioId"))
	if err != nil {
		respondError(c, err)
		return
	}
	applied, err := h.Coupons.Effective(ctx, who, pricing.Subtotal(items))
	if err != nil {
		respondError(c, err)
		return
	}

	quote := pricing.NewQuote(items, applied)
	resp := gin.H{
		"quote":  quote,
		"taxes":  pricing.TaxBreakdown(quote.Subtotal),
		"groups": cart.Grouped(items),
		"count":  len(items),
	}
	if washType, ok := cart.DominantWashType(items); ok {
		resp["washType"] = washType
	}
	c.JSON(http.StatusOK, resp)
}
