package handlers

import (
	"net/http"

	"sack_back_end/internal/pricing"

	"github.com/gin-gonic/gin"
)

// POST /api/coupons/apply
// Le minimum d'achat est vérifié sur le sous-total courant du sac.
func (h *Handler) ApplyCoupon(c *gin.Context) {
	var input struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo requis"})
		return
	}

	ctx := c.Request.Context()
	who := owner(c)
	items, err := h.Cart.Load(ctx, who, "")
	if err != nil {
		respondError(c, err)
		return
	}

	applied, err := h.Coupons.Apply(ctx, who, input.Code, pricing.Subtotal(items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coupon": applied,
		"quote":  pricing.NewQuote(items, &applied),
	})
}

// DELETE /api/coupons/apply
func (h *Handler) RemoveCoupon(c *gin.Context) {
	if err := h.Coupons.Remove(c.Request.Context(), owner(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Code promo retiré"})
}
