package handlers

import (
	"net/http"

	"sack_back_end/internal/models"
	"sack_back_end/internal/order"

	"github.com/gin-gonic/gin"
)

// POST /api/orders
func (h *Handler) CreateOrder(c *gin.Context) {
	var input struct {
		order.CheckoutRequest
		Email string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	input.UserID = c.GetString("user_id")

	o, err := h.Builder.Checkout(c.Request.Context(), owner(c), input.CheckoutRequest)
	if err != nil {
		respondError(c, err)
		return
	}

	email := input.Email
	if email == "" {
		email = c.GetString("email")
	}
	h.Mailer.NotifyAsync(email, func(to string) error {
		return h.Mailer.SendOrderConfirmation(to, o)
	})

	c.JSON(http.StatusCreated, gin.H{"order": o})
}

// GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	ctx := c.Request.Context()
	orders, err := h.Orders.FetchAll(ctx, owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ratings, err := h.Orders.Ratings(ctx, owner(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders), "ratings": ratings})
}

// GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	ctx := c.Request.Context()
	o, err := h.Orders.GetByID(ctx, owner(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	rated, err := h.Orders.IsRated(ctx, owner(c), o.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o, "rated": rated})
}

// POST /api/orders/:id/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	o, err := h.Orders.Cancel(c.Request.Context(), owner(c), c.Param("id"))
	h.statusChanged(c, o, err)
}

// POST /api/orders/:id/pay
func (h *Handler) PayOrder(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"paymentMethod" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paymentMethod requis"})
		return
	}
	o, err := h.Orders.RecordPayment(c.Request.Context(), owner(c), c.Param("id"), input.PaymentMethod)
	h.statusChanged(c, o, err)
}

// POST /api/orders/:id/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var input struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status requis"})
		return
	}
	o, err := h.Orders.Advance(c.Request.Context(), owner(c), c.Param("id"), input.Status)
	h.statusChanged(c, o, err)
}

func (h *Handler) statusChanged(c *gin.Context, o models.Order, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	h.Mailer.NotifyAsync(c.GetString("email"), func(to string) error {
		return h.Mailer.SendOrderStatusEmail(to, o)
	})
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// POST /api/orders/:id/rating
func (h *Handler) RateOrder(c *gin.Context) {
	var input struct {
		Rating   int    `json:"rating" binding:"required"`
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating requis"})
		return
	}
	r, err := h.Orders.Rate(c.Request.Context(), owner(c), c.Param("id"), input.Rating, input.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": r})
}

// DELETE /api/orders/:id
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.Orders.Delete(c.Request.Context(), owner(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commande supprimée"})
}
