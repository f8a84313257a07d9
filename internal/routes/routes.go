package routes

import (
	"time"

	"sack_back_end/internal/handlers"
	"sack_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	JWTSecret     string
	Sessions      sessions.Store
	CartRateLimit int
}

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(opts.JWTSecret), middleware.Owner(opts.Sessions))

	// Sac
	cartGroup := api.Group("/cart")
	{
		cartGroup.GET("", h.GetCart)
		cartGroup.DELETE("", h.ClearCart)
		cartGroup.GET("/summary", h.CartSummary)
		cartGroup.GET("/ws", h.CartWebSocket)

		items := cartGroup.Group("/items")
		if opts.CartRateLimit > 0 && h.Redis != nil {
			items.Use(middleware.RateLimit(h.Redis, "cart", opts.CartRateLimit, time.Minute))
		}
		items.POST("", h.AddCartItem)
		items.PATCH("/:serviceId", h.UpdateCartItem)
		items.DELETE("/:serviceId", h.RemoveCartItem)
	}

	// Codes promo
	api.POST("/coupons/apply", h.ApplyCoupon)
	api.DELETE("/coupons/apply", h.RemoveCoupon)

	// Commandes
	orders := api.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.DELETE("/:id", h.DeleteOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
		orders.POST("/:id/pay", h.PayOrder)
		orders.POST("/:id/status", h.UpdateOrderStatus)
		orders.POST("/:id/rating", h.RateOrder)
		orders.GET("/:id/invoice", h.GetInvoice)
	}

	// Favoris
	fav := api.Group("/favorites")
	{
		fav.GET("/studios", h.GetFavoriteStudios)
		fav.POST("/studios", h.ToggleFavoriteStudio)
		fav.GET("/services", h.GetFavoriteServices)
		fav.POST("/services", h.ToggleFavoriteService)
		fav.GET("/payment-method", h.GetPreferredPayment)
		fav.PUT("/payment-method", h.SetPreferredPayment)
	}
}
