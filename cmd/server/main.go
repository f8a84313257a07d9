package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/config"
	"sack_back_end/internal/coupon"
	"sack_back_end/internal/database"
	"sack_back_end/internal/favorites"
	"sack_back_end/internal/handlers"
	"sack_back_end/internal/middleware"
	"sack_back_end/internal/notify"
	"sack_back_end/internal/order"
	"sack_back_end/internal/routes"
	"sack_back_end/internal/storage"
	"sack_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	client, err := database.ConnectRedis(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer client.Close()

	kv := storage.NewRedisStore(client, cfg.SessionTTL)
	cartStore := cart.NewStore(kv, nil)
	orderStore := order.NewStore(kv, nil)
	coupons := coupon.NewService(kv, coupon.DefaultCatalog())

	// chaque écriture est republiée sur Redis pour les WebSockets de toutes les instances
	stopCart := notify.BridgeToRedis(cartStore.Changes(), client,
		func(e cart.Changed) string { return cart.Channel(e.Owner) }, cart.UpdatedPayload)
	defer stopCart()
	stopOrders := notify.BridgeToRedis(orderStore.Changes(), client,
		func(e order.Changed) string { return order.Channel(e.Owner) }, order.UpdatedPayload)
	defer stopOrders()

	mailer := utils.NewMailer(utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if !mailer.Enabled() {
		log.Println("⚠️ SMTP_HOST absent, e-mails désactivés")
	}

	h := &handlers.Handler{
		Cart:         cartStore,
		Coupons:      coupons,
		Orders:       orderStore,
		Builder:      order.NewBuilder(orderStore, cartStore, coupons),
		Favorites:    favorites.NewStore(kv),
		Mailer:       mailer,
		Redis:        client,
		UPIPayee:     cfg.UPIPayee,
		UPIPayeeName: cfg.UPIPayeeName,
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURLs,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r, h, routes.Options{
		JWTSecret:     cfg.JWTSecret,
		Sessions:      middleware.NewSessionStore(cfg.SessionSecret, int(cfg.SessionTTL.Seconds()), false),
		CartRateLimit: cfg.CartRateLimit,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("🚀 Serveur Sack lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur arrêté: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt du serveur...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("❌ Arrêt forcé: %v", err)
	}
}
