package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"insurewise-backend/internal/config"
	"insurewise-backend/internal/handlers"
	"insurewise-backend/internal/middleware"
	"insurewise-backend/internal/paystack"
	"insurewise-backend/internal/routes"
	"insurewise-backend/internal/services"
	"insurewise-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("GIN_MODE") != "release" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Load()
	db := config.ConnectDB(cfg)

	utils.InitFCM()

	wallets := services.NewWalletService(db)
	claims := services.NewClaimService(db)
	groups := services.NewGroupService(db, wallets)
	subscriptions := services.NewSubscriptionService(db, wallets, cfg.CashbackPercent)
	gateway := paystack.New(cfg.PaystackSecretKey)
	payments := services.NewPaymentService(db, wallets, gateway, cfg.PaystackCallbackURL)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerSec, cfg.RateLimitBurst))

	routes.SetupRoutes(r, routes.Handlers{
		Auth:          handlers.NewAuthHandler(db, wallets, cfg),
		Users:         handlers.NewUserHandler(db),
		Wallet:        handlers.NewWalletHandler(wallets),
		Claims:        handlers.NewClaimHandler(db, claims),
		Groups:        handlers.NewGroupHandler(db, groups),
		Payments:      handlers.NewPaymentHandler(db, payments, cfg.PaystackSecretKey),
		Plans:         handlers.NewPlanHandler(db),
		Subscriptions: handlers.NewSubscriptionHandler(subscriptions),
		Admin:         handlers.NewAdminHandler(db),
	})

	r.GET("/healthz", func(c *gin.Context) {
		utils.APIResponse(c, http.StatusOK, true, "Server OK", nil)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
