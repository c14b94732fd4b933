package routes

import (
	"github.com/gin-gonic/gin"

	"insurewise-backend/internal/handlers"
	"insurewise-backend/internal/middleware"
)

// Handlers bundles everything the route table wires up.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Wallet        *handlers.WalletHandler
	Claims        *handlers.ClaimHandler
	Groups        *handlers.GroupHandler
	Payments      *handlers.PaymentHandler
	Plans         *handlers.PlanHandler
	Subscriptions *handlers.SubscriptionHandler
	Admin         *handlers.AdminHandler
}

func SetupRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Public so people can compare plans before signing up.
		api.GET("/insurance-plans", h.Plans.List)
		api.GET("/insurance-plans/:id", h.Plans.Get)

		// Provider-facing; authenticated by signature, not JWT.
		api.POST("/payments/webhook/paystack", h.Payments.Webhook)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/users/me", h.Users.Me)
			protected.PUT("/users/me", h.Users.UpdateMe)
			protected.GET("/users/:id", middleware.OwnerOrAdmin("id"), h.Users.Get)

			protected.GET("/wallet", h.Wallet.Get)
			protected.GET("/wallet/transactions", h.Wallet.Transactions)

			protected.POST("/claims", h.Claims.Submit)
			protected.GET("/claims", h.Claims.List)
			protected.GET("/claims/:id", h.Claims.Get)

			groups := protected.Group("/group-savings")
			{
				groups.POST("", h.Groups.Create)
				groups.GET("", h.Groups.List)
				groups.GET("/:id", h.Groups.Get)
				groups.POST("/:id/join", h.Groups.Join)
				groups.POST("/:id/activate", h.Groups.Activate)
				groups.POST("/:id/contribute", h.Groups.Contribute)
				groups.GET("/:id/status", h.Groups.Status)
				groups.POST("/:id/cancel", h.Groups.Cancel)
			}

			protected.POST("/payments/initialize", h.Payments.Initialize)
			protected.GET("/payments/verify/:reference", h.Payments.Verify)

			protected.POST("/insurance-subscriptions", h.Subscriptions.Subscribe)
			protected.GET("/insurance-subscriptions", h.Subscriptions.List)
			protected.DELETE("/insurance-subscriptions/:id", h.Subscriptions.Cancel)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.GET("/users", h.Admin.ListUsers)
				admin.PATCH("/users/:id/status", h.Admin.SetUserStatus)
				admin.GET("/transactions", h.Admin.ListTransactions)

				admin.GET("/claims", h.Claims.ListAll)
				admin.POST("/claims/:id/review", h.Claims.Review)
				admin.POST("/claims/:id/approve", h.Claims.Approve)
				admin.POST("/claims/:id/decline", h.Claims.Decline)

				admin.POST("/insurance-plans", h.Plans.Create)
				admin.PUT("/insurance-plans/:id", h.Plans.Update)
				admin.DELETE("/insurance-plans/:id", h.Plans.Deactivate)
			}
		}
	}
}
