package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gotruck.backend/internal/interfaces/http/handlers"
	"gotruck.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	walletHandler  *handlers.WalletHandler
	orderHandler   *handlers.OrderHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/admin/login", d.authHandler.AdminLogin)
			auth.POST("/logout", d.authHandler.Logout)
			auth.GET("/profile", d.authMiddleware, d.authHandler.Profile)
		}

		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("/balances", d.walletHandler.Balances)
			wallet.GET("/history", d.walletHandler.History)
			wallet.POST("/withdrawals", middleware.IdempotencyMiddleware(), d.walletHandler.RequestWithdrawal)
			wallet.GET("/withdrawals/:id", d.walletHandler.Withdrawal)
		}

		// Order routes (protected)
		orders := v1.Group("/orders")
		orders.Use(d.authMiddleware)
		{
			orders.POST("", d.orderHandler.Create)
			orders.GET("", d.orderHandler.List)
			orders.GET("/:id", d.orderHandler.Get)
			orders.POST("/:id/payments", d.orderHandler.RecordPayment)
			orders.POST("/:id/complete", d.orderHandler.Complete)
		}

		// Admin routes (protected, admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/actors/pending", d.adminHandler.PendingActors)
			admin.POST("/actors/:id/approve", d.adminHandler.ApproveActor)
			admin.POST("/actors/:id/premium", d.adminHandler.ApprovePremiumProof)

			admin.GET("/withdrawals/pending", d.adminHandler.PendingWithdrawals)
			admin.POST("/withdrawals/:id/approve", d.adminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/reject", d.adminHandler.RejectWithdrawal)

			admin.GET("/wallets", d.adminHandler.WalletAccounts)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Idempotency-Key, X-Request-ID")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "gotruck-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
