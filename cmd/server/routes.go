package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blinkpay.backend/internal/interfaces/http/handlers"
	"blinkpay.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	paymentHandler    *handlers.PaymentHandler
	settlementHandler *handlers.SettlementHandler
	balanceHandler    *handlers.BalanceHandler
	requestHandler    *handlers.PaymentRequestHandler
	merchantHandler   *handlers.MerchantHandler
	webhookHandler    *handlers.WebhookHandler
	wsHandler         *handlers.WSHandler
}

func newRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	registerAPIV1Routes(r, d)

	// Merchant notification channel; authenticated by channel token, not cookie
	r.GET("/ws/merchant", d.wsHandler.Connect)

	return r
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Payment routes
		payments := v1.Group("/payments")
		{
			payments.POST("", middleware.Idempotency(), d.paymentHandler.Pay)
			payments.POST("/quote", d.paymentHandler.Quote)
		}

		// Wallet routes: settlement history and balances
		wallets := v1.Group("/wallets")
		{
			wallets.GET("/:address/settlements", d.settlementHandler.History)
			wallets.GET("/:address/settlements/:id", d.settlementHandler.Get)
			wallets.GET("/:address/balances", d.balanceHandler.List)
			wallets.GET("/:address/balances/:symbol", d.balanceHandler.Get)
		}

		// Payment request routes
		paymentRequests := v1.Group("/payment-requests")
		{
			paymentRequests.POST("", d.requestHandler.Create)
			paymentRequests.GET("/:id", d.requestHandler.Get)
			paymentRequests.POST("/:id/complete", d.requestHandler.Complete)
		}

		// Merchant routes
		merchants := v1.Group("/merchants")
		{
			merchants.GET("/:id/payment-requests", d.requestHandler.ListByMerchant)
			merchants.POST("/:id/fiat-deposit", d.merchantHandler.SetupDeposit)
			merchants.GET("/:id/fiat-deposit", d.merchantHandler.GetBinding)
			merchants.POST("/:id/bank-account", d.merchantHandler.LinkBankAccount)
			merchants.POST("/:id/channel-token", d.merchantHandler.IssueChannelToken)
		}

		// Webhook for deposit events (internal)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/deposits", d.webhookHandler.HandleDeposit)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Idempotency-Key")

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
			"service": "blinkpay-backend",
			"version": "0.1.0",
		})
	})
}
