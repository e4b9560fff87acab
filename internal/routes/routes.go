// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"orus-wallet/internal/handlers"
	"orus-wallet/internal/middleware"
	"orus-wallet/internal/services/auth"
	"orus-wallet/internal/services/payment"
	"orus-wallet/internal/services/recurring"
	"orus-wallet/internal/services/refund"
	"orus-wallet/internal/services/transfer"
	"orus-wallet/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the wired services the routes expose. Payments may be nil
// when Stripe is not configured.
type Services struct {
	Wallets   *wallet.Service
	Transfers *transfer.Service
	Refunds   *refund.Service
	Recurring *recurring.Service
	Payments  *payment.Service
	Accounts  auth.Service
	Auth      *middleware.AuthMiddleware
	Health    map[string]handlers.Checker
	Gatherer  prometheus.Gatherer
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, s Services) {
	walletHandler := handlers.NewWalletHandler(s.Wallets, s.Transfers)
	transferHandler := handlers.NewTransferHandler(s.Transfers, s.Recurring)
	refundHandler := handlers.NewRefundHandler(s.Refunds)
	adminHandler := handlers.NewAdminHandler(s.Wallets)
	healthHandler := handlers.NewHealthHandler(s.Health)

	app.Get("/health", healthHandler.HealthCheck)
	if s.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})))
	}

	if s.Accounts != nil {
		authHandler := handlers.NewAuthHandler(s.Accounts)
		app.Post("/api/auth/register", authHandler.Register)
		app.Post("/api/auth/login", authHandler.Login)
	}

	api := app.Group("/api", s.Auth.Handler)

	// Wallet routes
	walletGroup := api.Group("/wallet")
	walletGroup.Get("/", walletHandler.GetWallet)
	walletGroup.Post("/", walletHandler.CreateWallet)
	walletGroup.Get("/history", walletHandler.GetHistory)
	walletGroup.Get("/transactions/:id", walletHandler.GetTransaction)
	walletGroup.Post("/pay", walletHandler.Pay)
	walletGroup.Post("/transfer", transferHandler.Transfer)
	walletGroup.Get("/recurring", transferHandler.ListRecurring)
	walletGroup.Delete("/recurring/:id", transferHandler.CancelRecurring)
	walletGroup.Post("/refunds", refundHandler.RequestRefund)
	walletGroup.Get("/refunds/:id", refundHandler.GetRefund)
	if s.Payments != nil {
		paymentHandler := handlers.NewPaymentHandler(s.Payments)
		walletGroup.Post("/topup", paymentHandler.TopUp)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/wallets", adminHandler.ListBalances)
	admin.Get("/wallets/:id", adminHandler.GetWalletByID)
	admin.Get("/users/:id/wallet", adminHandler.GetUserWallet)
	admin.Get("/wallet", adminHandler.GetAdminWallet)
	admin.Post("/wallet/bootstrap", adminHandler.Bootstrap)
	admin.Get("/refunds", refundHandler.ListRefunds)
	admin.Get("/refunds/:id", refundHandler.GetRefund)
	admin.Post("/refunds/:id", refundHandler.ProcessRefund)
}
