// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orus-wallet/internal/config"
	"orus-wallet/internal/handlers"
	applogger "orus-wallet/internal/logger"
	"orus-wallet/internal/middleware"
	"orus-wallet/internal/repositories"
	"orus-wallet/internal/repositories/cache"
	"orus-wallet/internal/repositories/memstore"
	"orus-wallet/internal/routes"
	"orus-wallet/internal/services/auth"
	"orus-wallet/internal/services/notification"
	"orus-wallet/internal/services/payment"
	"orus-wallet/internal/services/receipt"
	"orus-wallet/internal/services/recurring"
	"orus-wallet/internal/services/refund"
	"orus-wallet/internal/services/transfer"
	"orus-wallet/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Opens the wallet store (PostgreSQL, or in memory for local runs)
// - Provisions the admin wallet
// - Configures routes
// - Starts the HTTP server
func main() {
	config.LoadEnv()
	cfg := config.Load()

	zlog, err := applogger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET must be set")
	}

	health := map[string]handlers.Checker{}

	var (
		walletRepo repositories.WalletRepository
		userRepo   repositories.UserRepository
	)
	switch cfg.Store {
	case config.StoreMemory:
		zlog.Warn("using in-memory store; data is lost on restart")
		walletRepo = memstore.NewWalletStore()
		userRepo = memstore.NewUserStore()
	default:
		db, err := repositories.Open(repositories.DBConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Name:            cfg.Database.Name,
			SSLMode:         cfg.Database.SSLMode,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		})
		if err != nil {
			zlog.Fatal("failed to open database", zap.Error(err))
		}
		defer func() {
			if err := repositories.Close(db); err != nil {
				zlog.Warn("failed to close database connection", zap.Error(err))
			}
		}()
		sqlDB, err := db.DB()
		if err != nil {
			zlog.Fatal("failed to get database instance", zap.Error(err))
		}
		health["database"] = sqlDB.PingContext
		walletRepo = repositories.NewWalletRepository(db)
		userRepo = repositories.NewUserRepository(db)
		zlog.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("name", cfg.Database.Name))
	}

	var walletCache wallet.Cache
	if cfg.Redis.Enabled() {
		cacheService := cache.NewCacheService(cache.NewRedisClient(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}), cfg.Redis.CacheTTL)
		defer func() {
			if err := cacheService.Close(); err != nil {
				zlog.Warn("failed to close redis connection", zap.Error(err))
			}
		}()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cacheService.HealthCheck(pingCtx); err != nil {
			zlog.Warn("redis unavailable, wallet cache disabled", zap.Error(err))
		} else {
			walletCache = cacheService
			health["redis"] = cacheService.HealthCheck
		}
		cancel()
	}

	var notifier notification.Notifier = notification.NewLogNotifier(zlog)
	if cfg.Kafka.Enabled() {
		writer := notification.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, zlog)
		defer writer.Close()
		notifier = notification.NewKafkaNotifier(writer, zlog)
		zlog.Info("kafka notifier enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.Topic))
	}

	walletService := wallet.NewService(walletRepo, walletCache,
		wallet.NewPrometheusMetrics(prometheus.DefaultRegisterer), zlog,
		wallet.Config{MaxAttempts: cfg.Ledger.MaxAttempts})

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	report, err := walletService.EnsureAdminWallet(bootCtx)
	cancel()
	if err != nil {
		zlog.Fatal("failed to provision admin wallet", zap.Error(err))
	}
	zlog.Info("admin wallet ready",
		zap.String("wallet_id", report.WalletID),
		zap.Bool("created", report.Created),
		zap.Bool("type_backfilled", report.TypeBackfilled))

	var paymentService *payment.Service
	if cfg.Stripe.SecretKey != "" {
		paymentService = payment.NewService(payment.NewStripeIntents(cfg.Stripe.SecretKey), walletService, zlog)
	} else {
		zlog.Info("STRIPE_SECRET_KEY not set, top-ups disabled")
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	app.Use("/api/wallet/transfer", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Services{
		Wallets: walletService,
		Transfers: transfer.NewService(walletService, userRepo, receipt.NewTextGenerator(), notifier, zlog,
			transfer.Config{SideEffectTimeout: cfg.Ledger.SideEffectTimeout}),
		Refunds:   refund.NewService(walletService, zlog),
		Recurring: recurring.NewService(walletService, userRepo, zlog),
		Payments:  paymentService,
		Accounts:  auth.NewService(userRepo, walletService, cfg.JWTSecret, config.GetDurationEnv("JWT_TTL", auth.DefaultTokenTTL), zlog),
		Auth:      middleware.NewAuthMiddleware(cfg.JWTSecret, userRepo, zlog),
		Health:    health,
		Gatherer:  prometheus.DefaultGatherer,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		zlog.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zlog.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Error("server stopped", zap.Error(err))
	}
}
