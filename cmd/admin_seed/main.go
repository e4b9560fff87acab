package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"orus-wallet/internal/config"
	applogger "orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories"
	"orus-wallet/internal/services/wallet"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := config.GetEnv("ADMIN_NAME", "Administrator")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	zlog, err := applogger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repositories.NewUserRepository(db)
	existing, err := users.GetByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		zlog.Info("admin user already exists", zap.String("user_id", existing.ID))
	case errors.Is(err, repositories.ErrUserNotFound):
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			zlog.Fatal("failed to hash password", zap.Error(err))
		}
		admin := &models.User{
			Email:        adminEmail,
			FullName:     adminName,
			Role:         models.RoleAdmin,
			PasswordHash: string(hashedPassword),
		}
		if err := users.Create(ctx, admin); err != nil {
			zlog.Fatal("failed to create admin user", zap.Error(err))
		}
		zlog.Info("admin account created", zap.String("user_id", admin.ID))
	default:
		zlog.Fatal("failed to look up admin user", zap.Error(err))
	}

	// The admin user spends from the shared admin wallet, so make sure it exists.
	wallets := wallet.NewService(repositories.NewWalletRepository(db), nil, nil, zlog, wallet.Config{
		MaxAttempts: cfg.Ledger.MaxAttempts,
	})
	report, err := wallets.EnsureAdminWallet(ctx)
	if err != nil {
		zlog.Fatal("failed to provision admin wallet", zap.Error(err))
	}
	zlog.Info("admin wallet ready",
		zap.String("wallet_id", report.WalletID),
		zap.Bool("created", report.Created),
		zap.Int("legacy_transactions", report.LegacyTransactions))
}
