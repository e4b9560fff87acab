// Package auth registers users and issues the access tokens the API
// middleware accepts.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	domainerrors "orus-wallet/internal/errors"
	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/repositories"
	"orus-wallet/internal/utils"
	"orus-wallet/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = domainerrors.Validation("INVALID_CREDENTIALS", "invalid credentials")
	ErrEmailTaken         = domainerrors.Validation("EMAIL_TAKEN", "email already registered")
)

// WalletOpener opens the wallet every new user starts with.
type WalletOpener interface {
	CreateWallet(ctx context.Context, ownerID string, walletType models.WalletType) (*models.Wallet, error)
}

type RegisterInput struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type service struct {
	userRepo repositories.UserRepository
	wallets  WalletOpener
	secret   string
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewService(userRepo repositories.UserRepository, wallets WalletOpener, secret string, tokenTTL time.Duration, log *zap.Logger) Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &service{
		userRepo: userRepo,
		wallets:  wallets,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   logger.OrNop(log),
	}
}

// Register creates a regular user with an empty wallet and returns an
// access token for it.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	v := validation.New()
	v.Email("email", input.Email)
	v.Required("fullName", input.FullName)
	v.MaxLength("fullName", input.FullName, validation.MaxNameLength)
	v.Password("password", input.Password)
	if err := v.Err(); err != nil {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        input.Email,
		FullName:     input.FullName,
		Role:         models.RoleUser,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	if _, err := s.wallets.CreateWallet(ctx, user.ID, models.WalletTypeUser); err != nil {
		s.logger.Error("failed to open wallet for new user", zap.String("user_id", user.ID), zap.Error(err))
		return nil, "", err
	}

	token, err := utils.GenerateToken(s.secret, user, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.logger.Debug("login failed: unknown email")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("login failed: wrong password", zap.String("user_id", user.ID))
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.secret, user, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
