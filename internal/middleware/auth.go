// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization for the fiber web framework.
package middleware

import (
	"context"
	"strings"

	"orus-wallet/internal/logger"
	"orus-wallet/internal/models"
	"orus-wallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserLookup confirms that the subject of a token still exists.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	secret string
	users  UserLookup
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, users UserLookup, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{secret: secret, users: users, logger: logger.OrNop(log)}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - Presence of Authorization header with Bearer token
// - Valid JWT signature and expiry
// - The user named by the token still exists
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseToken(m.secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.logger.Debug("token validation failed", zap.Error(err))
		return utils.Unauthorized(c, "invalid token")
	}

	if m.users != nil {
		if _, err := m.users.GetByID(c.UserContext(), claims.UserID); err != nil {
			m.logger.Warn("user from token not found", zap.String("user_id", claims.UserID))
			return utils.Unauthorized(c, "invalid token")
		}
	}

	c.Locals("claims", claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if claims.Role != models.RoleAdmin {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}
