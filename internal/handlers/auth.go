package handlers

import (
	"orus-wallet/internal/services/auth"
	"orus-wallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	user, token, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{
		"user":         user,
		"access_token": token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	user, token, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"user":         user,
		"access_token": token,
	})
}
