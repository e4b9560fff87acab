package handlers

import (
	"orus-wallet/internal/services/payment"
	"orus-wallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payments *payment.Service
}

func NewPaymentHandler(payments *payment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// TopUp credits the caller's wallet from a succeeded Stripe PaymentIntent.
// Replaying the same intent returns the original transaction.
func (h *PaymentHandler) TopUp(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	res, err := h.payments.TopUp(c.UserContext(), claims.UserID, input.PaymentIntentID)
	if err != nil {
		return utils.Error(c, err)
	}
	status := fiber.StatusCreated
	if !res.Applied {
		status = fiber.StatusOK
	}
	return utils.Respond(c, status, res)
}
