package handlers

import (
	"orus-wallet/internal/models"
	"orus-wallet/internal/services/refund"
	"orus-wallet/internal/utils"
	"orus-wallet/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RefundHandler struct {
	refunds *refund.Service
}

func NewRefundHandler(refunds *refund.Service) *RefundHandler {
	return &RefundHandler{refunds: refunds}
}

func (h *RefundHandler) RequestRefund(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
		Reason string          `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	v := validation.New()
	v.MaxLength("reason", input.Reason, validation.MaxDescriptionLength)
	if err := v.Err(); err != nil {
		return utils.Error(c, err)
	}

	r, err := h.refunds.RequestRefund(c.UserContext(), claims.UserID, input.Amount, input.Reason)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{
		"message":       "refund request submitted",
		"refundRequest": r,
	})
}

// GetRefund returns one refund request. Non-admins only see their own.
func (h *RefundHandler) GetRefund(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	r, err := h.refunds.GetRefund(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	if claims.Role != models.RoleAdmin && r.UserID != claims.UserID {
		return utils.NotFound(c, "refund request not found")
	}
	return utils.Success(c, r)
}

// ListRefunds lists refund requests, pending ones unless ?status= says
// otherwise.
func (h *RefundHandler) ListRefunds(c *fiber.Ctx) error {
	var (
		list []models.PendingRefund
		err  error
	)
	if status := models.RefundStatus(c.Query("status")); status == "" {
		list, err = h.refunds.ListPending(c.UserContext())
	} else if !status.Valid() {
		return utils.BadRequest(c, "invalid refund status")
	} else {
		list, err = h.refunds.ListByStatus(c.UserContext(), status)
	}
	if err != nil {
		return utils.Error(c, err)
	}
	p := utils.GetPagination(c, 1, 50)
	return utils.Success(c, fiber.Map{
		"refunds":    utils.Paginate(list, &p),
		"pagination": p,
	})
}

// ProcessRefund approves or rejects a refund. The owning user is resolved
// from the refund when the body does not name one.
func (h *RefundHandler) ProcessRefund(c *fiber.Ctx) error {
	var input struct {
		UserID string        `json:"userId"`
		Action refund.Action `json:"action"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	refundID := c.Params("id")
	if input.UserID == "" {
		r, err := h.refunds.GetRefund(c.UserContext(), refundID)
		if err != nil {
			return utils.Error(c, err)
		}
		input.UserID = r.UserID
	}

	out, err := h.refunds.ProcessRefund(c.UserContext(), refundID, input.UserID, input.Action)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message": "refund " + string(out.Refund.Status),
		"outcome": out,
	})
}
