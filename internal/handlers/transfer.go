package handlers

import (
	"time"

	"orus-wallet/internal/models"
	"orus-wallet/internal/services/recurring"
	"orus-wallet/internal/services/transfer"
	"orus-wallet/internal/utils"
	"orus-wallet/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// TransferHandler exposes P2P transfer and recurring schedule endpoints.
type TransferHandler struct {
	transfers *transfer.Service
	recurring *recurring.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(t *transfer.Service, r *recurring.Service) *TransferHandler {
	return &TransferHandler{transfers: t, recurring: r}
}

type transferInput struct {
	RecipientID string          `json:"recipientId"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note"`
	IsRecurring bool            `json:"isRecurring"`
	Frequency   string          `json:"frequency"`
	StartDate   *time.Time      `json:"startDate"`
}

// Transfer handles POST /wallet/transfer. With isRecurring set the request
// only stores a schedule; no money moves until the next transfer to the
// same recipient.
func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var req transferInput
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "invalid request")
	}
	v := validation.New()
	v.MaxLength("note", req.Note, validation.MaxDescriptionLength)
	if err := v.Err(); err != nil {
		return utils.Error(c, err)
	}

	if req.IsRecurring {
		if req.StartDate == nil {
			return utils.BadRequest(c, "startDate is required for recurring payments")
		}
		p, err := h.recurring.Schedule(c.UserContext(), recurring.ScheduleRequest{
			SenderUserID:    claims.UserID,
			RecipientUserID: req.RecipientID,
			Amount:          req.Amount,
			Note:            req.Note,
			Frequency:       models.Frequency(req.Frequency),
			StartDate:       *req.StartDate,
		})
		if err != nil {
			return utils.Error(c, err)
		}
		return utils.Created(c, fiber.Map{
			"message":          "recurring payment scheduled",
			"recurringPayment": p,
		})
	}

	res, err := h.transfers.Transfer(c.UserContext(), transfer.Request{
		SenderUserID:    claims.UserID,
		RecipientUserID: req.RecipientID,
		Amount:          req.Amount,
		Note:            req.Note,
	})
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":  "transfer completed",
		"transfer": res,
	})
}

func (h *TransferHandler) ListRecurring(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	list, err := h.recurring.List(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"recurringPayments": list})
}

func (h *TransferHandler) CancelRecurring(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p, err := h.recurring.Cancel(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":          "recurring payment cancelled",
		"recurringPayment": p,
	})
}
