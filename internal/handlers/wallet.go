package handlers

import (
	"context"

	"orus-wallet/internal/models"
	"orus-wallet/internal/services/wallet"
	"orus-wallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ReceiptRenderer regenerates transfer receipts for stored transactions.
type ReceiptRenderer interface {
	Receipt(ctx context.Context, legs *wallet.TransactionLegs) ([]byte, error)
}

type WalletHandler struct {
	walletService *wallet.Service
	receipts      ReceiptRenderer
}

// NewWalletHandler builds the wallet handler. receipts may be nil.
func NewWalletHandler(walletService *wallet.Service, receipts ReceiptRenderer) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		receipts:      receipts,
	}
}

// CreateWallet opens a user wallet for the caller.
func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.CreateWallet(c.UserContext(), claims.UserID, models.WalletTypeUser)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Created(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWalletByOwner(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

// GetHistory returns the caller's transactions split by category.
func (h *WalletHandler) GetHistory(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, view, err := h.walletService.History(c.UserContext(), claims.UserID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"walletId":     w.ID,
		"balance":      w.Balance,
		"transactions": view,
	})
}

func (h *WalletHandler) Pay(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount    decimal.Decimal `json:"amount"`
		BookingID string          `json:"bookingId"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	tx, err := h.walletService.Pay(c.UserContext(), claims.UserID, input.Amount, input.BookingID)
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":     "payment successful",
		"transaction": tx,
	})
}

// GetTransaction looks up both legs of a transaction. Users only see
// transactions they took part in. Transfers carry a regenerated receipt.
func (h *WalletHandler) GetTransaction(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	legs, err := h.walletService.FindTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	if claims.Role != models.RoleAdmin && !involves(legs, claims.UserID) {
		return utils.NotFound(c, "transaction not found")
	}

	resp := fiber.Map{"transaction": legs}
	if h.receipts != nil {
		doc, err := h.receipts.Receipt(c.UserContext(), legs)
		if err != nil {
			return utils.Error(c, err)
		}
		if doc != nil {
			resp["receipt"] = doc
		}
	}
	return utils.Success(c, resp)
}

func involves(legs *wallet.TransactionLegs, userID string) bool {
	for _, leg := range []*wallet.Leg{legs.Debit, legs.Credit} {
		if leg != nil && leg.OwnerID != nil && *leg.OwnerID == userID {
			return true
		}
	}
	return false
}
