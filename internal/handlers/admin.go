package handlers

import (
	"orus-wallet/internal/services/ledger"
	"orus-wallet/internal/services/wallet"
	"orus-wallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	walletService *wallet.Service
}

func NewAdminHandler(walletService *wallet.Service) *AdminHandler {
	return &AdminHandler{walletService: walletService}
}

// ListBalances retrieves all wallet balances in a paginated manner.
func (h *AdminHandler) ListBalances(c *fiber.Ctx) error {
	balances, err := h.walletService.ListBalances(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	p := utils.GetPagination(c, 1, 50)
	return utils.Success(c, fiber.Map{
		"wallets":    utils.Paginate(balances, &p),
		"pagination": p,
	})
}

// GetWalletByID returns any wallet by its id.
func (h *AdminHandler) GetWalletByID(c *fiber.Ctx) error {
	w, err := h.walletService.GetWallet(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

// GetUserWallet returns a user's wallet with its history, both in the
// owner's categorized view and grouped by raw category.
func (h *AdminHandler) GetUserWallet(c *fiber.Ctx) error {
	w, view, err := h.walletService.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{
		"wallet":       w,
		"transactions": view,
		"byCategory":   ledger.GroupByCategory(w.Transactions),
	})
}

// GetAdminWallet returns the admin pool wallet, provisioning it if needed.
func (h *AdminHandler) GetAdminWallet(c *fiber.Ctx) error {
	w, err := h.walletService.AdminWallet(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

// Bootstrap re-runs the admin wallet bootstrap. It is safe to call repeatedly.
func (h *AdminHandler) Bootstrap(c *fiber.Ctx) error {
	report, err := h.walletService.EnsureAdminWallet(c.UserContext())
	if err != nil {
		return utils.Error(c, err)
	}
	return utils.Success(c, report)
}
