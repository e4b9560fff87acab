package transfer

import (
	"context"

	"orus-wallet/internal/models"
	"orus-wallet/internal/services/receipt"
	"orus-wallet/internal/services/wallet"

	"go.uber.org/zap"
)

// Receipt regenerates the receipt of a committed transfer from its ledger
// legs. Other transactions have no receipt and yield nil.
func (s *Service) Receipt(ctx context.Context, legs *wallet.TransactionLegs) ([]byte, error) {
	if s.receipts == nil || legs == nil || legs.Debit == nil || legs.Credit == nil {
		return nil, nil
	}
	if legs.Debit.Line.TransactionCategory != models.CategoryWalletTransfer {
		return nil, nil
	}

	return s.receipts.GenerateTransferReceipt(ctx, receipt.TransferReceipt{
		TransactionID: legs.TransactionID,
		Amount:        legs.Amount,
		From:          s.legParty(ctx, legs.Debit),
		To:            s.legParty(ctx, legs.Credit),
		Timestamp:     legs.Debit.Line.Timestamp,
		Note:          legs.Debit.Line.Description,
	})
}

// legParty resolves the owner of a leg. A user that can no longer be read
// is printed by id.
func (s *Service) legParty(ctx context.Context, leg *wallet.Leg) receipt.Party {
	if leg.OwnerID == nil {
		return receipt.Party{ID: leg.WalletID, FullName: "Platform"}
	}
	u, err := s.users.GetByID(ctx, *leg.OwnerID)
	if err != nil {
		s.logger.Warn("receipt party lookup failed",
			zap.String("user_id", *leg.OwnerID), zap.Error(err))
		return receipt.Party{ID: *leg.OwnerID}
	}
	return party(u)
}
