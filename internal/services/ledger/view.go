package ledger

import "orus-wallet/internal/models"

// Categorized is the grouped history shown to wallet owners.
type Categorized struct {
	WalletPayments []models.Transaction `json:"walletPayments"`
	Debits         []models.Transaction `json:"debits"`
	Credits        []models.Transaction `json:"credits"`
	Transfers      []models.Transaction `json:"transfers"`
	Refunds        []models.Transaction `json:"refunds"`
}

// Categorize splits txs by category. Transfers get their own bucket; any
// other category falls back to its debit/credit type.
func Categorize(txs []models.Transaction) Categorized {
	out := Categorized{
		WalletPayments: []models.Transaction{},
		Debits:         []models.Transaction{},
		Credits:        []models.Transaction{},
		Transfers:      []models.Transaction{},
		Refunds:        []models.Transaction{},
	}
	for _, tx := range txs {
		tx.TransactionCategory = CategoryOf(tx)
		switch tx.TransactionCategory {
		case models.CategoryWalletPayment:
			out.WalletPayments = append(out.WalletPayments, tx)
		case models.CategoryRefund:
			out.Refunds = append(out.Refunds, tx)
		case models.CategoryWalletTransfer:
			out.Transfers = append(out.Transfers, tx)
		default:
			if tx.Type == models.TransactionTypeDebit {
				out.Debits = append(out.Debits, tx)
			} else {
				out.Credits = append(out.Credits, tx)
			}
		}
	}
	return out
}

// GroupByCategory keys txs by category, preserving order within a group.
func GroupByCategory(txs []models.Transaction) map[string][]models.Transaction {
	out := make(map[string][]models.Transaction)
	for _, tx := range txs {
		c := CategoryOf(tx)
		tx.TransactionCategory = c
		out[c] = append(out[c], tx)
	}
	return out
}
