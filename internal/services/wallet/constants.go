package wallet

// Operation names used in logs and metrics.
const (
	OpCreateWallet   = "create_wallet"
	OpEnsureAdmin    = "ensure_admin_wallet"
	OpAdminWallet    = "admin_wallet"
	OpPay            = "wallet_payment"
	OpCredit         = "credit"
	OpTransfer       = "transfer"
	OpRefundRequest  = "refund_request"
	OpRefundProcess  = "refund_process"
	OpRecurringSetup = "recurring_schedule"
	OpRecurringStop  = "recurring_cancel"
	OpTopUp          = "wallet_topup"
)

// Results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Cache keys for metrics labels
const (
	CacheKeyWallet      = "wallet"
	CacheKeyAdminWallet = "admin_wallet"
)
