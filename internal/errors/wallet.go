package errors

var (
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
	}
	ErrMissingCategory = &DomainError{
		Kind:    KindValidation,
		Code:    "MISSING_CATEGORY",
		Message: "transaction category is required",
	}
	ErrSelfTransfer = &DomainError{
		Kind:    KindValidation,
		Code:    "SELF_TRANSFER",
		Message: "sender and recipient cannot be the same",
	}
	ErrInsufficientBalance = &DomainError{
		Kind:    KindInsufficientFunds,
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrUserNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrWalletExists = &DomainError{
		Kind:    KindValidation,
		Code:    "WALLET_EXISTS",
		Message: "wallet already exists",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrRefundNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "REFUND_NOT_FOUND",
		Message: "refund request not found",
	}
	ErrRefundProcessed = &DomainError{
		Kind:    KindInvalidState,
		Code:    "REFUND_ALREADY_PROCESSED",
		Message: "refund request has already been processed",
	}
	ErrRecurringNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "RECURRING_NOT_FOUND",
		Message: "recurring payment not found",
	}
	ErrRecurringCancelled = &DomainError{
		Kind:    KindInvalidState,
		Code:    "RECURRING_CANCELLED",
		Message: "recurring payment is cancelled",
	}
	ErrRetriesExhausted = &DomainError{
		Kind:    KindConflict,
		Code:    "RETRIES_EXHAUSTED",
		Message: "wallet was modified concurrently, retries exhausted",
	}
)
