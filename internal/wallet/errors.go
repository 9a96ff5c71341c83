package wallet

import "errors"

var (
	// ErrAccountNotFound indicates no account is provisioned for the customer.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists indicates the customer already has an account.
	ErrAccountExists = errors.New("account already exists")

	// ErrDepositBelowMinimum rejects deposits under the minimum allowed amount.
	ErrDepositBelowMinimum = errors.New("deposit below minimum")

	// ErrDepositAboveMaximum rejects deposits over the maximum allowed amount.
	ErrDepositAboveMaximum = errors.New("deposit above maximum")

	// ErrWithdrawalAboveMaximum rejects withdrawals over the maximum allowed amount.
	ErrWithdrawalAboveMaximum = errors.New("withdrawal above maximum")

	// ErrNegativeWithdrawal rejects withdrawal requests with a negative amount.
	ErrNegativeWithdrawal = errors.New("withdrawal amount cannot be negative")

	// ErrInsufficientBalance rejects withdrawals exceeding the available balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCurrencyMismatch indicates the request currency does not match the
	// account's currency.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidCurrency rejects currency codes that are not ISO 4217 alphabetic.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrVersionConflict is surfaced by the store when a concurrent writer got
	// there first. It is a hard failure: retrying without re-validating could
	// break the bound checks, so callers must not retry blindly.
	ErrVersionConflict = errors.New("optimistic version conflict")
)
