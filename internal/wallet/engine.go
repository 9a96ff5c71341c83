package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Deposit and withdrawal bounds. Fixed product limits, not configuration.
var (
	minimumDeposit    = decimal.NewFromInt(10)
	maximumDeposit    = decimal.NewFromInt(10_000)
	maximumWithdrawal = decimal.NewFromInt(5_000)
)

// checkDepositBounds validates a deposit amount independently of any account.
func checkDepositBounds(amount decimal.Decimal) error {
	if amount.LessThan(minimumDeposit) {
		return fmt.Errorf("%w: minimum deposit allowed is %s", ErrDepositBelowMinimum, minimumDeposit)
	}
	if amount.GreaterThan(maximumDeposit) {
		return fmt.Errorf("%w: maximum deposit allowed is %s", ErrDepositAboveMaximum, maximumDeposit)
	}
	return nil
}

// checkWithdrawalBounds validates a withdrawal amount independently of any account.
func checkWithdrawalBounds(amount decimal.Decimal) error {
	if amount.GreaterThan(maximumWithdrawal) {
		return fmt.Errorf("%w: maximum withdrawal allowed is %s", ErrWithdrawalAboveMaximum, maximumWithdrawal)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrNegativeWithdrawal, amount)
	}
	return nil
}

// applyDeposit validates a deposit against an account snapshot and returns the
// snapshot with the new balance. Pure computation: persistence is the caller's
// job.
func applyDeposit(acct Account, currency string, amount decimal.Decimal) (Account, error) {
	if err := checkDepositBounds(amount); err != nil {
		return Account{}, err
	}
	if currency != acct.CurrencyCode {
		return Account{}, fmt.Errorf("%w: the account is not denominated in %s", ErrCurrencyMismatch, currency)
	}
	acct.Amount = acct.Amount.Add(amount)
	return acct, nil
}

// applyWithdrawal validates a withdrawal against an account snapshot and
// returns the snapshot with the new balance.
func applyWithdrawal(acct Account, currency string, amount decimal.Decimal) (Account, error) {
	if currency != acct.CurrencyCode {
		return Account{}, fmt.Errorf("%w: the account is not denominated in %s", ErrCurrencyMismatch, currency)
	}
	if err := checkWithdrawalBounds(amount); err != nil {
		return Account{}, err
	}
	if amount.GreaterThan(acct.Amount) {
		return Account{}, fmt.Errorf("%w: trying to withdraw %s but the balance is %s",
			ErrInsufficientBalance, amount, acct.Amount)
	}
	acct.Amount = acct.Amount.Sub(amount)
	return acct, nil
}

// validCurrencyCode reports whether code looks like an ISO 4217 alphabetic
// currency code: exactly three ASCII upper-case letters.
func validCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}
