package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/moyo-pay/moyo_wallet/internal/locking"
	"github.com/moyo-pay/moyo_wallet/internal/notification"
)

// Service is the wallet entry point. Mutations run through the striped lock
// so that at most one deposit or withdrawal is in flight per customer, while
// unrelated customers proceed in parallel. Reads go straight to the store.
type Service struct {
	store    Store
	locks    *locking.Striped
	notifier notification.Notifier
}

// NewService builds a wallet service. The lock pool is injected so tests can
// shrink the stripe count and exercise collisions. notifier may be nil.
func NewService(store Store, locks *locking.Striped, notifier notification.Notifier) *Service {
	return &Service{store: store, locks: locks, notifier: notifier}
}

// CreateAccount provisions a zero-balance account with a fixed currency.
func (s *Service) CreateAccount(ctx context.Context, customerID, currency string) (Account, error) {
	if customerID == "" {
		return Account{}, fmt.Errorf("customer id is required")
	}
	if !validCurrencyCode(currency) {
		return Account{}, fmt.Errorf("%w: %q is not an ISO 4217 alphabetic code", ErrInvalidCurrency, currency)
	}
	acct := Account{CustomerID: customerID, Amount: decimal.Zero, CurrencyCode: currency}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		return Account{}, err
	}
	return s.store.GetAccount(ctx, customerID)
}

// Balance returns the current account snapshot for a customer.
func (s *Service) Balance(ctx context.Context, customerID string) (Account, error) {
	return s.store.GetAccount(ctx, customerID)
}

// Deposit credits the customer's account. Validation failures leave nothing
// persisted; on success the balance update and one CREDIT entry are written.
func (s *Service) Deposit(ctx context.Context, customerID, currency string, amount decimal.Decimal, remark string) error {
	return s.locks.Do(ctx, customerID, func() error {
		return s.deposit(ctx, customerID, currency, amount, remark)
	})
}

func (s *Service) deposit(ctx context.Context, customerID, currency string, amount decimal.Decimal, remark string) error {
	acct, err := s.store.GetAccount(ctx, customerID)
	switch {
	case err == nil:
		updated, applyErr := applyDeposit(acct, currency, amount)
		if applyErr != nil {
			return applyErr
		}
		if saveErr := s.store.SaveAccount(ctx, updated); saveErr != nil {
			return saveErr
		}
	case errors.Is(err, ErrAccountNotFound):
		// Unprovisioned customer: the balance update is skipped, but a
		// transaction is still recorded below once the amount bounds pass.
		// TODO: this leaves an orphan entry with no balance change; decide
		// whether mutations should require a provisioned account instead.
		if boundsErr := checkDepositBounds(amount); boundsErr != nil {
			return boundsErr
		}
	default:
		return err
	}

	return s.record(ctx, Transaction{
		CustomerID:   customerID,
		Amount:       amount,
		CurrencyCode: currency,
		Remarks:      remark,
		Type:         TypeCredit,
	})
}

// Withdraw debits the customer's account under the same persistence rules as
// Deposit.
func (s *Service) Withdraw(ctx context.Context, customerID, currency string, amount decimal.Decimal, remark string) error {
	return s.locks.Do(ctx, customerID, func() error {
		return s.withdraw(ctx, customerID, currency, amount, remark)
	})
}

func (s *Service) withdraw(ctx context.Context, customerID, currency string, amount decimal.Decimal, remark string) error {
	acct, err := s.store.GetAccount(ctx, customerID)
	switch {
	case err == nil:
		updated, applyErr := applyWithdrawal(acct, currency, amount)
		if applyErr != nil {
			return applyErr
		}
		if saveErr := s.store.SaveAccount(ctx, updated); saveErr != nil {
			return saveErr
		}
	case errors.Is(err, ErrAccountNotFound):
		if boundsErr := checkWithdrawalBounds(amount); boundsErr != nil {
			return boundsErr
		}
	default:
		return err
	}

	return s.record(ctx, Transaction{
		CustomerID:   customerID,
		Amount:       amount,
		CurrencyCode: currency,
		Remarks:      remark,
		Type:         TypeDebit,
	})
}

// Transactions returns the customer's history in creation order. Reads take
// no lock: the log is append-only and a reader may observe the state before
// or after a concurrent write.
func (s *Service) Transactions(ctx context.Context, customerID string, req PageRequest) (TransactionPage, error) {
	return s.store.ListTransactions(ctx, customerID, req)
}

func (s *Service) record(ctx context.Context, trx Transaction) error {
	stored, err := s.store.AppendTransaction(ctx, trx)
	if err != nil {
		return err
	}
	if s.notifier != nil {
		// Best effort: a failed alert never fails the mutation.
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindTransaction,
			Destination: stored.CustomerID,
			Body:        fmt.Sprintf("%s %s %s", stored.Type, stored.Amount, stored.CurrencyCode),
		})
	}
	return nil
}
