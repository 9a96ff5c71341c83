package wallet

import "context"

// Store is the durable ledger backing the wallet service: one account row per
// customer plus an append-only transaction log. Implementations must make
// SaveAccount conditional on Account.Version and report a lost race as
// ErrVersionConflict.
type Store interface {
	// GetAccount returns the account for a customer, or ErrAccountNotFound.
	GetAccount(ctx context.Context, customerID string) (Account, error)

	// CreateAccount provisions a new account. Returns ErrAccountExists if the
	// customer already has one.
	CreateAccount(ctx context.Context, acct Account) error

	// SaveAccount persists a mutated account if its version still matches the
	// stored row, bumping the version on success.
	SaveAccount(ctx context.Context, acct Account) error

	// AppendTransaction writes one history entry, assigning its ID and
	// creation timestamp, and returns the stored record.
	AppendTransaction(ctx context.Context, trx Transaction) (Transaction, error)

	// ListTransactions returns a customer's history in creation order.
	ListTransactions(ctx context.Context, customerID string, req PageRequest) (TransactionPage, error)
}
