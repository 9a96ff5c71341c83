package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tags a transaction as money in or money out. Direction is
// carried by the type, never by the sign of the amount.
type TransactionType string

const (
	// TypeCredit marks a deposit.
	TypeCredit TransactionType = "CREDIT"
	// TypeDebit marks a withdrawal.
	TypeDebit TransactionType = "DEBIT"
)

// Account holds the available balance for a customer. There is exactly one
// account per customer and its currency never changes after provisioning.
type Account struct {
	CustomerID   string
	Amount       decimal.Decimal
	CurrencyCode string
	// Version is the optimistic-concurrency token checked by the store on
	// save. It backs up the striped lock, it does not replace it.
	Version   int64
	CreatedAt time.Time
}

// Transaction is one immutable entry in a customer's append-only history.
// The ID is assigned by the store in creation order.
type Transaction struct {
	ID           int64
	CustomerID   string
	Amount       decimal.Decimal
	CurrencyCode string
	Remarks      string
	Type         TransactionType
	CreatedAt    time.Time
}
