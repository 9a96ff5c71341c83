package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists accounts and the transaction log in PostgreSQL.
//
// Expected schema:
//
//	CREATE TABLE wallet_accounts (
//	    customer_id   TEXT PRIMARY KEY,
//	    amount        NUMERIC(21,2) NOT NULL,
//	    currency_code TEXT NOT NULL,
//	    version       BIGINT NOT NULL DEFAULT 0,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE TABLE wallet_transactions (
//	    id            BIGSERIAL PRIMARY KEY,
//	    customer_id   TEXT NOT NULL,
//	    amount        NUMERIC(21,2) NOT NULL,
//	    currency_code TEXT NOT NULL,
//	    remarks       TEXT,
//	    type          TEXT NOT NULL,
//	    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetAccount(ctx context.Context, customerID string) (Account, error) {
	const query = `SELECT customer_id, amount, currency_code, version, created_at
        FROM wallet_accounts WHERE customer_id = $1`
	var acct Account
	err := s.db.QueryRow(ctx, query, customerID).
		Scan(&acct.CustomerID, &acct.Amount, &acct.CurrencyCode, &acct.Version, &acct.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, fmt.Errorf("%w: customer %s", ErrAccountNotFound, customerID)
		}
		return Account{}, err
	}
	return acct, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, acct Account) error {
	_, err := s.db.Exec(ctx, `INSERT INTO wallet_accounts (customer_id, amount, currency_code)
        VALUES ($1, $2, $3)`, acct.CustomerID, acct.Amount, acct.CurrencyCode)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: customer %s", ErrAccountExists, acct.CustomerID)
		}
		return err
	}
	return nil
}

// SaveAccount writes the new balance only if the row still carries the version
// the caller read. A zero row count means a concurrent writer won the race.
func (s *PostgresStore) SaveAccount(ctx context.Context, acct Account) error {
	tag, err := s.db.Exec(ctx, `UPDATE wallet_accounts
        SET amount = $2, version = version + 1
        WHERE customer_id = $1 AND version = $3`,
		acct.CustomerID, acct.Amount, acct.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s version %d", ErrVersionConflict, acct.CustomerID, acct.Version)
	}
	return nil
}

func (s *PostgresStore) AppendTransaction(ctx context.Context, trx Transaction) (Transaction, error) {
	const query = `INSERT INTO wallet_transactions (customer_id, amount, currency_code, remarks, type)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	err := s.db.QueryRow(ctx, query, trx.CustomerID, trx.Amount, trx.CurrencyCode, trx.Remarks, string(trx.Type)).
		Scan(&trx.ID, &trx.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return trx, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, customerID string, req PageRequest) (TransactionPage, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM wallet_transactions WHERE customer_id = $1`,
		customerID).Scan(&total); err != nil {
		return TransactionPage{}, err
	}

	query := `SELECT id, customer_id, amount, currency_code, COALESCE(remarks, ''), type, created_at
        FROM wallet_transactions WHERE customer_id = $1 ORDER BY id`
	args := []any{customerID}
	if !req.Unpaged() {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, req.Size, req.Offset())
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return TransactionPage{}, err
	}
	defer rows.Close()

	var items []Transaction
	for rows.Next() {
		var trx Transaction
		var kind string
		if err := rows.Scan(&trx.ID, &trx.CustomerID, &trx.Amount, &trx.CurrencyCode,
			&trx.Remarks, &kind, &trx.CreatedAt); err != nil {
			return TransactionPage{}, err
		}
		trx.Type = TransactionType(kind)
		items = append(items, trx)
	}
	if err := rows.Err(); err != nil {
		return TransactionPage{}, err
	}

	return newTransactionPage(items, req, total), nil
}
