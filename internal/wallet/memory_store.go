package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account
	log      []Transaction
	nextID   int64
}

// NewMemoryStore constructs an in-memory store used by unit tests and by the
// server when no database is configured.
func NewMemoryStore() Store {
	return &memoryStore{accounts: make(map[string]Account), nextID: 1}
}

func (s *memoryStore) GetAccount(_ context.Context, customerID string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[customerID]
	if !ok {
		return Account{}, fmt.Errorf("%w: customer %s", ErrAccountNotFound, customerID)
	}
	return acct, nil
}

func (s *memoryStore) CreateAccount(_ context.Context, acct Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[acct.CustomerID]; exists {
		return fmt.Errorf("%w: customer %s", ErrAccountExists, acct.CustomerID)
	}
	acct.Version = 0
	acct.CreatedAt = time.Now().UTC()
	s.accounts[acct.CustomerID] = acct
	return nil
}

func (s *memoryStore) SaveAccount(_ context.Context, acct Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.accounts[acct.CustomerID]
	if !ok {
		return fmt.Errorf("%w: customer %s", ErrAccountNotFound, acct.CustomerID)
	}
	if current.Version != acct.Version {
		return fmt.Errorf("%w: customer %s version %d", ErrVersionConflict, acct.CustomerID, acct.Version)
	}
	acct.Version++
	s.accounts[acct.CustomerID] = acct
	return nil
}

func (s *memoryStore) AppendTransaction(_ context.Context, trx Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trx.ID = s.nextID
	s.nextID++
	trx.CreatedAt = time.Now().UTC()
	s.log = append(s.log, trx)
	return trx, nil
}

func (s *memoryStore) ListTransactions(_ context.Context, customerID string, req PageRequest) (TransactionPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []Transaction
	for _, trx := range s.log {
		if trx.CustomerID == customerID {
			matched = append(matched, trx)
		}
	}
	total := int64(len(matched))

	if req.Unpaged() {
		return newTransactionPage(matched, req, total), nil
	}

	start := req.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Size
	if end > len(matched) {
		end = len(matched)
	}
	return newTransactionPage(matched[start:end], req, total), nil
}
