package wallet

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/moyo-pay/moyo_wallet/internal/locking"
)

func newTestService(store Store) *Service {
	return NewService(store, locking.NewStriped(locking.DefaultStripes), nil)
}

func TestCreateAccount(t *testing.T) {
	svc := newTestService(NewMemoryStore())
	ctx := context.Background()
	customerID := uuid.NewString()

	acct, err := svc.CreateAccount(ctx, customerID, "GBP")
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if !acct.Amount.IsZero() {
		t.Fatalf("new account must start at zero, got %s", acct.Amount)
	}
	if acct.CurrencyCode != "GBP" {
		t.Fatalf("expected GBP, got %s", acct.CurrencyCode)
	}

	if _, err := svc.CreateAccount(ctx, customerID, "GBP"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, err := svc.CreateAccount(ctx, uuid.NewString(), "pounds"); !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected invalid currency, got %v", err)
	}
}

func TestDepositWithdrawFlow(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	customerID := uuid.NewString()
	if _, err := svc.CreateAccount(ctx, customerID, "GBP"); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := svc.Deposit(ctx, customerID, "GBP", decimal.NewFromInt(10), "first deposit"); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	acct, err := svc.Balance(ctx, customerID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !acct.Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected balance 10, got %s", acct.Amount)
	}

	page, err := svc.Transactions(ctx, customerID, PageRequest{})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(page.Items))
	}
	if page.Items[0].Type != TypeCredit || !page.Items[0].Amount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected first transaction: %+v", page.Items[0])
	}
	if page.Items[0].Remarks != "first deposit" {
		t.Fatalf("expected remark to be stored, got %q", page.Items[0].Remarks)
	}

	if err := svc.Withdraw(ctx, customerID, "GBP", decimal.NewFromInt(5), ""); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	acct, _ = svc.Balance(ctx, customerID)
	if !acct.Amount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected balance 5, got %s", acct.Amount)
	}
	page, _ = svc.Transactions(ctx, customerID, PageRequest{})
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(page.Items))
	}
	if page.Items[1].Type != TypeDebit {
		t.Fatalf("expected DEBIT second, got %s", page.Items[1].Type)
	}

	// A deposit for another customer leaves the first untouched.
	otherID := uuid.NewString()
	if _, err := svc.CreateAccount(ctx, otherID, "GBP"); err != nil {
		t.Fatalf("create other: %v", err)
	}
	if err := svc.Deposit(ctx, otherID, "GBP", decimal.NewFromInt(42), ""); err != nil {
		t.Fatalf("deposit other: %v", err)
	}
	acct, _ = svc.Balance(ctx, customerID)
	if !acct.Amount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("first customer balance changed: %s", acct.Amount)
	}
}

func TestValidationFailurePersistsNothing(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	customerID := uuid.NewString()
	SeedAccount(store, Account{CustomerID: customerID, Amount: decimal.NewFromInt(100), CurrencyCode: "GBP"})

	if err := svc.Withdraw(ctx, customerID, "GBP", decimal.NewFromInt(200), ""); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if err := svc.Deposit(ctx, customerID, "USD", decimal.NewFromInt(50), ""); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected currency mismatch, got %v", err)
	}

	acct, _ := svc.Balance(ctx, customerID)
	if !acct.Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance changed after rejected operations: %s", acct.Amount)
	}
	page, _ := svc.Transactions(ctx, customerID, PageRequest{})
	if len(page.Items) != 0 {
		t.Fatalf("rejected operations must not record transactions, got %d", len(page.Items))
	}
}

func TestConcurrentDepositsSameCustomer(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	customerID := uuid.NewString()
	SeedAccount(store, Account{CustomerID: customerID, Amount: decimal.Zero, CurrencyCode: "GBP"})

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Deposit(ctx, customerID, "GBP", decimal.NewFromInt(10), ""); err != nil {
				t.Errorf("deposit: %v", err)
			}
		}()
	}
	wg.Wait()

	acct, err := svc.Balance(ctx, customerID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if want := decimal.NewFromInt(workers * 10); !acct.Amount.Equal(want) {
		t.Fatalf("lost update: expected %s, got %s", want, acct.Amount)
	}
	page, _ := svc.Transactions(ctx, customerID, PageRequest{})
	if len(page.Items) != workers {
		t.Fatalf("expected %d transactions, got %d", workers, len(page.Items))
	}
}

// gatedStore blocks reads for one customer until released, so a test can pin
// that customer's mutation inside the lock.
type gatedStore struct {
	Store
	customerID string
	entered    chan struct{}
	release    chan struct{}
	once       sync.Once
}

func (g *gatedStore) GetAccount(ctx context.Context, customerID string) (Account, error) {
	if customerID == g.customerID {
		g.once.Do(func() { close(g.entered) })
		<-g.release
	}
	return g.Store.GetAccount(ctx, customerID)
}

// stripeIndex mirrors the lock pool's key mapping so tests can pick keys that
// are guaranteed to land on different stripes.
func stripeIndex(key string, stripes int) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(stripes))
}

func TestDifferentCustomersDoNotBlock(t *testing.T) {
	mem := NewMemoryStore()
	slowID := uuid.NewString()
	fastID := uuid.NewString()
	for stripeIndex(fastID, locking.DefaultStripes) == stripeIndex(slowID, locking.DefaultStripes) {
		fastID = uuid.NewString()
	}
	SeedAccount(mem, Account{CustomerID: slowID, Amount: decimal.NewFromInt(100), CurrencyCode: "GBP"})
	SeedAccount(mem, Account{CustomerID: fastID, Amount: decimal.NewFromInt(100), CurrencyCode: "GBP"})

	gated := &gatedStore{Store: mem, customerID: slowID, entered: make(chan struct{}), release: make(chan struct{})}
	svc := newTestService(gated)
	ctx := context.Background()

	go func() {
		_ = svc.Withdraw(ctx, slowID, "GBP", decimal.NewFromInt(10), "")
	}()
	<-gated.entered
	defer close(gated.release)

	// The slow customer is parked inside its stripe; the other customer must
	// still get through.
	done := make(chan error, 1)
	go func() {
		done <- svc.Deposit(ctx, fastID, "GBP", decimal.NewFromInt(10), "")
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("deposit for unrelated customer: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("unrelated customer blocked behind another customer's operation")
	}
}

func TestMissingAccountStillRecordsTransaction(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	customerID := uuid.NewString()

	if err := svc.Deposit(ctx, customerID, "GBP", decimal.NewFromInt(50), "orphan"); err != nil {
		t.Fatalf("deposit without account: %v", err)
	}
	if _, err := svc.Balance(ctx, customerID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("no account must exist, got %v", err)
	}
	page, err := svc.Transactions(ctx, customerID, PageRequest{})
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected the orphan transaction to be recorded, got %d", len(page.Items))
	}

	// Amount bounds still apply without an account.
	if err := svc.Deposit(ctx, customerID, "GBP", decimal.NewFromInt(5), ""); !errors.Is(err, ErrDepositBelowMinimum) {
		t.Fatalf("expected below minimum, got %v", err)
	}
	if err := svc.Withdraw(ctx, customerID, "GBP", decimal.NewFromInt(-1), ""); !errors.Is(err, ErrNegativeWithdrawal) {
		t.Fatalf("expected negative withdrawal, got %v", err)
	}
	if err := svc.Withdraw(ctx, customerID, "GBP", decimal.NewFromInt(6_000), ""); !errors.Is(err, ErrWithdrawalAboveMaximum) {
		t.Fatalf("expected above maximum, got %v", err)
	}
	page, _ = svc.Transactions(ctx, customerID, PageRequest{})
	if len(page.Items) != 1 {
		t.Fatalf("rejected operations must not add transactions, got %d", len(page.Items))
	}
}

// conflictStore fails every save with a version conflict and counts attempts.
type conflictStore struct {
	Store
	saves int
}

func (c *conflictStore) SaveAccount(context.Context, Account) error {
	c.saves++
	return fmt.Errorf("%w: stale write", ErrVersionConflict)
}

func TestVersionConflictIsHardFailure(t *testing.T) {
	mem := NewMemoryStore()
	customerID := uuid.NewString()
	SeedAccount(mem, Account{CustomerID: customerID, Amount: decimal.NewFromInt(100), CurrencyCode: "GBP"})

	cs := &conflictStore{Store: mem}
	svc := newTestService(cs)

	err := svc.Deposit(context.Background(), customerID, "GBP", decimal.NewFromInt(10), "")
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if cs.saves != 1 {
		t.Fatalf("conflict must not be retried, got %d save attempts", cs.saves)
	}
	page, _ := svc.Transactions(context.Background(), customerID, PageRequest{})
	if len(page.Items) != 0 {
		t.Fatalf("failed save must not record a transaction, got %d", len(page.Items))
	}
}

func TestTransactionsPagination(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	customerID := uuid.NewString()
	SeedAccount(store, Account{CustomerID: customerID, Amount: decimal.Zero, CurrencyCode: "GBP"})

	for i := 0; i < 100; i++ {
		if err := svc.Deposit(ctx, customerID, "GBP", decimal.NewFromInt(10), fmt.Sprintf("deposit %d", i)); err != nil {
			t.Fatalf("deposit %d: %v", i, err)
		}
	}

	full, err := svc.Transactions(ctx, customerID, PageRequest{})
	if err != nil {
		t.Fatalf("unpaged: %v", err)
	}
	if len(full.Items) != 100 || full.TotalItems != 100 || full.TotalPages != 1 {
		t.Fatalf("unexpected unpaged result: items=%d total=%d pages=%d", len(full.Items), full.TotalItems, full.TotalPages)
	}
	for i := 1; i < len(full.Items); i++ {
		if full.Items[i].ID <= full.Items[i-1].ID {
			t.Fatalf("history not in creation order at %d: %d after %d", i, full.Items[i].ID, full.Items[i-1].ID)
		}
	}

	for pageIdx := 0; pageIdx < 10; pageIdx++ {
		page, err := svc.Transactions(ctx, customerID, PageRequest{Page: pageIdx, Size: 10})
		if err != nil {
			t.Fatalf("page %d: %v", pageIdx, err)
		}
		if len(page.Items) != 10 {
			t.Fatalf("page %d: expected 10 items, got %d", pageIdx, len(page.Items))
		}
		if page.TotalItems != 100 || page.TotalPages != 10 {
			t.Fatalf("page %d: bad metadata total=%d pages=%d", pageIdx, page.TotalItems, page.TotalPages)
		}
		for i, trx := range page.Items {
			if want := full.Items[pageIdx*10+i]; trx.ID != want.ID {
				t.Fatalf("page %d item %d: expected id %d, got %d", pageIdx, i, want.ID, trx.ID)
			}
		}
	}

	beyond, err := svc.Transactions(ctx, customerID, PageRequest{Page: 10, Size: 10})
	if err != nil {
		t.Fatalf("page beyond end: %v", err)
	}
	if len(beyond.Items) != 0 {
		t.Fatalf("expected empty page beyond end, got %d items", len(beyond.Items))
	}
}
