package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub store
// ---------------------------------------------------------------------------

type stubStore struct {
	users    []domain.User
	products []domain.Product
	txs      []domain.Transaction

	loadErr error // if set, every Load returns this error
	saveErr error // if set, every Save returns this error
	saves   map[string]int
}

func newStubStore() *stubStore {
	return &stubStore{saves: make(map[string]int)}
}

func (s *stubStore) LoadUsers(context.Context) ([]domain.User, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.User(nil), s.users...), nil
}

func (s *stubStore) LoadProducts(context.Context) ([]domain.Product, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.Product(nil), s.products...), nil
}

func (s *stubStore) LoadTransactions(context.Context) ([]domain.Transaction, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.Transaction(nil), s.txs...), nil
}

func (s *stubStore) SaveUsers(_ context.Context, users []domain.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves[ResourceUsers]++
	s.users = users
	return nil
}

func (s *stubStore) SaveProducts(_ context.Context, products []domain.Product) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves[ResourceProducts]++
	s.products = products
	return nil
}

func (s *stubStore) SaveTransactions(_ context.Context, txs []domain.Transaction) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves[ResourceTransactions]++
	s.txs = txs
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	fixedNow      = time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
)

// newLoadedStorefront returns a storefront loaded from store with a fixed
// clock and predictable order references.
func newLoadedStorefront(t testing.TB, store *stubStore) *Storefront {
	t.Helper()
	n := 0
	s := NewStorefront(store, discardLogger,
		WithClock(func() time.Time { return fixedNow }),
		WithOrderRefs(func() string { n++; return "ORD" + strconv.Itoa(n) }),
	)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return s
}

func mustLogin(t testing.TB, s *Storefront, username, password string) domain.User {
	t.Helper()
	u, err := s.Login(username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return u
}
