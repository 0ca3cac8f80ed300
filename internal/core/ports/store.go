package ports

import (
	"context"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

// Store persists the three flat resources. Every Save is a full rewrite of
// its resource. A Load of a resource that does not exist yet returns an empty
// slice and no error.
type Store interface {
	LoadUsers(ctx context.Context) ([]domain.User, error)
	LoadProducts(ctx context.Context) ([]domain.Product, error)
	LoadTransactions(ctx context.Context) ([]domain.Transaction, error)

	SaveUsers(ctx context.Context, users []domain.User) error
	SaveProducts(ctx context.Context, products []domain.Product) error
	SaveTransactions(ctx context.Context, txs []domain.Transaction) error
}
