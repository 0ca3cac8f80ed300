package ports

import (
	"context"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

// Credentials carries a username/password pair. Neither field may contain
// the delimiters of the users resource or a line break.
type Credentials struct {
	Username string `validate:"required,excludesall=0x2C0x7C\r\n"`
	Password string `validate:"required,excludesall=0x2C\r\n"`
}

// ProductInput carries the fields of a new catalog row.
type ProductInput struct {
	ID    string  `validate:"required,excludesall=0x2C\r\n"`
	Name  string  `validate:"required,excludesall=0x2C\r\n"`
	Price float64 `validate:"finite,gte=0"`
	Stock int     `validate:"gte=0"`
}

// PurchaseHistory is the ledger filtered to one username.
type PurchaseHistory struct {
	Username     string
	Transactions []domain.Transaction
	Total        float64
}

// RevenueReport covers the whole ledger.
type RevenueReport struct {
	Transactions []domain.Transaction
	Total        float64
}

// StorefrontService is the operation set presentation layers call into.
// Mutating operations persist their resource before returning; a failed save
// does not fail the operation and is reported by PersistErr instead.
type StorefrontService interface {
	Login(username, password string) (domain.User, error)
	Logout()
	CurrentUser() (domain.User, bool)
	Register(ctx context.Context, in Credentials) (domain.User, error)

	ListProducts() []domain.Product
	FindProduct(id string) (domain.Product, bool)

	AddProductToCart(id string, qty int) error
	RemoveFromCart(id string) error
	ViewCart() []domain.CartItem
	CartTotal() float64
	Checkout(ctx context.Context, method domain.PaymentMethod) (domain.Transaction, error)

	AddProduct(ctx context.Context, in ProductInput) error
	RemoveProduct(ctx context.Context, id string) error
	Restock(ctx context.Context, id string, qty int) error
	SetPrice(ctx context.Context, id string, price float64) error

	ListUsers() []domain.User
	RemoveUser(ctx context.Context, username string) error

	ListTransactions() []domain.Transaction
	UserPurchaseHistory(username string) PurchaseHistory
	Revenue() RevenueReport

	Save(ctx context.Context) error
	PersistErr() error
}
