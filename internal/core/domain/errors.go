package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Catalog, cart and identity errors below wrap one of them so
// callers can branch on the kind with errors.Is. Session errors stand alone.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrPersistence       = errors.New("persistence failure")
)

var (
	ErrProductNotFound    = fmt.Errorf("product %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrDuplicateProduct   = fmt.Errorf("product id %w", ErrConflict)
	ErrUserExists         = fmt.Errorf("username %w", ErrConflict)
	ErrAlreadyInCart      = fmt.Errorf("product %w in cart", ErrConflict)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrInvalidPrice       = fmt.Errorf("%w: price must be a finite non-negative amount", ErrValidation)
	ErrInvalidStock       = fmt.Errorf("%w: stock must not be negative", ErrValidation)
	ErrEmptyCart          = fmt.Errorf("%w: cart is empty", ErrValidation)
	ErrInvalidPayment     = fmt.Errorf("%w: unknown payment method", ErrValidation)
	ErrNotAuthenticated   = errors.New("no user logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrAdminProtected     = fmt.Errorf("%w: admin accounts cannot be removed", ErrForbidden)
)
