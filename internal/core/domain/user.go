package domain

import "fmt"

// Role discriminates the two user variants.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole converts a persisted role tag. Tags are case-sensitive.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// User is either a Customer or an Admin, tagged by Role. Orders is only
// populated for customers and is never persisted.
//
// Passwords are stored and compared in plaintext.
type User struct {
	ID       string
	Username string
	Password string
	Role     Role
	Orders   []string
}

func NewCustomer(id, username, password string) User {
	return User{ID: id, Username: username, Password: password, Role: RoleCustomer}
}

func NewAdmin(id, username, password string) User {
	return User{ID: id, Username: username, Password: password, Role: RoleAdmin}
}

// DefaultAdmin is the account seeded when no users could be loaded.
func DefaultAdmin() User {
	return NewAdmin("A1", "admin", "admin")
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AddOrder appends an order reference. Admins do not own orders.
func (u *User) AddOrder(ref string) bool {
	if u.Role != RoleCustomer {
		return false
	}
	u.Orders = append(u.Orders, ref)
	return true
}

// Clone returns a copy that shares no memory with u.
func (u User) Clone() User {
	if u.Orders != nil {
		u.Orders = append([]string(nil), u.Orders...)
	}
	return u
}
