package service

import (
	"fmt"
	"strconv"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

// IdentityStore owns the user accounts. Usernames are unique and compared
// byte for byte.
type IdentityStore struct {
	users []*domain.User
}

// NewIdentityStore builds the store from loaded users, skipping (and
// returning) any whose username is already taken.
func NewIdentityStore(users []domain.User) (*IdentityStore, []domain.User) {
	s := &IdentityStore{}
	var skipped []domain.User
	for _, u := range users {
		if s.find(u.Username) != nil {
			skipped = append(skipped, u)
			continue
		}
		row := u.Clone()
		s.users = append(s.users, &row)
	}
	return s, skipped
}

// Register creates a customer. Ids follow "C" + (user count + 1); when that
// id is already held, after a removal for example, the number is bumped until
// it is free.
func (s *IdentityStore) Register(username, password string) (domain.User, error) {
	if s.find(username) != nil {
		return domain.User{}, fmt.Errorf("register %s: %w", username, domain.ErrUserExists)
	}
	u := domain.NewCustomer(s.nextCustomerID(), username, password)
	s.users = append(s.users, &u)
	return u.Clone(), nil
}

// Login returns the first user whose username and password both match.
func (s *IdentityStore) Login(username, password string) (domain.User, bool) {
	for _, u := range s.users {
		if u.Username == username && u.Password == password {
			return u.Clone(), true
		}
	}
	return domain.User{}, false
}

// Find looks a user up by username.
func (s *IdentityStore) Find(username string) (domain.User, bool) {
	if u := s.find(username); u != nil {
		return u.Clone(), true
	}
	return domain.User{}, false
}

// RemoveUser deletes the first match. Admin accounts are never removed.
func (s *IdentityStore) RemoveUser(username string) error {
	for i, u := range s.users {
		if u.Username != username {
			continue
		}
		if u.IsAdmin() {
			return fmt.Errorf("remove %s: %w", username, domain.ErrAdminProtected)
		}
		s.users = append(s.users[:i], s.users[i+1:]...)
		return nil
	}
	return fmt.Errorf("remove %s: %w", username, domain.ErrUserNotFound)
}

// AddOrder appends an order reference to a customer's order list.
func (s *IdentityStore) AddOrder(username, ref string) bool {
	u := s.find(username)
	if u == nil {
		return false
	}
	return u.AddOrder(ref)
}

// List returns a snapshot in insertion order.
func (s *IdentityStore) List() []domain.User {
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	return out
}

func (s *IdentityStore) Len() int {
	return len(s.users)
}

func (s *IdentityStore) find(username string) *domain.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (s *IdentityStore) nextCustomerID() string {
	for n := len(s.users) + 1; ; n++ {
		id := "C" + strconv.Itoa(n)
		if !s.idTaken(id) {
			return id
		}
	}
}

func (s *IdentityStore) idTaken(id string) bool {
	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}
