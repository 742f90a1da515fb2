package identity

import (
	"context"
	"sync"
	"time"

	"github.com/kobo-pay/kobo_pay/internal/apperr"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.PhoneNumber]; exists {
		return apperr.Conflict("user already exists")
	}
	r.users[user.PhoneNumber] = user
	return nil
}

func (r *memoryRepository) Find(_ context.Context, phone string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[phone]
	if !ok {
		return User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (r *memoryRepository) UpdatePINHash(_ context.Context, phone string, hash []byte) error {
	return r.update(phone, func(u *User) {
		u.PINHash = hash
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *memoryRepository) UpdateLastLogin(_ context.Context, phone string, at time.Time) error {
	return r.update(phone, func(u *User) {
		u.LastLogin = at.UTC()
	})
}

func (r *memoryRepository) UpdateProfile(_ context.Context, phone, firstName, lastName, email string) error {
	return r.update(phone, func(u *User) {
		u.FirstName = firstName
		u.LastName = lastName
		u.Email = email
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *memoryRepository) UpdateCardCustomerID(_ context.Context, phone, customerID string) error {
	return r.update(phone, func(u *User) {
		u.CardCustomerID = customerID
		u.UpdatedAt = time.Now().UTC()
	})
}

func (r *memoryRepository) update(phone string, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[phone]
	if !ok {
		return apperr.NotFound("user not found")
	}
	fn(&user)
	r.users[phone] = user
	return nil
}
