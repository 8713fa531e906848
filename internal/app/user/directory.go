package user

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a username has no record.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicate is returned when creating a username that already exists.
	ErrDuplicate = errors.New("username already exists")
)

// Directory resolves usernames to user records.
type Directory interface {
	// FindByUsername returns the record for username or ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create stores a new record or returns ErrDuplicate.
	Create(ctx context.Context, u *User) error
}

// MemoryDirectory is a Directory kept in process memory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryDirectory returns an empty MemoryDirectory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]User)}
}

// FindByUsername implements Directory.
func (d *MemoryDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// Create implements Directory. A zero CreatedAt is set to the current time.
func (d *MemoryDirectory) Create(ctx context.Context, u *User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.users[u.Username]; exists {
		return ErrDuplicate
	}

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	d.users[u.Username] = *u
	return nil
}
