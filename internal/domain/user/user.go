package user

import (
	"context"

	"github.com/go-faster/errors"
)

// DefaultSalary is assigned to users created without an explicit salary.
const DefaultSalary = 2000

// User is a single roster entry. ID is assigned by the storage layer on
// creation and is zero until then.
type User struct {
	ID     int64
	Name   string
	Salary int
}

// Option customizes a User built by New.
type Option func(*User)

// WithSalary overrides DefaultSalary.
func WithSalary(salary int) Option {
	return func(u *User) {
		u.Salary = salary
	}
}

// New returns an unsaved User with the given name and DefaultSalary unless
// overridden by opts.
func New(name string, opts ...Option) User {
	u := User{Name: name, Salary: DefaultSalary}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// Repository defines persistence operations for users.
type Repository interface {
	// Create persists u and returns it with the storage-assigned ID.
	// Any ID set on u is ignored.
	Create(ctx context.Context, u User) (User, error)
	// FindAll returns every persisted user ordered by ID.
	FindAll(ctx context.Context) ([]User, error)
}

// StorageError is returned by Repository implementations for any failure of
// the underlying storage engine: connectivity, constraint violation, query or
// scan errors.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for operation op.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err has a StorageError in its chain.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
