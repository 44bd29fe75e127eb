// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"tienda/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store. There is no update or delete flow.
type UserRepository interface {
	// Create persists a new user and fills in its generated ID and CreatedAt.
	// A duplicate username yields domainerrors.ErrUserAlreadyExists; uniqueness
	// is enforced by the storage constraint, not by the caller.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername retrieves a user by login identifier or returns ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
