package repository

import (
	"context"

	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

// UserRepository provides access to the users collection.
type UserRepository interface {
	// Create stores a new user and returns the store-assigned id.
	Create(ctx context.Context, user *models.User) (string, error)
	// FindByID returns the user with the given id, or errors.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindByEmail returns the user with the given email (case-sensitive
	// equality), or errors.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns all users.
	List(ctx context.Context) ([]models.User, error)
	// Update overwrites the stored document for user.ID.
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user with the given id, or errors.ErrNotFound.
	Delete(ctx context.Context, id string) error
}
