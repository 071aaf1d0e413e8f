package database

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/docstore"
)

const usersCollection = "users"

type docUserRepository struct {
	coll *docstore.Collection
}

// NewUserRepository creates a UserRepository over the document store.
func NewUserRepository(store *docstore.Store) repository.UserRepository {
	return &docUserRepository{coll: store.Collection(usersCollection)}
}

func (r *docUserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	id, err := r.coll.Add(ctx, user)
	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *docUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.coll.Get(ctx, id, &user); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %w", err)
	}
	user.ID = id
	return &user, nil
}

func (r *docUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := r.coll.FindByField(ctx, "email", email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	var user models.User
	if err := docs[0].Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	user.ID = docs[0].ID
	return &user, nil
}

func (r *docUserRepository) List(ctx context.Context) ([]models.User, error) {
	docs, err := r.coll.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		var user models.User
		if err := doc.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		user.ID = doc.ID
		users = append(users, user)
	}
	return users, nil
}

func (r *docUserRepository) Update(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return domainErrors.ErrNotFound
	}
	if err := r.coll.Set(ctx, user.ID, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *docUserRepository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return domainErrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
