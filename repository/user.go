package repository

import (
	"context"

	"github.com/fastygo/teamtracker/domain"
)

type UserRepository interface {
	GetByName(ctx context.Context, name string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// Create fails with domain.ErrUserNameExists or domain.ErrEmailExists on duplicates.
	Create(ctx context.Context, user *domain.User) error
}
