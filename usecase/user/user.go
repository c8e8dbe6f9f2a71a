package user

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

// RegisterUser adds a team member. Names and emails are unique; the email is
// stored lowercased.
func (uc *UseCase) RegisterUser(ctx context.Context, name, email string) (*domain.User, error) {
	user := &domain.User{Name: name, Email: email}
	user.Normalize()
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.users.GetByName(ctx, user.Name); err == nil {
		return nil, domain.ErrUserNameExists
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}
	if _, err := uc.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return nil, err
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.logger.Info("user registered", zap.String("user", user.Name))
	return user, nil
}

func (uc *UseCase) ListUsers(ctx context.Context) ([]domain.User, error) {
	return uc.users.List(ctx)
}

func (uc *UseCase) GetUser(ctx context.Context, name string) (*domain.User, error) {
	return uc.users.GetByName(ctx, strings.TrimSpace(name))
}
