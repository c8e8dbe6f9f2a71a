package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository/mocks"
)

func TestRegisterUser_Normalizes(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("GetByName", mock.Anything, "Ann").Return(nil, domain.ErrUserNotFound)
	repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(nil, domain.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Ann" && u.Email == "ann@example.com"
	})).Return(nil).Once()

	user, err := New(repo, nil).RegisterUser(context.Background(), "  Ann ", " Ann@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	repo.AssertExpectations(t)
}

func TestRegisterUser_Conflicts(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("GetByName", mock.Anything, "Ann").Return(&domain.User{Name: "Ann"}, nil)
	repo.On("GetByName", mock.Anything, "Bo").Return(nil, domain.ErrUserNotFound)
	repo.On("GetByEmail", mock.Anything, "ann@example.com").Return(&domain.User{Name: "Ann"}, nil)
	uc := New(repo, nil)

	_, err := uc.RegisterUser(context.Background(), "Ann", "other@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNameExists)

	_, err = uc.RegisterUser(context.Background(), "Bo", "ann@example.com")
	assert.ErrorIs(t, err, domain.ErrEmailExists)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	repo := new(mocks.UserRepository)

	_, err := New(repo, nil).RegisterUser(context.Background(), "Ann", "not-an-email")
	require.Error(t, err)
	fields := domain.FieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].Field)
}

func TestRegisterUser_StoreError(t *testing.T) {
	repo := new(mocks.UserRepository)
	repo.On("GetByName", mock.Anything, "Ann").Return(nil, errors.New("db down"))

	_, err := New(repo, nil).RegisterUser(context.Background(), "Ann", "ann@example.com")
	assert.EqualError(t, err, "db down")
}
