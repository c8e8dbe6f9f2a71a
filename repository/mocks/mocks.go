// Package mocks provides testify doubles for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository"
)

type TaskRepository struct {
	mock.Mock
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

func (m *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	args := m.Called(ctx, id)
	var task *domain.Task
	if value := args.Get(0); value != nil {
		task = value.(*domain.Task)
	}
	return task, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)
	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	args := m.Called(ctx, task)
	var created *domain.Task
	switch value := args.Get(0).(type) {
	case func(context.Context, *domain.Task) *domain.Task:
		created = value(ctx, task)
	case *domain.Task:
		created = value
	}
	return created, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type UserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (m *UserRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	args := m.Called(ctx, name)
	var user *domain.User
	if value := args.Get(0); value != nil {
		user = value.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if value := args.Get(0); value != nil {
		user = value.(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	var users []domain.User
	if value := args.Get(0); value != nil {
		users = value.([]domain.User)
	}
	return users, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type LeaderboardCache struct {
	mock.Mock
}

var _ repository.LeaderboardCache = (*LeaderboardCache)(nil)

func (m *LeaderboardCache) Get(ctx context.Context, key string) (*domain.Leaderboard, error) {
	args := m.Called(ctx, key)
	var board *domain.Leaderboard
	if value := args.Get(0); value != nil {
		board = value.(*domain.Leaderboard)
	}
	return board, args.Error(1)
}

func (m *LeaderboardCache) Set(ctx context.Context, key string, board *domain.Leaderboard, ttl time.Duration) error {
	return m.Called(ctx, key, board, ttl).Error(0)
}

func (m *LeaderboardCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// OperationBuffer doubles usecase.OperationBuffer.
type OperationBuffer struct {
	mock.Mock
}

func (m *OperationBuffer) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	return m.Called(ctx, operation, task).Error(0)
}
