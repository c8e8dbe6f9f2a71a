package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository"
	"github.com/fastygo/teamtracker/usecase"
)

// NewTask is the input of CreateTask. Zero Points means domain.DefaultPoints,
// an empty Category means Other.
type NewTask struct {
	Owner          string                `json:"user"`
	Description    string                `json:"description"`
	Points         int                   `json:"points"`
	Category       domain.Category       `json:"category"`
	DeadlineBucket domain.DeadlineBucket `json:"deadline_bucket"`
}

// TaskEdit carries the editable fields of a task; nil fields are left as stored.
type TaskEdit struct {
	Description    *string                `json:"description"`
	Points         *int                   `json:"points"`
	Category       *domain.Category       `json:"category"`
	DeadlineBucket *domain.DeadlineBucket `json:"deadline_bucket"`
}

type UseCase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	buffer   usecase.OperationBuffer
	cache    repository.LeaderboardCache
	location *time.Location
	logger   *zap.Logger

	Now func() time.Time
}

// New wires the task use case. users, buffer and cache are optional: without
// users the owner is not checked, without buffer store failures surface as-is.
func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	buffer usecase.OperationBuffer,
	cache repository.LeaderboardCache,
	location *time.Location,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		tasks:    tasks,
		users:    users,
		buffer:   buffer,
		cache:    cache,
		location: location,
		logger:   logger,
		Now:      time.Now,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

// CreateTask stores a pending task created today.
func (uc *UseCase) CreateTask(ctx context.Context, input NewTask) (*domain.Task, error) {
	task := &domain.Task{
		ID:             uuid.NewString(),
		Owner:          strings.TrimSpace(input.Owner),
		Description:    strings.TrimSpace(input.Description),
		Points:         input.Points,
		Category:       input.Category,
		DeadlineBucket: input.DeadlineBucket,
		CreatedDate:    uc.today(),
	}
	if task.Points == 0 {
		task.Points = domain.DefaultPoints
	}
	if task.Category == "" {
		task.Category = domain.CategoryOther
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	if err := uc.ensureOwner(ctx, task.Owner); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task, err) {
			return task, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return created, nil
}

// CompleteTask marks the task done today. Completing a completed task returns
// it unchanged.
func (uc *UseCase) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsCompleted() {
		return task, nil
	}
	task.Complete(uc.today())
	return uc.update(ctx, task)
}

// EditTask applies the non-nil fields of edit.
func (uc *UseCase) EditTask(ctx context.Context, id string, edit TaskEdit) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if edit.Description != nil {
		task.Description = strings.TrimSpace(*edit.Description)
	}
	if edit.Points != nil {
		task.Points = *edit.Points
	}
	if edit.Category != nil {
		task.Category = *edit.Category
	}
	if edit.DeadlineBucket != nil {
		task.DeadlineBucket = *edit.DeadlineBucket
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return uc.update(ctx, task)
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		task := &domain.Task{ID: id}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task, err) {
			return nil
		}
		return err
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *UseCase) update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := uc.tasks.Update(ctx, task); err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return task, nil
		}
		return nil, err
	}
	uc.invalidate(ctx)
	return task, nil
}

func (uc *UseCase) ensureOwner(ctx context.Context, owner string) error {
	if uc.users == nil {
		return nil
	}
	_, err := uc.users.GetByName(ctx, owner)
	return err
}

func (uc *UseCase) today() time.Time {
	return domain.CalendarDate(uc.Now().In(uc.location))
}

func (uc *UseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

// shouldBuffer hands infrastructure failures to the write buffer. Domain errors
// are final and never buffered.
func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	if _, ok := domain.CodeOf(cause); ok {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}
