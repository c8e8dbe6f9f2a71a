package repository

import (
	"context"
	"time"

	"github.com/fastygo/teamtracker/domain"
)

// TaskFilter narrows a task select; zero values mean "any". Limit <= 0 returns
// every matching row.
type TaskFilter struct {
	Owner     string
	Category  domain.Category
	Completed *bool
	CreatedOn *time.Time
	Limit     int
	Offset    int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
