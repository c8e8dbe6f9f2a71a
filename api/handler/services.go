package handler

import (
	"context"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/infrastructure/monitor"
	"github.com/fastygo/teamtracker/repository"
	dashboardUC "github.com/fastygo/teamtracker/usecase/dashboard"
	taskUC "github.com/fastygo/teamtracker/usecase/task"
)

// TaskService is implemented by usecase/task.UseCase.
type TaskService interface {
	ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, input taskUC.NewTask) (*domain.Task, error)
	CompleteTask(ctx context.Context, id string) (*domain.Task, error)
	EditTask(ctx context.Context, id string, edit taskUC.TaskEdit) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// UserService is implemented by usecase/user.UseCase.
type UserService interface {
	RegisterUser(ctx context.Context, name, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, name string) (*domain.User, error)
}

// DashboardService is implemented by usecase/dashboard.UseCase.
type DashboardService interface {
	Leaderboard(ctx context.Context, filter dashboardUC.Filter) (*domain.Leaderboard, error)
	Progress(ctx context.Context, filter dashboardUC.Filter, bucketing domain.Bucketing) (*dashboardUC.ProgressView, error)
	Board(ctx context.Context, filter dashboardUC.Filter, opts dashboardUC.BoardOptions) (*dashboardUC.Board, error)
}

// StatusProvider is implemented by monitor.Monitor.
type StatusProvider interface {
	GetStatus() monitor.Status
}
