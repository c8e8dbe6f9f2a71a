package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/repository"
)

const taskColumns = `id, owner, description, points, completed, created_date, completed_date, category, deadline_bucket, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

// List returns matching tasks in insertion order, which the leaderboard relies
// on for tie-breaking.
func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR owner = $1)
	  AND ($2 = '' OR category = $2)
	  AND ($3::boolean IS NULL OR completed = $3)
	  AND ($4::date IS NULL OR created_date = $4)
	ORDER BY created_at ASC, id ASC
	LIMIT $5 OFFSET $6
	`
	var completed interface{}
	if filter.Completed != nil {
		completed = *filter.Completed
	}

	rows, err := r.pool.Query(ctx, query,
		filter.Owner,
		string(filter.Category),
		completed,
		nullDate(filter.CreatedOn),
		nullLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Task, error) {
		task, err := scanTask(row)
		if err != nil {
			return domain.Task{}, err
		}
		return *task, nil
	})
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, owner, description, points, completed, created_date, completed_date, category, deadline_bucket)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Owner,
		task.Description,
		task.Points,
		task.Completed,
		task.CreatedDate,
		nullDate(task.CompletedDate),
		string(task.Category),
		nullString(string(task.DeadlineBucket)),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, mapWriteError(err)
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET description = $2,
		points = $3,
		completed = $4,
		completed_date = $5,
		category = $6,
		deadline_bucket = $7,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Description,
		task.Points,
		task.Completed,
		nullDate(task.CompletedDate),
		string(task.Category),
		nullString(string(task.DeadlineBucket)),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return mapWriteError(err)
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// mapWriteError turns constraint violations into domain errors so a replayed
// write that can never succeed is dropped instead of retried.
func mapWriteError(err error) error {
	if _, ok := uniqueConstraint(err); ok {
		return domain.WrapError(domain.ErrCodeConflict, "task already exists", err)
	}
	if constraint, ok := checkConstraint(err); ok {
		return domain.WrapError(domain.ErrCodeInvalid, "task violates "+constraint, err)
	}
	return err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var (
		completedDate *time.Time
		category      string
		deadline      *string
	)

	if err := row.Scan(
		&task.ID,
		&task.Owner,
		&task.Description,
		&task.Points,
		&task.Completed,
		&task.CreatedDate,
		&completedDate,
		&category,
		&deadline,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletedDate = completedDate
	task.Category = domain.Category(category)
	if deadline != nil {
		task.DeadlineBucket = domain.DeadlineBucket(*deadline)
	}
	return &task, nil
}
