package dashboard

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/aggregation"
	"github.com/fastygo/teamtracker/repository"
)

// FilterAll disables a filter dimension.
const FilterAll = "All"

const avatarURLFormat = "https://robohash.org/%s?set=set5"

// Filter narrows the snapshot before aggregation. Empty or "All" fields match everything.
type Filter struct {
	Owner    string `json:"user"`
	Category string `json:"category"`
}

func (f Filter) cacheKey() string {
	return normalize(f.Owner) + "|" + normalize(f.Category)
}

func (f Filter) taskFilter() (repository.TaskFilter, error) {
	out := repository.TaskFilter{Owner: normalize(f.Owner)}
	if category := normalize(f.Category); category != "" {
		out.Category = domain.Category(category)
		if !out.Category.Valid() {
			return out, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown category %q", category))
		}
	}
	return out, nil
}

func normalize(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, FilterAll) {
		return ""
	}
	return value
}

// Snapshot is the validated task set one dashboard computation works on.
type Snapshot struct {
	Tasks    []domain.Task
	Rejected []string
	Issues   []string
}

// ProgressView is a sorted progress series plus the anomalies met while building it.
type ProgressView struct {
	Bucketing domain.Bucketing       `json:"bucketing"`
	Points    []domain.ProgressPoint `json:"points"`
	Issues    []string               `json:"issues,omitempty"`
}

// BoardOptions configure the active task board.
type BoardOptions struct {
	AdminMode bool
}

type BoardCard struct {
	ID             string                `json:"id"`
	Description    string                `json:"description"`
	Points         int                   `json:"points"`
	Category       domain.Category       `json:"category"`
	Color          string                `json:"color"`
	DeadlineBucket domain.DeadlineBucket `json:"deadline_bucket,omitempty"`
	Editable       bool                  `json:"editable"`
}

type BoardColumn struct {
	User   string      `json:"user"`
	Avatar string      `json:"avatar"`
	Cards  []BoardCard `json:"cards"`
}

type Board struct {
	AdminMode bool          `json:"admin_mode"`
	Columns   []BoardColumn `json:"columns"`
	Rejected  []string      `json:"rejected,omitempty"`
}

type UseCase struct {
	tasks    repository.TaskRepository
	cache    repository.LeaderboardCache
	cacheTTL time.Duration
	logger   *zap.Logger

	Now func() time.Time
}

// New wires the dashboard. cache may be nil, in which case every leaderboard
// is computed from the store.
func New(tasks repository.TaskRepository, cache repository.LeaderboardCache, cacheTTL time.Duration, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		Now:      time.Now,
	}
}

// Snapshot loads the filtered tasks and drops records that fail validation.
func (uc *UseCase) Snapshot(ctx context.Context, filter Filter) (*Snapshot, error) {
	taskFilter, err := filter.taskFilter()
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.List(ctx, taskFilter)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{Tasks: make([]domain.Task, 0, len(tasks))}
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			uc.logger.Warn("rejected malformed task", zap.String("task_id", tasks[i].ID), zap.Error(err))
			snapshot.Rejected = append(snapshot.Rejected, tasks[i].ID)
			snapshot.Issues = append(snapshot.Issues, err.Error())
			continue
		}
		snapshot.Tasks = append(snapshot.Tasks, tasks[i])
	}
	return snapshot, nil
}

// Leaderboard ranks users by completed points. Results are cached per filter.
func (uc *UseCase) Leaderboard(ctx context.Context, filter Filter) (*domain.Leaderboard, error) {
	key := filter.cacheKey()
	if uc.cache != nil {
		board, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			return board, nil
		case !errors.Is(err, repository.ErrCacheMiss):
			uc.logger.Warn("leaderboard cache read failed", zap.Error(err))
		}
	}

	snapshot, err := uc.Snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}
	board := &domain.Leaderboard{
		Entries:     aggregation.Leaderboard(snapshot.Tasks),
		Rejected:    snapshot.Rejected,
		GeneratedAt: uc.Now().UTC(),
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, board, uc.cacheTTL); err != nil {
			uc.logger.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}
	return board, nil
}

// Progress returns completed points per user and period, sorted by period then user.
func (uc *UseCase) Progress(ctx context.Context, filter Filter, bucketing domain.Bucketing) (*ProgressView, error) {
	if !bucketing.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "bucket must be week or month")
	}
	snapshot, err := uc.Snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	view := &ProgressView{Bucketing: bucketing, Issues: snapshot.Issues}
	points, err := aggregation.ProgressSeries(snapshot.Tasks, bucketing)
	if err != nil {
		if !domain.IsDomainError(err, domain.ErrCodeDataIntegrity) {
			return nil, err
		}
		uc.logger.Warn("progress series skipped tasks", zap.Error(err))
		view.Issues = append(view.Issues, strings.Split(err.Error(), "\n")...)
	}
	aggregation.SortProgress(points)
	view.Points = points
	return view, nil
}

// Board groups pending tasks per owner in the order owners first appear.
// Outside admin mode only the first owner's column is returned and cards are
// read-only.
func (uc *UseCase) Board(ctx context.Context, filter Filter, opts BoardOptions) (*Board, error) {
	snapshot, err := uc.Snapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	board := &Board{AdminMode: opts.AdminMode, Columns: []BoardColumn{}, Rejected: snapshot.Rejected}
	index := make(map[string]int)
	for _, task := range snapshot.Tasks {
		i, seen := index[task.Owner]
		if !seen {
			if !opts.AdminMode && len(board.Columns) == 1 {
				continue
			}
			i = len(board.Columns)
			index[task.Owner] = i
			board.Columns = append(board.Columns, BoardColumn{
				User:   task.Owner,
				Avatar: AvatarURL(task.Owner),
				Cards:  []BoardCard{},
			})
		}
		if task.IsCompleted() {
			continue
		}
		board.Columns[i].Cards = append(board.Columns[i].Cards, BoardCard{
			ID:             task.ID,
			Description:    task.Description,
			Points:         task.Points,
			Category:       task.Category,
			Color:          task.Category.Color(),
			DeadlineBucket: task.DeadlineBucket,
			Editable:       opts.AdminMode,
		})
	}
	return board, nil
}

// AvatarURL returns the generated avatar of a user.
func AvatarURL(name string) string {
	sum := md5.Sum([]byte(name))
	return fmt.Sprintf(avatarURLFormat, hex.EncodeToString(sum[:]))
}
