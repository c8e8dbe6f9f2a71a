package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/infrastructure/buffer"
	"github.com/fastygo/teamtracker/repository"
)

// ConnectionHealth reports whether the task store is reachable.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig tunes replay. Zero values fall back to 30s / 50 / 3 and no
// retention limit.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// DrainReport summarises one replay pass.
type DrainReport struct {
	Applied int
	Retried int
	Dropped int
	Expired int
	Held    int
}

// BufferProcessor owns the offline write path: it applies task writes
// directly while the store is up, parks them in the buffer while it is down,
// and replays the buffer on a fixed interval.
type BufferProcessor struct {
	store  *buffer.Store
	health ConnectionHealth
	tasks  repository.TaskRepository
	cache  repository.LeaderboardCache
	logger *zap.Logger
	cfg    ProcessorConfig
	cron   *cron.Cron
	now    func() time.Time
}

func NewBufferProcessor(
	store *buffer.Store,
	health ConnectionHealth,
	tasks repository.TaskRepository,
	cache repository.LeaderboardCache,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:  store,
		health: health,
		tasks:  tasks,
		cache:  cache,
		logger: logger.Named("buffer"),
		cfg:    cfg,
		now:    time.Now,
	}
	bp.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	bp.cron.Schedule(cron.Every(cfg.Interval), cron.FuncJob(bp.tick))
	return bp
}

func (bp *BufferProcessor) Start() {
	if bp == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started", zap.Duration("interval", bp.cfg.Interval))
}

// Stop waits for an in-flight drain or until ctx ends.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil {
		return
	}
	select {
	case <-bp.cron.Stop().Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

func (bp *BufferProcessor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), bp.cfg.Interval)
	defer cancel()
	if _, err := bp.Drain(ctx); err != nil {
		bp.logger.Error("buffer drain failed", zap.Error(err))
	}
}

// Drain replays one batch. It is a no-op while the task store is offline.
// Failed items keep their place and are retried until MaxRetries; domain
// errors drop them at once since a replay can never succeed. Once a write for
// a task fails, that task's later writes are held until the next pass so they
// never land out of order.
func (bp *BufferProcessor) Drain(ctx context.Context) (DrainReport, error) {
	var report DrainReport
	if bp == nil || bp.store == nil {
		return report, nil
	}
	if bp.health != nil && !bp.health.IsOnline() {
		bp.logger.Debug("drain skipped, task store offline")
		return report, nil
	}

	if bp.cfg.Retention > 0 {
		n, err := bp.store.Cleanup(bp.now().Add(-bp.cfg.Retention))
		if err != nil {
			bp.logger.Warn("buffer cleanup failed", zap.Error(err))
		}
		report.Expired = n
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return report, err
	}

	held := make(map[string]bool)
	for _, item := range items {
		if item.TaskID != "" && held[item.TaskID] {
			report.Held++
			continue
		}
		err := bp.apply(ctx, item)
		switch {
		case err == nil:
			report.Applied++
			bp.settle(item)
		case isDomain(err) || item.Retries+1 >= bp.cfg.MaxRetries:
			report.Dropped++
			bp.logger.Warn("dropping buffered write",
				zap.String("item_id", item.ID),
				zap.String("task_id", item.TaskID),
				zap.String("operation", item.Operation),
				zap.Int("retries", item.Retries+1),
				zap.Error(err))
			bp.settle(item)
		default:
			report.Retried++
			if item.TaskID != "" {
				held[item.TaskID] = true
			}
			item.Retries++
			if err := bp.store.Requeue(item); err != nil {
				bp.logger.Error("requeue failed", zap.String("item_id", item.ID), zap.Error(err))
			}
		}
	}

	if report.Applied > 0 {
		bp.invalidate(ctx)
	}
	if len(items) > 0 || report.Expired > 0 {
		bp.logger.Info("buffer drained",
			zap.Int("applied", report.Applied),
			zap.Int("retried", report.Retried),
			zap.Int("dropped", report.Dropped),
			zap.Int("held", report.Held),
			zap.Int("expired", report.Expired))
	}
	return report, nil
}

// BufferOperation applies item now when the store is online and parks it
// otherwise. Domain errors are returned to the caller instead of buffered.
//
// Queued writes for the same task keep their order: a newer update supersedes
// queued updates, a delete supersedes everything queued for the task, and a
// write for a task that still has queued writes joins the queue behind them.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return domain.NewError(domain.ErrCodeInternal, "write buffer not configured")
	}

	absorbed, queued, err := bp.supersede(item)
	if err != nil {
		return err
	}
	if absorbed {
		return nil
	}

	if !queued && (bp.health == nil || bp.health.IsOnline()) {
		err := bp.apply(ctx, item)
		if err == nil {
			bp.invalidate(ctx)
			return nil
		}
		if isDomain(err) {
			return err
		}
		bp.logger.Warn("task store write failed, buffering", zap.String("task_id", item.TaskID), zap.Error(err))
	}
	return bp.store.Enqueue(item)
}

// supersede drops queued writes that item makes obsolete. absorbed means item
// needs no store write at all; queued means older writes for the task remain.
func (bp *BufferProcessor) supersede(item buffer.Item) (absorbed, queued bool, err error) {
	if item.TaskID == "" {
		return false, false, nil
	}
	switch item.Operation {
	case buffer.OperationUpdate:
		// Updates write the whole row, so only the latest one matters.
		if _, err := bp.store.Purge(func(q buffer.Item) bool {
			return q.TaskID == item.TaskID && q.Operation == buffer.OperationUpdate
		}); err != nil {
			return false, false, err
		}
	case buffer.OperationDelete:
		parked, err := bp.store.Purge(func(q buffer.Item) bool { return q.TaskID == item.TaskID })
		if err != nil {
			return false, false, err
		}
		// The task never reached the store; dropping its writes is the delete.
		for _, q := range parked {
			if q.Operation == buffer.OperationCreate {
				return true, false, nil
			}
		}
		return false, false, nil
	}
	queued, err = bp.store.Contains(func(q buffer.Item) bool { return q.TaskID == item.TaskID })
	return false, queued, err
}

// Size reports the buffer length, zero when it cannot be read.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	n, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return n
}

func (bp *BufferProcessor) settle(item buffer.Item) {
	if err := bp.store.Remove(item); err != nil {
		bp.logger.Warn("buffer remove failed", zap.String("item_id", item.ID), zap.Error(err))
	}
}

func (bp *BufferProcessor) invalidate(ctx context.Context) {
	if bp.cache == nil {
		return
	}
	if err := bp.cache.Invalidate(ctx); err != nil {
		bp.logger.Warn("leaderboard cache invalidation failed", zap.Error(err))
	}
}

func (bp *BufferProcessor) apply(ctx context.Context, item buffer.Item) error {
	if item.Entity != buffer.EntityTask {
		return domain.WrapError(domain.ErrCodeInvalid, "unsupported buffer entity", fmt.Errorf("entity %q", item.Entity))
	}

	var task domain.Task
	if err := json.Unmarshal(item.Data, &task); err != nil {
		return domain.WrapError(domain.ErrCodeInvalid, "corrupt buffer item", err)
	}
	switch item.Operation {
	case buffer.OperationCreate:
		_, err := bp.tasks.Create(ctx, &task)
		return err
	case buffer.OperationUpdate:
		return bp.tasks.Update(ctx, &task)
	case buffer.OperationDelete:
		if err := bp.tasks.Delete(ctx, task.ID); err != nil && !errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return nil
	default:
		return domain.WrapError(domain.ErrCodeInvalid, "unsupported buffer operation", fmt.Errorf("operation %q", item.Operation))
	}
}

func isDomain(err error) bool {
	_, ok := domain.CodeOf(err)
	return ok
}
