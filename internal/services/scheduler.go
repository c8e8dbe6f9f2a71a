package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
)

// NotificationRunner is the part of Notifier the scheduler triggers.
type NotificationRunner interface {
	SendReminders(ctx context.Context) (*DispatchReport, error)
	SendSummaries(ctx context.Context) (*DispatchReport, error)
}

// SchedulerConfig holds standard five-field cron specs evaluated in Location.
type SchedulerConfig struct {
	ReminderSpec string
	SummarySpec  string
	Location     *time.Location
	JobTimeout   time.Duration
}

// Scheduler runs the reminder and summary jobs on their cron specs.
type Scheduler struct {
	cron    *cron.Cron
	runner  NotificationRunner
	timeout time.Duration
	logger  *zap.Logger
}

func NewScheduler(runner NotificationRunner, cfg SchedulerConfig, logger *zap.Logger) (*Scheduler, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(cfg.Location)),
		runner:  runner,
		timeout: cfg.JobTimeout,
		logger:  logger.Named("scheduler"),
	}

	jobs := []struct {
		name string
		spec string
		run  func(context.Context) (*DispatchReport, error)
	}{
		{"reminders", cfg.ReminderSpec, runner.SendReminders},
		{"summaries", cfg.SummarySpec, runner.SendSummaries},
	}
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.run(job.name, job.run) }); err != nil {
			return nil, domain.WrapError(domain.ErrCodeConfiguration, fmt.Sprintf("invalid %s schedule %q", job.name, job.spec), err)
		}
	}
	return s, nil
}

// Start launches the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.Info("notification job scheduled", zap.Time("next", entry.Next))
	}
}

// Stop waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("notification scheduler stopped")
}

func (s *Scheduler) run(name string, job func(context.Context) (*DispatchReport, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := job(ctx); err != nil {
		s.logger.Error("notification job failed", zap.String("job", name), zap.Error(err))
	}
}
