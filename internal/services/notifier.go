package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/infrastructure/mail"
	"github.com/fastygo/teamtracker/internal/notify"
	"github.com/fastygo/teamtracker/repository"
)

const (
	ReminderSubject = "⏰ Daily Task Reminder"
	SummarySubject  = "🌙 Your Daily Task Summary"
)

// RecipientFailure records a user whose notification could not be built or sent.
type RecipientFailure struct {
	User  string `json:"user"`
	Email string `json:"email"`
	Error string `json:"error"`
}

// DispatchReport summarizes one notification run.
type DispatchReport struct {
	Sent    []string           `json:"sent"`
	Skipped []string           `json:"skipped"`
	Failed  []RecipientFailure `json:"failed"`
}

// NotifierConfig holds the settings shared by every notification run.
type NotifierConfig struct {
	AppLink  string
	Location *time.Location
}

// Notifier sends the daily reminder and nightly summary emails. A failure for
// one recipient is logged and reported but never stops the run.
type Notifier struct {
	users     repository.UserRepository
	tasks     repository.TaskRepository
	generator *notify.Generator
	transport mail.Transport
	cfg       NotifierConfig
	logger    *zap.Logger

	Now func() time.Time
}

func NewNotifier(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	generator *notify.Generator,
	transport mail.Transport,
	cfg NotifierConfig,
	logger *zap.Logger,
) *Notifier {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		users:     users,
		tasks:     tasks,
		generator: generator,
		transport: transport,
		cfg:       cfg,
		logger:    logger.Named("notifier"),
		Now:       time.Now,
	}
}

// SendReminders mails every user who has not created a task today.
func (n *Notifier) SendReminders(ctx context.Context) (*DispatchReport, error) {
	users, byOwner, err := n.load(ctx)
	if err != nil {
		return nil, err
	}

	report := &DispatchReport{}
	for _, user := range users {
		if len(byOwner[user.Name]) > 0 {
			report.Skipped = append(report.Skipped, user.Name)
			continue
		}
		content := n.generator.SelectReminderContent(user.Name)
		html, err := n.generator.RenderReminder(content, n.cfg.AppLink)
		n.deliver(ctx, report, user, ReminderSubject, html, err)
	}

	n.logReport("reminders", report)
	return report, nil
}

// SendSummaries mails every user the summary of the tasks they created today.
func (n *Notifier) SendSummaries(ctx context.Context) (*DispatchReport, error) {
	users, byOwner, err := n.load(ctx)
	if err != nil {
		return nil, err
	}

	report := &DispatchReport{}
	for _, user := range users {
		all := byOwner[user.Name]
		completed := make([]domain.Task, 0, len(all))
		for _, task := range all {
			if task.IsCompleted() {
				completed = append(completed, task)
			}
		}
		html, err := n.generator.RenderDailySummary(user.Name, all, completed)
		n.deliver(ctx, report, user, SummarySubject, html, err)
	}

	n.logReport("summaries", report)
	return report, nil
}

func (n *Notifier) load(ctx context.Context) ([]domain.User, map[string][]domain.Task, error) {
	users, err := n.users.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	today := domain.CalendarDate(n.Now().In(n.cfg.Location))
	tasks, err := n.tasks.List(ctx, repository.TaskFilter{CreatedOn: &today})
	if err != nil {
		return nil, nil, err
	}
	byOwner := make(map[string][]domain.Task, len(users))
	for _, task := range tasks {
		byOwner[task.Owner] = append(byOwner[task.Owner], task)
	}
	return users, byOwner, nil
}

func (n *Notifier) deliver(ctx context.Context, report *DispatchReport, user domain.User, subject, html string, renderErr error) {
	err := renderErr
	if err == nil {
		err = n.transport.Send(ctx, mail.Message{
			ToName:  user.Name,
			ToEmail: user.Email,
			Subject: subject,
			HTML:    html,
		})
	}
	if err != nil {
		n.logger.Error("notification failed",
			zap.String("user", user.Name),
			zap.String("subject", subject),
			zap.Error(err))
		report.Failed = append(report.Failed, RecipientFailure{User: user.Name, Email: user.Email, Error: err.Error()})
		return
	}
	report.Sent = append(report.Sent, user.Name)
}

func (n *Notifier) logReport(kind string, report *DispatchReport) {
	n.logger.Info("notification run finished",
		zap.String("kind", kind),
		zap.Int("sent", len(report.Sent)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)))
}
