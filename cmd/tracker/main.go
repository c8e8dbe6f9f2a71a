package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/app"
	"github.com/fastygo/teamtracker/internal/config"
	pgInfra "github.com/fastygo/teamtracker/internal/infrastructure/postgres"
	"github.com/fastygo/teamtracker/internal/services"
	"github.com/fastygo/teamtracker/pkg/logger"
	dashboardUC "github.com/fastygo/teamtracker/usecase/dashboard"
)

var (
	jsonOutput bool
	cfg        *config.Config
	zapLogger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Team task tracker operator CLI",
	Long: `tracker runs one-shot operations against the task store:
- notify reminders: mail everyone who has not added a task today.
- notify summaries: mail everyone the summary of today's tasks.
- leaderboard / progress: print the dashboard aggregates.
- migrate: apply pending schema migrations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		zapLogger, err = logger.New(logger.Config{
			Level:    cfg.Logger.Level,
			Encoding: "console",
			Service:  "tracker-cli",
		})
		return err
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	rootCmd.AddCommand(notifyCmd())
	rootCmd.AddCommand(leaderboardCmd())
	rootCmd.AddCommand(progressCmd())
	rootCmd.AddCommand(migrateCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func notifyCmd() *cobra.Command {
	notify := &cobra.Command{Use: "notify", Short: "Send notification emails now"}
	notify.AddCommand(&cobra.Command{
		Use:   "reminders",
		Short: "Remind users without a task today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printReport(a.Notifier.SendReminders(ctx))
			})
		},
	})
	notify.AddCommand(&cobra.Command{
		Use:   "summaries",
		Short: "Send every user the summary of today's tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printReport(a.Notifier.SendSummaries(ctx))
			})
		},
	})
	return notify
}

func leaderboardCmd() *cobra.Command {
	var filter dashboardUC.Filter
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the points leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				board, err := a.Dashboard.Leaderboard(ctx, filter)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(board)
				}
				renderLeaderboard(os.Stdout, board)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&filter.Owner, "user", dashboardUC.FilterAll, "only count this user's tasks")
	cmd.Flags().StringVar(&filter.Category, "category", dashboardUC.FilterAll, "only count this category")
	return cmd
}

func progressCmd() *cobra.Command {
	var (
		filter dashboardUC.Filter
		bucket string
	)
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Print completed points per user and period",
		RunE: func(cmd *cobra.Command, args []string) error {
			bucketing, err := domain.ParseBucketing(bucket)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				view, err := a.Dashboard.Progress(ctx, filter, bucketing)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(view)
				}
				renderProgress(os.Stdout, view)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", string(domain.BucketWeek), "week or month")
	cmd.Flags().StringVar(&filter.Owner, "user", dashboardUC.FilterAll, "only this user")
	cmd.Flags().StringVar(&filter.Category, "category", dashboardUC.FilterAll, "only this category")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return pgInfra.Migrate(cfg.Database, cfg.Migrations.Path, zapLogger)
		},
	}
}

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Schedule.JobTimeout)
	defer cancel()

	a, err := app.New(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer a.Close()
	defer zapLogger.Sync()
	return fn(ctx, a)
}

func printReport(report *services.DispatchReport, err error) error {
	if err != nil {
		return err
	}
	return writeReport(os.Stdout, report, jsonOutput)
}

// writeReport prints report and fails when any recipient failed, whatever
// the output format, so the exit status reflects the run.
func writeReport(w io.Writer, report *services.DispatchReport, asJSON bool) error {
	if asJSON {
		if err := writeJSON(w, report); err != nil {
			return err
		}
	} else {
		renderReport(w, report)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d notification(s) failed", len(report.Failed))
	}
	return nil
}

func printJSON(v interface{}) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
