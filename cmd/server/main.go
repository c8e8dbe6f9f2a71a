package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/teamtracker/api/handler"
	"github.com/fastygo/teamtracker/internal/app"
	"github.com/fastygo/teamtracker/internal/config"
	"github.com/fastygo/teamtracker/internal/infrastructure/buffer"
	"github.com/fastygo/teamtracker/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/teamtracker/internal/infrastructure/postgres"
	"github.com/fastygo/teamtracker/internal/router"
	"github.com/fastygo/teamtracker/internal/services"
	"github.com/fastygo/teamtracker/internal/services/lifecycle"
	"github.com/fastygo/teamtracker/pkg/httpcontext"
	"github.com/fastygo/teamtracker/pkg/logger"
	taskUC "github.com/fastygo/teamtracker/usecase/task"
	userUC "github.com/fastygo/teamtracker/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	core, err := app.New(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("bootstrap failed", zap.Error(err))
	}
	manager.Register("stores", func(ctx context.Context) error {
		core.Close()
		return nil
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "tasks")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.NewForStore(core.Pool, core.Redis, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		core.Tasks,
		core.Cache,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	if cfg.Schedule.Enabled {
		scheduler, err := services.NewScheduler(core.Notifier, services.SchedulerConfig{
			ReminderSpec: cfg.Schedule.ReminderSpec,
			SummarySpec:  cfg.Schedule.SummarySpec,
			Location:     core.Location,
			JobTimeout:   cfg.Schedule.JobTimeout,
		}, zapLogger)
		if err != nil {
			zapLogger.Fatal("invalid notification schedule", zap.Error(err))
		}
		scheduler.Start()
		manager.Register("scheduler", func(ctx context.Context) error {
			scheduler.Stop(ctx)
			return nil
		})
	}

	taskUseCase := taskUC.New(core.Tasks, core.Users, services.NewBufferBridge(bufferProcessor), core.Cache, core.Location, zapLogger)
	userUseCase := userUC.New(core.Users, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout, zapLogger)

	handlers := router.Handlers{
		User:         apiHandler.NewUserHandler(userUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Dashboard:    apiHandler.NewDashboardHandler(core.Dashboard, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(core.Notifier, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	r := router.New(handlers, ctxAdapter.AccessLog)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	zapLogger.Info("server started", zap.String("address", cfg.Address()))
	manager.Go("http_server", func() error {
		return server.ListenAndServe(cfg.Address())
	}, cancel)
	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
	if err := manager.Err(); err != nil {
		zapLogger.Fatal("server stopped with error", zap.Error(err))
	}
}
