package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/teamtracker/api/handler"
)

type Handlers struct {
	User         *apiHandler.UserHandler
	Task         *apiHandler.TaskHandler
	Dashboard    *apiHandler.DashboardHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

// New registers every route. wrap, when set, decorates each API handler
// (access logging in production).
func New(handlers Handlers, wrap func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	if wrap == nil {
		wrap = func(h fasthttp.RequestHandler) fasthttp.RequestHandler { return h }
	}
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/users", wrap(handlers.User.ListUsers))
	r.POST("/api/v1/users", wrap(handlers.User.RegisterUser))
	r.GET("/api/v1/users/{name}", wrap(handlers.User.GetUser))

	r.GET("/api/v1/tasks", wrap(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", wrap(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", wrap(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", wrap(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", wrap(handlers.Task.DeleteTask))
	r.POST("/api/v1/tasks/{id}/complete", wrap(handlers.Task.CompleteTask))

	r.GET("/api/v1/dashboard/leaderboard", wrap(handlers.Dashboard.Leaderboard))
	r.GET("/api/v1/dashboard/progress", wrap(handlers.Dashboard.Progress))
	r.GET("/api/v1/dashboard/board", wrap(handlers.Dashboard.Board))

	r.POST("/api/v1/notifications/reminders", wrap(handlers.Notification.SendReminders))
	r.POST("/api/v1/notifications/summaries", wrap(handlers.Notification.SendSummaries))

	return r
}
