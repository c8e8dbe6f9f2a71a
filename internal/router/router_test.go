package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/teamtracker/api/handler"
	"github.com/fastygo/teamtracker/internal/infrastructure/monitor"
)

type upStatus struct{}

func (upStatus) GetStatus() monitor.Status { return monitor.Status{TaskStore: true} }

func TestRouterServesHealthAndWrapsAPI(t *testing.T) {
	wrapped := 0
	wrap := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		wrapped++
		return next
	}
	r := New(Handlers{
		User:         apiHandler.NewUserHandler(nil, nil, nil),
		Task:         apiHandler.NewTaskHandler(nil, nil, nil),
		Dashboard:    apiHandler.NewDashboardHandler(nil, nil, nil),
		Notification: apiHandler.NewNotificationHandler(nil, nil, nil),
		Health:       apiHandler.NewHealthHandler(upStatus{}, nil, nil),
	}, wrap)
	assert.Equal(t, 14, wrapped)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(http.MethodGet)
	ctx.Request.SetRequestURI("/health")
	r.Handler(&ctx)
	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var missing fasthttp.RequestCtx
	missing.Request.Header.SetMethod(http.MethodGet)
	missing.Request.SetRequestURI("/api/v1/unknown")
	r.Handler(&missing)
	assert.Equal(t, http.StatusNotFound, missing.Response.StatusCode())
}
