package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/internal/services"
	"github.com/fastygo/teamtracker/pkg/httpcontext"
)

// NotificationHandler triggers notification runs on demand, outside the cron schedule.
type NotificationHandler struct {
	baseHandler
	runner services.NotificationRunner
}

func NewNotificationHandler(runner services.NotificationRunner, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		runner:      runner,
	}
}

// @Summary Send daily reminders now
// @Tags notifications
// @Router /api/v1/notifications/reminders [post]
func (h *NotificationHandler) SendReminders(ctx *fasthttp.RequestCtx) {
	h.dispatch(ctx, h.runner.SendReminders)
}

// @Summary Send nightly summaries now
// @Tags notifications
// @Router /api/v1/notifications/summaries [post]
func (h *NotificationHandler) SendSummaries(ctx *fasthttp.RequestCtx) {
	h.dispatch(ctx, h.runner.SendSummaries)
}

func (h *NotificationHandler) dispatch(ctx *fasthttp.RequestCtx, run func(context.Context) (*services.DispatchReport, error)) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	report, err := run(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, report)
}
