package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/pkg/httpcontext"
	dashboardUC "github.com/fastygo/teamtracker/usecase/dashboard"
)

type DashboardHandler struct {
	baseHandler
	uc DashboardService
}

func NewDashboardHandler(uc DashboardService, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Leaderboard
// @Tags dashboard
// @Router /api/v1/dashboard/leaderboard [get]
func (h *DashboardHandler) Leaderboard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	board, err := h.uc.Leaderboard(stdCtx, dashboardFilter(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}

// @Summary Progress over time
// @Tags dashboard
// @Router /api/v1/dashboard/progress [get]
func (h *DashboardHandler) Progress(ctx *fasthttp.RequestCtx) {
	bucketing, err := domain.ParseBucketing(queryString(ctx, "bucket"))
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	view, err := h.uc.Progress(stdCtx, dashboardFilter(ctx), bucketing)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, view)
}

// @Summary Active task board
// @Tags dashboard
// @Router /api/v1/dashboard/board [get]
func (h *DashboardHandler) Board(ctx *fasthttp.RequestCtx) {
	opts := dashboardUC.BoardOptions{AdminMode: true}
	if raw := queryString(ctx, "admin"); raw != "" {
		admin, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondInvalid(ctx, "admin must be true or false")
			return
		}
		opts.AdminMode = admin
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	board, err := h.uc.Board(stdCtx, dashboardFilter(ctx), opts)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, board)
}

func dashboardFilter(ctx *fasthttp.RequestCtx) dashboardUC.Filter {
	return dashboardUC.Filter{
		Owner:    queryString(ctx, "user"),
		Category: queryString(ctx, "category"),
	}
}
