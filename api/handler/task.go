package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/teamtracker/api/transport"
	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/pkg/httpcontext"
	"github.com/fastygo/teamtracker/repository"
	taskUC "github.com/fastygo/teamtracker/usecase/task"
)

const dateLayout = "2006-01-02"

type TaskHandler struct {
	baseHandler
	uc TaskService
}

func NewTaskHandler(uc TaskService, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	filter, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondList(ctx, tasks, transport.ListMeta{Count: len(tasks), Limit: filter.Limit, Offset: filter.Offset})
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, taskUC.NewTask{
		Owner:          req.User,
		Description:    req.Description,
		Points:         req.Points,
		Category:       domain.Category(req.Category),
		DeadlineBucket: domain.DeadlineBucket(req.DeadlineBucket),
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Edit task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	edit := taskUC.TaskEdit{Description: req.Description, Points: req.Points}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		edit.Category = &category
	}
	if req.DeadlineBucket != nil {
		bucket := domain.DeadlineBucket(*req.DeadlineBucket)
		edit.DeadlineBucket = &bucket
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.EditTask(stdCtx, pathParam(ctx, "id"), edit)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Complete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.CompleteTask(stdCtx, pathParam(ctx, "id"))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	id := pathParam(ctx, "id")
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.SetStatusCode(http.StatusNoContent)
}

func (h *TaskHandler) parseFilter(ctx *fasthttp.RequestCtx) (repository.TaskFilter, bool) {
	filter := repository.TaskFilter{
		Owner:    queryString(ctx, "user"),
		Category: domain.Category(queryString(ctx, "category")),
		Limit:    parseInt(queryString(ctx, "limit"), 0),
		Offset:   parseInt(queryString(ctx, "offset"), 0),
	}
	if raw := queryString(ctx, "completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			h.respondInvalid(ctx, "completed must be true or false")
			return filter, false
		}
		filter.Completed = &completed
	}
	if raw := queryString(ctx, "date"); raw != "" {
		day, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.respondInvalid(ctx, "date must be YYYY-MM-DD")
			return filter, false
		}
		filter.CreatedOn = &day
	}
	if filter.Category != "" && !filter.Category.Valid() {
		h.respondInvalid(ctx, "unknown category")
		return filter, false
	}
	return filter, true
}
