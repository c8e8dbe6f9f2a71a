package usecase

import (
	"context"

	"github.com/fastygo/teamtracker/domain"
)

// Operations a buffered task write can replay.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer accepts task writes the task store could not take right now.
// Use cases call it only after the repository failed with a non-domain error.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
}
