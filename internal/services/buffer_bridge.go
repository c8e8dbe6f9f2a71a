package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/teamtracker/domain"
	"github.com/fastygo/teamtracker/internal/infrastructure/buffer"
	"github.com/fastygo/teamtracker/usecase"
)

// Deletes replay ahead of other writes. A buffered delete purges the task's
// earlier writes, so the reordering cannot resurrect it.
const (
	priorityDelete = 1
	priorityWrite  = 3
)

type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b == nil || b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	priority := priorityWrite
	if operation == usecase.OperationDelete {
		priority = priorityDelete
	}
	item := buffer.Item{
		TaskID:    task.ID,
		Owner:     task.Owner,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  priority,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
