package tasks

import (
	"context"
	"fmt"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"
)

// Enqueuer hands tasks to a processor, either through the queue or inline.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) error
}

// Enqueue saves one task to the queue.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) error {
	if _, err := c.backlite.Add(task).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	return nil
}

// Inline runs task processors synchronously. It is used when the background
// queue is disabled.
type Inline struct {
	notify  backlite.QueueProcessor[SendNotificationTask]
	cleanup backlite.QueueProcessor[CleanupAuditEventsTask]
}

func NewInline(saver NotificationSaver, cleaner AuditEventCleaner, logger *zap.Logger) *Inline {
	return &Inline{
		notify:  SendNotificationProcessor(saver, logger),
		cleanup: CleanupAuditEventsProcessor(cleaner, logger),
	}
}

func (i *Inline) Enqueue(ctx context.Context, task backlite.Task) error {
	switch t := task.(type) {
	case SendNotificationTask:
		return i.notify(ctx, t)
	case CleanupAuditEventsTask:
		return i.cleanup(ctx, t)
	default:
		return fmt.Errorf("no inline processor for %T", task)
	}
}

var (
	_ Enqueuer = (*Client)(nil)
	_ Enqueuer = (*Inline)(nil)
)
