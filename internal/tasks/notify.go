package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/entities"
)

// NotificationSaver stores sent notifications.
type NotificationSaver interface {
	Create(ctx context.Context, n *entities.Notification) error
}

// SendNotificationTask delivers one notification to all readers.
type SendNotificationTask struct {
	ID      string                    `json:"id"`
	Title   string                    `json:"title"`
	Message string                    `json:"message"`
	Type    entities.NotificationType `json:"type"`
	Chapter int                       `json:"chapter,omitempty"`
	Verse   int                       `json:"verse,omitempty"`
}

// Config returns the queue configuration for notification tasks.
func (t SendNotificationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "send_notification",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     1 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Notification converts the task payload into the stored record.
func (t SendNotificationTask) Notification(sentAt time.Time) *entities.Notification {
	n := &entities.Notification{
		ID:      t.ID,
		Title:   t.Title,
		Message: t.Message,
		Type:    t.Type,
		SentAt:  sentAt,
	}
	if n.Type == "" {
		n.Type = entities.NotificationCustom
	}
	if t.Chapter > 0 && t.Verse > 0 {
		chapter, verse := t.Chapter, t.Verse
		n.Chapter = &chapter
		n.Verse = &verse
	}
	return n
}

// SendNotificationProcessor creates a processor function for SendNotificationTask.
func SendNotificationProcessor(saver NotificationSaver, logger *zap.Logger) backlite.QueueProcessor[SendNotificationTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task SendNotificationTask) error {
		if saver == nil {
			return fmt.Errorf("notification store not configured")
		}

		n := task.Notification(time.Now())
		if err := saver.Create(ctx, n); err != nil {
			return fmt.Errorf("store notification %q: %w", task.Title, err)
		}

		logger.Info("notification sent",
			zap.String("id", n.ID),
			zap.String("type", string(n.Type)),
			zap.String("title", n.Title))
		return nil
	}
}

// NewSendNotificationQueue creates a backlite queue for notification tasks.
func NewSendNotificationQueue(saver NotificationSaver, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(SendNotificationProcessor(saver, logger))
}
