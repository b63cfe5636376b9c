package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/tasks"
)

// AuditCleanupSchedule runs nightly at 03:30.
const AuditCleanupSchedule = "30 3 * * *"

// AuditCleanup periodically enqueues removal of old audit events.
type AuditCleanup struct {
	cron          *cron.Cron
	queue         tasks.Enqueuer
	retentionDays int
	logger        *zap.Logger
}

func NewAuditCleanup(queue tasks.Enqueuer, retentionDays int, logger *zap.Logger) *AuditCleanup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditCleanup{
		cron:          cron.New(),
		queue:         queue,
		retentionDays: retentionDays,
		logger:        logger.Named("audit_cleanup"),
	}
}

func (a *AuditCleanup) Start() error {
	_, err := a.cron.AddFunc(AuditCleanupSchedule, func() {
		if err := a.RunNow(context.Background()); err != nil {
			a.logger.Error("audit cleanup failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	a.cron.Start()
	return nil
}

func (a *AuditCleanup) Stop() {
	<-a.cron.Stop().Done()
}

func (a *AuditCleanup) RunNow(ctx context.Context) error {
	return a.queue.Enqueue(ctx, tasks.CleanupAuditEventsTask{RetentionDays: a.retentionDays})
}
