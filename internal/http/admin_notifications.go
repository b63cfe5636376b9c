package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/settingsstore"
	"github.com/mrlokans/shloka/internal/tasks"
)

// SendNotificationRequest is the body of POST /api/admin/notifications/send.
type SendNotificationRequest struct {
	Title   string                    `json:"title" binding:"required,max=200"`
	Message string                    `json:"message" binding:"required,max=2000"`
	Type    entities.NotificationType `json:"type" binding:"omitempty,oneof=daily content streak custom"`
	Chapter int                       `json:"chapter" binding:"omitempty,gt=0"`
	Verse   int                       `json:"verse" binding:"omitempty,gt=0"`
}

// ReminderRequest is the body of PUT /api/admin/notifications/reminder.
type ReminderRequest struct {
	Enabled  *bool   `json:"enabled"`
	Schedule *string `json:"schedule"`
}

// ReminderStatus is the reminder configuration plus the live scheduler state.
type ReminderStatus struct {
	settingsstore.ReminderConfigInfo
	Running bool `json:"running"`
}

type AdminNotificationsController struct {
	notifications NotificationLister
	queue         tasks.Enqueuer
	settings      ReminderSettings
	reminder      ReminderRunner
	auditor       Auditor
}

func NewAdminNotificationsController(notifications NotificationLister, queue tasks.Enqueuer, settings ReminderSettings, reminder ReminderRunner, auditor Auditor) *AdminNotificationsController {
	return &AdminNotificationsController{
		notifications: notifications,
		queue:         queue,
		settings:      settings,
		reminder:      reminder,
		auditor:       auditor,
	}
}

// List returns sent notifications, newest first.
// GET /api/admin/notifications?limit=&offset=
func (nc *AdminNotificationsController) List(c *gin.Context) {
	limit, offset := parsePagination(c, 25, 100)

	items, total, err := nc.notifications.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, err, "list notifications")
		return
	}
	if items == nil {
		items = []entities.Notification{}
	}
	c.JSON(http.StatusOK, newPaginatedResponse(items, total, limit, offset))
}

// Send queues a notification for delivery.
// POST /api/admin/notifications/send
func (nc *AdminNotificationsController) Send(c *gin.Context) {
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and message are required")
		return
	}
	if (req.Chapter == 0) != (req.Verse == 0) {
		respondBadRequest(c, "chapter and verse must be given together")
		return
	}

	task := tasks.SendNotificationTask{
		ID:      uuid.NewString(),
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Chapter: req.Chapter,
		Verse:   req.Verse,
	}
	if task.Type == "" {
		task.Type = entities.NotificationCustom
	}

	err := nc.queue.Enqueue(c.Request.Context(), task)
	nc.auditor.LogAction(newAction(c, entities.AuditEventNotification, "notification_send", "notification", task.ID, req.Title), err)
	if err != nil {
		respondInternalError(c, err, "enqueue notification")
		return
	}
	respondAccepted(c, "notification queued", gin.H{"id": task.ID})
}

// Reminder returns the daily reminder configuration.
// GET /api/admin/notifications/reminder
func (nc *AdminNotificationsController) Reminder(c *gin.Context) {
	c.JSON(http.StatusOK, nc.reminderStatus())
}

// UpdateReminder changes the reminder configuration and reschedules the job.
// PUT /api/admin/notifications/reminder
func (nc *AdminNotificationsController) UpdateReminder(c *gin.Context) {
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Enabled == nil && req.Schedule == nil {
		respondBadRequest(c, "enabled or schedule is required")
		return
	}

	if req.Schedule != nil {
		if err := settingsstore.ValidateCronSchedule(*req.Schedule); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}

	err := nc.applyReminder(req)
	nc.auditor.LogAction(newAction(c, entities.AuditEventSettings, "reminder_update", "setting", "reminder", ""), err)
	if err != nil {
		respondInternalError(c, err, "update reminder")
		return
	}
	c.JSON(http.StatusOK, nc.reminderStatus())
}

func (nc *AdminNotificationsController) applyReminder(req ReminderRequest) error {
	if req.Schedule != nil {
		if err := nc.settings.SetReminderSchedule(*req.Schedule); err != nil {
			return err
		}
	}
	if req.Enabled != nil {
		if err := nc.settings.SetReminderEnabled(*req.Enabled); err != nil {
			return err
		}
	}
	return nc.reminder.Reschedule()
}

// ResetReminder drops the database overrides so environment and default
// values apply again.
// DELETE /api/admin/notifications/reminder
func (nc *AdminNotificationsController) ResetReminder(c *gin.Context) {
	err := nc.settings.ClearReminderSettings()
	if err == nil {
		err = nc.reminder.Reschedule()
	}
	nc.auditor.LogAction(newAction(c, entities.AuditEventSettings, "reminder_reset", "setting", "reminder", ""), err)
	if err != nil {
		respondInternalError(c, err, "reset reminder")
		return
	}
	c.JSON(http.StatusOK, nc.reminderStatus())
}

// RunReminder sends today's reminder immediately.
// POST /api/admin/notifications/reminder/run
func (nc *AdminNotificationsController) RunReminder(c *gin.Context) {
	err := nc.reminder.RunNow(c.Request.Context())
	nc.auditor.LogAction(newAction(c, entities.AuditEventNotification, "reminder_run", "notification", "", "Manual daily reminder"), err)
	if err != nil {
		respondError(c, err)
		return
	}
	respondAccepted(c, "daily reminder queued", nil)
}

func (nc *AdminNotificationsController) reminderStatus() ReminderStatus {
	status := ReminderStatus{
		ReminderConfigInfo: nc.settings.GetReminderConfigInfo(),
		Running:            nc.reminder.IsRunning(),
	}
	if next := nc.reminder.NextRun(); next != nil {
		status.NextRunAt = next
	}
	return status
}
