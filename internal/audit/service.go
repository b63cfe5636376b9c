// Package audit records admin actions.
package audit

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mrlokans/shloka/internal/database/audit"
	"github.com/mrlokans/shloka/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	logger  *zap.Logger
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Warn("failed to log audit event", zap.String("action", event.Action), zap.Error(err))
		}
	}()
}

// Wait blocks until background writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// Action describes one admin change.
type Action struct {
	Actor       string
	Type        entities.AuditEventType
	Name        string
	Description string
	EntityType  string
	EntityID    string
	IPAddress   string
	UserAgent   string
}

// LogAction records an admin change and whether it succeeded.
func (s *Service) LogAction(a Action, err error) {
	event := &entities.AuditEvent{
		Actor:       a.Actor,
		EventType:   a.Type,
		Action:      a.Name,
		Description: truncate(a.Description, 500),
		EntityType:  a.EntityType,
		EntityID:    a.EntityID,
		IPAddress:   a.IPAddress,
		UserAgent:   truncate(a.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(actor, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		Actor:     actor,
		EventType: entities.AuditEventAuth,
		Action:    action,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// Events lists recorded events, newest first.
func (s *Service) Events(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
