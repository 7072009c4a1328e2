package audit

import (
	"context"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookstore/internal/database/audit"
	"github.com/mrlokans/bookstore/internal/entities"
)

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	log     logrus.FieldLogger
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write is detached from any request context.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			s.log.WithError(err).WithField("action", event.Action).Error("failed to log audit event")
		}
	}()
}

// Wait blocks until all background writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogCreate records the creation of an entity.
func (s *Service) LogCreate(actor uuid.UUID, entityType string, entityID uuid.UUID, entityName string) {
	s.logChange(actor, entities.AuditEventCreate, "create", "Created", entityType, entityID, entityName)
}

// LogUpdate records a change to an entity.
func (s *Service) LogUpdate(actor uuid.UUID, entityType string, entityID uuid.UUID, entityName string) {
	s.logChange(actor, entities.AuditEventUpdate, "update", "Updated", entityType, entityID, entityName)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(actor uuid.UUID, entityType string, entityID uuid.UUID, entityName string) {
	s.logChange(actor, entities.AuditEventDelete, "delete", "Deleted", entityType, entityID, entityName)
}

func (s *Service) logChange(actor uuid.UUID, eventType entities.AuditEventType, verb, past, entityType string, entityID uuid.UUID, entityName string) {
	event := &entities.AuditEvent{
		UserID:      optionalID(actor),
		EventType:   eventType,
		Action:      entityType + "_" + verb,
		Description: truncate(past+" "+entityType+": "+entityName, 500),
		EntityType:  entityType,
		EntityID:    &entityID,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event. userID is uuid.Nil when the
// attempt did not resolve to a known user.
func (s *Service) LogAuth(userID uuid.UUID, action, ipAddr, userAgent string, success bool) {
	event := &entities.AuditEvent{
		UserID:    optionalID(userID),
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

// GetEvents retrieves paginated audit events, optionally filtered by type.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	if eventType != "" {
		return s.repo.GetEventsByType(ctx, eventType, nil, limit, offset)
	}
	return s.repo.GetEvents(ctx, nil, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

// truncate shortens a string to at most maxLen bytes without splitting a
// multi-byte character.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
