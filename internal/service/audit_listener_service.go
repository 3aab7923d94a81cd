// FILE: internal/service/audit_listener_service.go
package service

import (
	"context"

	"ai-medreport-be/internal/pkg/logger"
	"ai-medreport-be/pkg/events"
	pktNats "ai-medreport-be/pkg/nats"
)

// EventSource is the slice of the NATS subscriber this worker needs.
// Satisfied by *nats.Subscriber.
type EventSource interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type IAuditListenerService interface {
	Start() error
}

// auditListenerService records every event on the reports stream in the
// audit log, including events published by other instances. The durable
// consumer survives restarts, so the trail has no gaps.
type auditListenerService struct {
	source   EventSource
	auditLog logger.ILogger
}

func NewAuditListenerService(source EventSource, auditLog logger.ILogger) IAuditListenerService {
	return &auditListenerService{
		source:   source,
		auditLog: auditLog,
	}
}

func (s *auditListenerService) Start() error {
	return s.source.Subscribe(pktNats.SubjectAllReports, "medreport-audit", s.handleEvent)
}

func (s *auditListenerService) handleEvent(_ context.Context, event events.Event) error {
	s.auditLog.Info("BUS", "event received", map[string]interface{}{
		"type":        event.EventType(),
		"occurred_at": event.Timestamp(),
		"payload":     event.Payload(),
	})
	return nil
}
