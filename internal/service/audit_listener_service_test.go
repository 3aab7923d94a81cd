package service

import (
	"context"
	"testing"

	"ai-medreport-be/pkg/events"
	pktNats "ai-medreport-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEventSource struct {
	subject string
	durable string
	handler pktNats.EventHandler
}

func (f *fakeEventSource) Subscribe(subject string, durableName string, handler pktNats.EventHandler) error {
	f.subject = subject
	f.durable = durableName
	f.handler = handler
	return nil
}

type capturedLog struct {
	module  string
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	records []capturedLog
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.records = append(l.records, capturedLog{module, message, details})
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.records = append(l.records, capturedLog{module, message, details})
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.records = append(l.records, capturedLog{module, message, details})
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.records = append(l.records, capturedLog{module, message, details})
}

func (l *recordingLogger) Sync() error { return nil }

func TestAuditListenerSubscribesToReportsStream(t *testing.T) {
	source := &fakeEventSource{}
	svc := NewAuditListenerService(source, &recordingLogger{})

	require.NoError(t, svc.Start())
	assert.Equal(t, pktNats.SubjectAllReports, source.subject)
	assert.Equal(t, "medreport-audit", source.durable)
	require.NotNil(t, source.handler)
}

func TestAuditListenerRecordsIncomingEvents(t *testing.T) {
	source := &fakeEventSource{}
	audit := &recordingLogger{}
	svc := NewAuditListenerService(source, audit)
	require.NoError(t, svc.Start())

	event := events.NewReportAnalyzed("r-1", "fp-1", "Cardiology", 0.85, 2)
	require.NoError(t, source.handler(context.Background(), event))

	require.Len(t, audit.records, 1)
	assert.Equal(t, "BUS", audit.records[0].module)
	assert.Equal(t, events.TypeReportAnalyzed, audit.records[0].details["type"])

	payload, ok := audit.records[0].details["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "r-1", payload["report_id"])
}
