// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"ai-medreport-be/internal/dto"
	"ai-medreport-be/internal/pkg/logger"
	"ai-medreport-be/internal/repository/contract"
	"ai-medreport-be/internal/repository/specification"
	"ai-medreport-be/pkg/events"
	pktNats "ai-medreport-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process report-analyzed topic: it writes
// an audit record for every completed analysis and forwards the event to
// the NATS bus for downstream systems.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	reportRepo contract.ReportRepository
	natsPub    *pktNats.Publisher
	auditLog   logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	reportRepo contract.ReportRepository,
	natsPub *pktNats.Publisher,
	auditLog logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		reportRepo: reportRepo,
		natsPub:    natsPub,
		auditLog:   auditLog,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReportAnalyzedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.auditLog.Error("CONSUMER", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	report, err := cs.reportRepo.FindOne(ctx, specification.ByID{ID: payload.ReportId})
	if err != nil {
		cs.auditLog.Error("CONSUMER", "failed to load report", map[string]interface{}{
			"report_id": payload.ReportId.String(),
			"error":     err.Error(),
		})
		msg.Nack() // Nack for retriable errors
		return
	}
	if report == nil {
		cs.auditLog.Warn("CONSUMER", "report not found, skipping", map[string]interface{}{
			"report_id": payload.ReportId.String(),
		})
		msg.Ack()
		return
	}

	cs.auditLog.Info("CONSUMER", "report analyzed", map[string]interface{}{
		"report_id":   report.Id.String(),
		"fingerprint": report.Fingerprint,
		"specialty":   report.Specialty,
		"confidence":  report.Confidence,
		"risk_flags":  len(report.RiskFlags),
		"degraded":    report.Degraded,
		"cached":      report.Cached,
	})

	if cs.natsPub != nil {
		event := events.NewReportAnalyzed(report.Id.String(), report.Fingerprint, report.Specialty, report.Confidence, len(report.RiskFlags))
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.auditLog.Warn("CONSUMER", "failed to publish event to bus", map[string]interface{}{
				"report_id": report.Id.String(),
				"error":     err.Error(),
			})
			// The audit record is already written, do not retry forever.
		}
	}

	msg.Ack()
}
