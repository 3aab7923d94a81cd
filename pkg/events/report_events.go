package events

import "time"

const (
	TypeReportAnalyzed = "REPORT_ANALYZED"
)

// NewReportAnalyzed builds the event emitted after an analysis has been
// persisted. Payload carries identifiers and outcome, never the document
// text itself.
func NewReportAnalyzed(reportId, fingerprint, specialty string, confidence float64, riskFlagCount int) Event {
	return BaseEvent{
		Type: TypeReportAnalyzed,
		Data: map[string]interface{}{
			"report_id":       reportId,
			"fingerprint":     fingerprint,
			"specialty":       specialty,
			"confidence":      confidence,
			"risk_flag_count": riskFlagCount,
		},
		OccurredAt: time.Now(),
	}
}
