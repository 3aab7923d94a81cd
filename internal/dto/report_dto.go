package dto

import (
	"time"

	"github.com/google/uuid"
)

// Disclaimer is attached to every analysis response. The system is an
// aid, not a diagnostic device.
const Disclaimer = "This analysis is AI-generated and for informational purposes only. It is not a substitute for professional medical advice, diagnosis, or treatment."

type AnalyzeReportRequest struct {
	Text      string `json:"text" validate:"required"`
	Filename  string `json:"filename"`
	FileType  string `json:"-"`
	SizeBytes int64  `json:"-"`
}

type PatientInfoPayload struct {
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

type AnalysisPayload struct {
	PatientInfo        PatientInfoPayload `json:"patient_info"`
	Symptoms           []string           `json:"symptoms"`
	Medications        []string           `json:"medications"`
	Procedures         []string           `json:"procedures"`
	LabValues          []string           `json:"lab_values"`
	BodyParts          []string           `json:"body_parts"`
	ClinicalImpression string             `json:"clinical_impression,omitempty"`

	RiskFlags  []string `json:"risk_flags"`
	Specialty  string   `json:"specialty_classification"`
	Source     string   `json:"classification_source"`
	Confidence float64  `json:"confidence_score"`

	ProfessionalSummary    string `json:"professional_summary,omitempty"`
	PatientFriendlySummary string `json:"patient_friendly_summary,omitempty"`

	Degraded       bool    `json:"degraded"`
	DegradedReason string  `json:"degraded_reason,omitempty"`
	Cached         bool    `json:"cached"`
	ChunkCount     int     `json:"chunk_count"`
	FailedChunks   int     `json:"failed_chunks"`
	ProcessingMS   float64 `json:"processing_time_ms"`
}

type AnalyzeReportResponse struct {
	Id          uuid.UUID       `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	Filename    string          `json:"filename,omitempty"`
	Status      string          `json:"status"`
	Analysis    AnalysisPayload `json:"analysis"`
	Disclaimer  string          `json:"disclaimer"`
	CreatedAt   time.Time       `json:"created_at"`
}

type ShowReportResponse struct {
	Id          uuid.UUID       `json:"id"`
	Fingerprint string          `json:"fingerprint"`
	Filename    string          `json:"filename,omitempty"`
	Status      string          `json:"status"`
	ErrorMsg    string          `json:"error_message,omitempty"`
	Text        string          `json:"text"`
	Analysis    AnalysisPayload `json:"analysis"`
	Disclaimer  string          `json:"disclaimer"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

type ReportHistoryItem struct {
	Id           uuid.UUID `json:"id"`
	Fingerprint  string    `json:"fingerprint"`
	Filename     string    `json:"filename,omitempty"`
	Status       string    `json:"status"`
	Specialty    string    `json:"specialty_classification"`
	Confidence   float64   `json:"confidence_score"`
	RiskFlagsNum int       `json:"risk_flags_count"`
	Degraded     bool      `json:"degraded"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReportHistoryResponse struct {
	Items  []ReportHistoryItem `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

type ExportReportResponse struct {
	Id         uuid.UUID       `json:"id"`
	Filename   string          `json:"filename,omitempty"`
	Text       string          `json:"text"`
	Analysis   AnalysisPayload `json:"analysis"`
	Disclaimer string          `json:"disclaimer"`
	ExportedAt time.Time       `json:"exported_at"`
}

// PublishReportAnalyzedMessage is the in-process event payload handed to
// the consumer after an analysis is persisted.
type PublishReportAnalyzedMessage struct {
	ReportId uuid.UUID `json:"report_id"`
}
