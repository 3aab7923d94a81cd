// FILE: internal/entity/report_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusProcessing = "processing"
	ReportStatusCompleted  = "completed"
	ReportStatusFailed     = "failed"
)

// MedicalReport is the persisted aggregate: the uploaded text plus the
// full analysis outcome. A row is created as processing and moves to a
// terminal state exactly once.
type MedicalReport struct {
	Id          uuid.UUID
	Fingerprint string
	ClientKey   string
	Filename    string
	FileType    string
	SizeBytes   int64
	Status      string
	ErrorMsg    string
	Text        string

	PatientAge    string
	PatientGender string

	Symptoms           []string
	Medications        []string
	Procedures         []string
	LabValues          []string
	BodyParts          []string
	ClinicalImpression string

	RiskFlags  []string
	Specialty  string
	Source     string
	Confidence float64

	ProfessionalSummary    string
	PatientFriendlySummary string

	Degraded       bool
	DegradedReason string
	Cached         bool
	ChunkCount     int
	FailedChunks   int
	ProcessingMS   float64

	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
