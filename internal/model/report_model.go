package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MedicalReport struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fingerprint string    `gorm:"type:varchar(64);not null;index"`
	ClientKey   string    `gorm:"type:varchar(255);index"`
	Filename    string    `gorm:"type:varchar(255)"`
	FileType    string    `gorm:"type:varchar(16)"`
	SizeBytes   int64
	Status      string `gorm:"type:varchar(20);not null;default:'processing';index"`
	ErrorMsg    string `gorm:"type:text"`
	Text        string `gorm:"type:text;not null"`

	PatientAge    string `gorm:"type:varchar(32)"`
	PatientGender string `gorm:"type:varchar(32)"`

	Symptoms           datatypes.JSON `gorm:"type:jsonb"`
	Medications        datatypes.JSON `gorm:"type:jsonb"`
	Procedures         datatypes.JSON `gorm:"type:jsonb"`
	LabValues          datatypes.JSON `gorm:"type:jsonb"`
	BodyParts          datatypes.JSON `gorm:"type:jsonb"`
	ClinicalImpression string         `gorm:"type:text"`

	RiskFlags  datatypes.JSON `gorm:"type:jsonb"`
	Specialty  string         `gorm:"type:varchar(100);index"`
	Source     string         `gorm:"type:varchar(20)"`
	Confidence float64        `gorm:"type:double precision"`

	ProfessionalSummary    string `gorm:"type:text"`
	PatientFriendlySummary string `gorm:"type:text"`

	Degraded       bool `gorm:"not null;default:false"`
	DegradedReason string
	Cached         bool `gorm:"not null;default:false"`
	ChunkCount     int
	FailedChunks   int
	ProcessingMS   float64

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (MedicalReport) TableName() string {
	return "medical_reports"
}
