package mapper

import (
	"encoding/json"
	"time"

	"ai-medreport-be/internal/entity"
	"ai-medreport-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) ToEntity(r *model.MedicalReport) *entity.MedicalReport {
	if r == nil {
		return nil
	}
	var deletedAt *time.Time
	if r.DeletedAt.Valid {
		t := r.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.MedicalReport{
		Id:          r.Id,
		Fingerprint: r.Fingerprint,
		ClientKey:   r.ClientKey,
		Filename:    r.Filename,
		FileType:    r.FileType,
		SizeBytes:   r.SizeBytes,
		Status:      r.Status,
		ErrorMsg:    r.ErrorMsg,
		Text:        r.Text,

		PatientAge:    r.PatientAge,
		PatientGender: r.PatientGender,

		Symptoms:           fromJSONList(r.Symptoms),
		Medications:        fromJSONList(r.Medications),
		Procedures:         fromJSONList(r.Procedures),
		LabValues:          fromJSONList(r.LabValues),
		BodyParts:          fromJSONList(r.BodyParts),
		ClinicalImpression: r.ClinicalImpression,

		RiskFlags:  fromJSONList(r.RiskFlags),
		Specialty:  r.Specialty,
		Source:     r.Source,
		Confidence: r.Confidence,

		ProfessionalSummary:    r.ProfessionalSummary,
		PatientFriendlySummary: r.PatientFriendlySummary,

		Degraded:       r.Degraded,
		DegradedReason: r.DegradedReason,
		Cached:         r.Cached,
		ChunkCount:     r.ChunkCount,
		FailedChunks:   r.FailedChunks,
		ProcessingMS:   r.ProcessingMS,

		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: r.DeletedAt.Valid,
	}
}

func (m *ReportMapper) ToModel(r *entity.MedicalReport) *model.MedicalReport {
	if r == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if r.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *r.DeletedAt, Valid: true}
	} else if r.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.MedicalReport{
		Id:          r.Id,
		Fingerprint: r.Fingerprint,
		ClientKey:   r.ClientKey,
		Filename:    r.Filename,
		FileType:    r.FileType,
		SizeBytes:   r.SizeBytes,
		Status:      r.Status,
		ErrorMsg:    r.ErrorMsg,
		Text:        r.Text,

		PatientAge:    r.PatientAge,
		PatientGender: r.PatientGender,

		Symptoms:           toJSONList(r.Symptoms),
		Medications:        toJSONList(r.Medications),
		Procedures:         toJSONList(r.Procedures),
		LabValues:          toJSONList(r.LabValues),
		BodyParts:          toJSONList(r.BodyParts),
		ClinicalImpression: r.ClinicalImpression,

		RiskFlags:  toJSONList(r.RiskFlags),
		Specialty:  r.Specialty,
		Source:     r.Source,
		Confidence: r.Confidence,

		ProfessionalSummary:    r.ProfessionalSummary,
		PatientFriendlySummary: r.PatientFriendlySummary,

		Degraded:       r.Degraded,
		DegradedReason: r.DegradedReason,
		Cached:         r.Cached,
		ChunkCount:     r.ChunkCount,
		FailedChunks:   r.FailedChunks,
		ProcessingMS:   r.ProcessingMS,

		CreatedAt: r.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ReportMapper) ToEntities(reports []*model.MedicalReport) []*entity.MedicalReport {
	entities := make([]*entity.MedicalReport, len(reports))
	for i, r := range reports {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func toJSONList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	data, _ := json.Marshal(items)
	return datatypes.JSON(data)
}

func fromJSONList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return []string{}
	}
	return items
}
