package mapper

import (
	"testing"
	"time"

	"ai-medreport-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMapperRoundTrip(t *testing.T) {
	m := NewReportMapper()
	now := time.Now()

	src := &entity.MedicalReport{
		Id:          uuid.New(),
		Fingerprint: "abc123",
		ClientKey:   "client-1",
		Filename:    "visit.txt",
		Text:        "Patient reports chest pain.",

		PatientAge:    "54",
		PatientGender: "male",

		Symptoms:           []string{"chest pain", "dyspnea"},
		Medications:        []string{"aspirin"},
		Procedures:         []string{},
		LabValues:          []string{"troponin 0.04"},
		BodyParts:          []string{"heart"},
		ClinicalImpression: "possible angina",

		RiskFlags:  []string{"ALERT: Chest Pain"},
		Specialty:  "Cardiology",
		Source:     "ai",
		Confidence: 0.85,

		Degraded:     false,
		Cached:       true,
		ChunkCount:   2,
		FailedChunks: 0,
		ProcessingMS: 123.4,

		CreatedAt: now,
	}

	model := m.ToModel(src)
	got := m.ToEntity(model)

	assert.Equal(t, src.Id, got.Id)
	assert.Equal(t, src.Fingerprint, got.Fingerprint)
	assert.Equal(t, src.Symptoms, got.Symptoms)
	assert.Equal(t, src.Medications, got.Medications)
	assert.Equal(t, src.LabValues, got.LabValues)
	assert.Equal(t, src.RiskFlags, got.RiskFlags)
	assert.Equal(t, src.Specialty, got.Specialty)
	assert.Equal(t, src.Confidence, got.Confidence)
	assert.Equal(t, src.Cached, got.Cached)
	assert.Equal(t, src.ChunkCount, got.ChunkCount)
	assert.False(t, got.IsDeleted)
}

func TestReportMapperNilAndEmptyLists(t *testing.T) {
	m := NewReportMapper()

	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))

	src := &entity.MedicalReport{
		Id:   uuid.New(),
		Text: "t",
		// nil list fields must round-trip as empty, not null
	}
	got := m.ToEntity(m.ToModel(src))
	require.NotNil(t, got.Symptoms)
	assert.Empty(t, got.Symptoms)
	require.NotNil(t, got.RiskFlags)
	assert.Empty(t, got.RiskFlags)
}

func TestReportMapperSoftDelete(t *testing.T) {
	m := NewReportMapper()
	deleted := time.Now()

	src := &entity.MedicalReport{
		Id:        uuid.New(),
		Text:      "t",
		DeletedAt: &deleted,
	}
	got := m.ToEntity(m.ToModel(src))
	assert.True(t, got.IsDeleted)
	require.NotNil(t, got.DeletedAt)
}
