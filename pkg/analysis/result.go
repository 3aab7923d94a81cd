package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PatientInfo is lifted verbatim from the AI response of the first chunk
// that reported anything.
type PatientInfo struct {
	Age    string `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// Result is the full outcome of analyzing one document. It is what gets
// cached, persisted, and ultimately serialized back to the caller.
type Result struct {
	DocumentID  string      `json:"document_id,omitempty"`
	Fingerprint string      `json:"fingerprint"`
	PatientInfo PatientInfo `json:"patient_info"`

	Symptoms           []string `json:"symptoms"`
	Medications        []string `json:"medications"`
	Procedures         []string `json:"procedures"`
	LabValues          []string `json:"lab_values"`
	BodyParts          []string `json:"body_parts"`
	ClinicalImpression string   `json:"clinical_impression,omitempty"`

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

// NormalizeText collapses all runs of whitespace into single spaces and
// trims the ends. Two documents that differ only in formatting normalize
// to the same string and therefore share a fingerprint.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fingerprint returns the cache identity of a document: the hex encoded
// sha256 of its normalized text.
func Fingerprint(normalizedText string) string {
	sum := sha256.Sum256([]byte(normalizedText))
	return hex.EncodeToString(sum[:])
}
