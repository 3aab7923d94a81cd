package analysis

import (
	"strings"

	"ai-medreport-be/pkg/analysis/aiclient"
)

// multiChunkPenalty discounts confidence when findings were stitched
// together from several chunks instead of a single whole-document pass.
const multiChunkPenalty = 0.95

// mergeResponses folds per-chunk AI responses (indexed by chunk order,
// nil for failed chunks) into one document-level response. It returns the
// merged response and how many chunks actually contributed; merged is nil
// when every chunk failed.
func mergeResponses(responses []*aiclient.Response) (*aiclient.Response, int) {
	succeeded := 0
	merged := &aiclient.Response{}

	var impressions []string
	var confidences []float64
	seenFlags := newDedup()
	symptoms := newDedup()
	medications := newDedup()
	procedures := newDedup()
	labValues := newDedup()
	bodyParts := newDedup()

	for _, resp := range responses {
		if resp == nil {
			continue
		}
		succeeded++

		if merged.PatientInfo.Age == "" && merged.PatientInfo.Gender == "" {
			merged.PatientInfo = resp.PatientInfo
		}
		merged.Symptoms = symptoms.addAll(merged.Symptoms, resp.Symptoms)
		merged.Medications = medications.addAll(merged.Medications, resp.Medications)
		merged.Procedures = procedures.addAll(merged.Procedures, resp.Procedures)
		merged.LabValues = labValues.addAll(merged.LabValues, resp.LabValues)
		merged.BodyParts = bodyParts.addAll(merged.BodyParts, resp.BodyParts)
		merged.RiskFlags = seenFlags.addAll(merged.RiskFlags, resp.RiskFlags)

		if resp.ClinicalImpression != "" {
			impressions = append(impressions, resp.ClinicalImpression)
		}
		if merged.Specialty == "" {
			merged.Specialty = resp.Specialty
		}
		if resp.ProfessionalSummary != "" {
			if merged.ProfessionalSummary != "" {
				merged.ProfessionalSummary += " "
			}
			merged.ProfessionalSummary += resp.ProfessionalSummary
		}
		if resp.PatientFriendlySummary != "" {
			if merged.PatientFriendlySummary != "" {
				merged.PatientFriendlySummary += " "
			}
			merged.PatientFriendlySummary += resp.PatientFriendlySummary
		}
		confidences = append(confidences, resp.Confidence)

		if resp.Degraded {
			merged.Degraded = true
			if merged.DegradedReason == "" {
				merged.DegradedReason = resp.DegradedReason
			}
		}
	}

	if succeeded == 0 {
		return nil, 0
	}

	merged.ClinicalImpression = strings.Join(impressions, " | ")

	var sum float64
	for _, c := range confidences {
		sum += c
	}
	merged.Confidence = sum / float64(len(confidences))
	if succeeded > 1 {
		merged.Confidence *= multiChunkPenalty
	}
	return merged, succeeded
}

// dedup keeps first-seen order with case-insensitive identity.
type dedup struct {
	seen map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{seen: make(map[string]struct{})}
}

func (d *dedup) addAll(dst, items []string) []string {
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := d.seen[key]; ok {
			continue
		}
		d.seen[key] = struct{}{}
		dst = append(dst, trimmed)
	}
	return dst
}
