package aiclient

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DegradedConfidenceCeiling caps the confidence of any payload that failed
// schema validation. Partial structured output is still useful, but it must
// never look as trustworthy as a clean one.
const DegradedConfidenceCeiling = 0.4

// PatientInfo holds demographic hints the model extracted, if any.
type PatientInfo struct {
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

// Response is the validated (or explicitly degraded) reply for one chunk.
// A degraded response carries the raw payload and the reason validation
// failed; it is never a bare map passed downstream.
type Response struct {
	PatientInfo            PatientInfo
	Symptoms               []string
	Medications            []string
	Procedures             []string
	LabValues              []string
	BodyParts              []string
	ClinicalImpression     string
	RiskFlags              []string
	Specialty              string
	ProfessionalSummary    string
	PatientFriendlySummary string
	Confidence             float64

	Degraded       bool
	DegradedReason string
	Raw            string
}

var (
	fenceRe = regexp.MustCompile("(?i)```(?:json)?\\s*|\\s*```")
	braceRe = regexp.MustCompile(`\{[\s\S]*\}`)
)

// extractJSON pulls a JSON object out of a model reply in three passes:
// direct parse, markdown fence stripping, then the first {...} block.
func extractJSON(raw string) (map[string]interface{}, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err == nil {
		return parsed, true
	}

	cleaned := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
	if err := json.Unmarshal([]byte(cleaned), &parsed); err == nil {
		return parsed, true
	}

	if m := braceRe.FindString(raw); m != "" {
		if err := json.Unmarshal([]byte(m), &parsed); err == nil {
			return parsed, true
		}
	}

	return nil, false
}

// buildResponse coerces a parsed payload into a Response, validating it
// against the expected schema. Shape problems mark the response degraded
// with the confidence forced under the ceiling instead of rejecting it.
func buildResponse(raw string, payload map[string]interface{}) *Response {
	resp := &Response{Raw: raw}
	var problems []string

	requireList := func(key string) []string {
		v, ok := payload[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing %s", key))
			return nil
		}
		list, ok := toStringList(v)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s is not a list", key))
			return nil
		}
		return list
	}

	resp.Symptoms = requireList("symptoms")
	resp.Medications = requireList("medications")
	resp.Procedures = requireList("procedures")
	resp.LabValues = requireList("lab_values")
	resp.BodyParts = requireList("body_parts")
	resp.RiskFlags = requireList("risk_flags")

	if v, ok := payload["specialty_classification"]; ok {
		if s, ok := toString(v); ok {
			resp.Specialty = s
		} else if v != nil {
			problems = append(problems, "specialty_classification is not a string")
		}
	} else {
		problems = append(problems, "missing specialty_classification")
	}

	if pi, ok := payload["patient_info"].(map[string]interface{}); ok {
		resp.PatientInfo.Age, _ = toString(pi["age"])
		resp.PatientInfo.Gender, _ = toString(pi["gender"])
	}

	resp.ClinicalImpression, _ = toString(payload["clinical_impression"])
	resp.ProfessionalSummary, _ = toString(payload["professional_summary"])
	resp.PatientFriendlySummary, _ = toString(payload["patient_friendly_summary"])

	if v, ok := payload["confidence_score"].(float64); ok {
		resp.Confidence = clamp01(v)
	} else {
		problems = append(problems, "missing or non-numeric confidence_score")
	}

	if len(problems) > 0 {
		resp.Degraded = true
		resp.DegradedReason = strings.Join(problems, "; ")
		if resp.Confidence > DegradedConfidenceCeiling {
			resp.Confidence = DegradedConfidenceCeiling
		}
	}

	return resp
}

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case nil:
		return "", true
	default:
		return "", false
	}
}

func toStringList(v interface{}) ([]string, bool) {
	switch items := v.(type) {
	case nil:
		return nil, true
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, item := range items {
			switch s := item.(type) {
			case string:
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			case float64:
				out = append(out, fmt.Sprintf("%v", s))
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
