package classifier

import (
	"strings"
	"unicode"
)

const (
	// SourceAI marks a classification taken from the AI signal.
	SourceAI = "ai"
	// SourceRules marks a rule-engine-only classification.
	SourceRules = "rules"

	// Unclassified is reported when neither the AI nor the keyword tables
	// produced a specialty.
	Unclassified = "unclassified"

	// AlertPrefix distinguishes rule-derived risk flags from AI-reported
	// ones for audit.
	AlertPrefix = "ALERT: "

	maxRiskFlags = 20
)

type Config struct {
	// AIThreshold is the minimum AI confidence for the AI specialty to be
	// trusted over the rule path.
	AIThreshold float64
	// FallbackConfidence is the fixed conservative confidence of a
	// rule-only classification.
	FallbackConfidence float64

	SpecialtyKeywords map[string][]string
	RiskKeywords      []string
}

// AISignal is the (possibly absent) document-level signal from the AI
// path. A nil signal means total AI unavailability.
type AISignal struct {
	Specialty  string
	RiskFlags  []string
	Confidence float64
}

type Classification struct {
	Specialty  string
	RiskFlags  []string
	Confidence float64
	Source     string
}

// Classifier derives specialty and risk flags. The rule path is purely
// deterministic keyword matching over the document text: it never fails
// and never touches the network, which is what keeps the system functional
// when the AI path is gone.
type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	if cfg.AIThreshold <= 0 {
		cfg.AIThreshold = 0.5
	}
	if cfg.FallbackConfidence <= 0 {
		cfg.FallbackConfidence = 0.3
	}
	if cfg.SpecialtyKeywords == nil {
		cfg.SpecialtyKeywords = DefaultSpecialtyKeywords
	}
	if cfg.RiskKeywords == nil {
		cfg.RiskKeywords = DefaultRiskKeywords
	}
	return &Classifier{cfg: cfg}
}

// Classify evaluates both paths. The rule path always runs; the AI path is
// used when its specialty carries confidence at or above the threshold.
// Risk flags are the union of AI-reported and rule-matched flags, with
// rule matches always included. Confidence is always in [0,1].
func (c *Classifier) Classify(text string, ai *AISignal) Classification {
	ruleSpecialty := c.ruleSpecialty(text)

	var aiFlags []string
	if ai != nil {
		aiFlags = ai.RiskFlags
	}
	flags := c.riskFlags(text, aiFlags)

	if ai != nil && strings.TrimSpace(ai.Specialty) != "" && ai.Confidence >= c.cfg.AIThreshold {
		return Classification{
			Specialty:  strings.TrimSpace(ai.Specialty),
			RiskFlags:  flags,
			Confidence: clamp01(ai.Confidence),
			Source:     SourceAI,
		}
	}

	specialty := ruleSpecialty
	if specialty == "" {
		specialty = Unclassified
	}
	return Classification{
		Specialty:  specialty,
		RiskFlags:  flags,
		Confidence: c.cfg.FallbackConfidence,
		Source:     SourceRules,
	}
}

// ruleSpecialty scores every specialty by keyword match count and returns
// the winner, or "" when nothing matched.
func (c *Classifier) ruleSpecialty(text string) string {
	lower := strings.ToLower(text)

	best := ""
	bestScore := 0
	for specialty, keywords := range c.cfg.SpecialtyKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && specialty < best) {
			best = specialty
			bestScore = score
		}
	}
	if bestScore == 0 {
		return ""
	}
	return best
}

// riskFlags merges AI-reported flags with rule matches. AI flags keep
// their wording and first-seen order; rule matches are appended with the
// alert prefix unless the AI already reported the same finding.
func (c *Classifier) riskFlags(text string, aiFlags []string) []string {
	lower := strings.ToLower(text)

	flags := make([]string, 0, len(aiFlags))
	seen := make(map[string]struct{}, len(aiFlags))
	for _, f := range aiFlags {
		key := strings.ToLower(strings.TrimSpace(f))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		flags = append(flags, strings.TrimSpace(f))
	}

	for _, kw := range c.cfg.RiskKeywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		flags = append(flags, AlertPrefix+titleCase(kw))
	}

	if len(flags) > maxRiskFlags {
		flags = flags[:maxRiskFlags] // cap to prevent noise
	}
	return flags
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
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
