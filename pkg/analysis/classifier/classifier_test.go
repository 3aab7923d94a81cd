package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRulePathWithoutAISignal(t *testing.T) {
	c := New(Config{})

	// total AI unavailability: classification must still work
	result := c.Classify("Patient reports chest pain and shortness of breath. Prescribed aspirin.", nil)

	assert.Equal(t, "Cardiology", result.Specialty)
	assert.Equal(t, SourceRules, result.Source)
	assert.Equal(t, 0.3, result.Confidence)

	var hasChestPain bool
	for _, f := range result.RiskFlags {
		if strings.Contains(strings.ToLower(f), "chest pain") {
			hasChestPain = true
		}
		assert.True(t, strings.HasPrefix(f, AlertPrefix), "rule flags carry the alert prefix")
	}
	assert.True(t, hasChestPain, "chest pain must be flagged")
}

func TestClassifyUnclassifiedWhenNothingMatches(t *testing.T) {
	c := New(Config{})

	result := c.Classify("The weather was pleasant and the meeting ran long.", nil)
	assert.Equal(t, Unclassified, result.Specialty)
	assert.Empty(t, result.RiskFlags)
	assert.Equal(t, SourceRules, result.Source)
}

func TestClassifyAIAboveThresholdWins(t *testing.T) {
	c := New(Config{AIThreshold: 0.5})

	ai := &AISignal{Specialty: "Neurology", Confidence: 0.9, RiskFlags: []string{"seizure activity"}}
	result := c.Classify("Patient had a seizure last week.", ai)

	assert.Equal(t, "Neurology", result.Specialty)
	assert.Equal(t, SourceAI, result.Source)
	assert.Equal(t, 0.9, result.Confidence)
}

func TestClassifyAIBelowThresholdFallsBack(t *testing.T) {
	c := New(Config{AIThreshold: 0.5, FallbackConfidence: 0.3})

	ai := &AISignal{Specialty: "Neurology", Confidence: 0.2}
	result := c.Classify("Cardiac catheterization showed coronary stenosis.", ai)

	assert.Equal(t, "Cardiology", result.Specialty, "low-confidence AI loses to the rule path")
	assert.Equal(t, SourceRules, result.Source)
	assert.Equal(t, 0.3, result.Confidence)
}

func TestClassifyRiskFlagsAreUnionOfBothPaths(t *testing.T) {
	c := New(Config{})

	ai := &AISignal{Specialty: "Cardiology", Confidence: 0.8, RiskFlags: []string{"elevated troponin"}}
	result := c.Classify("Severe chest pain, troponin dangerously elevated.", ai)

	assert.Contains(t, result.RiskFlags, "elevated troponin")

	var ruleFlagged int
	for _, f := range result.RiskFlags {
		if strings.HasPrefix(f, AlertPrefix) {
			ruleFlagged++
		}
	}
	assert.Greater(t, ruleFlagged, 0, "rule matches are always included")
	assert.Equal(t, "elevated troponin", result.RiskFlags[0], "AI flags keep first-seen order")
}

func TestClassifyRuleFlagSkippedWhenAIAlreadyReportedIt(t *testing.T) {
	c := New(Config{})

	ai := &AISignal{Specialty: "Cardiology", Confidence: 0.8, RiskFlags: []string{"chest pain"}}
	result := c.Classify("Patient reports chest pain.", ai)

	var count int
	for _, f := range result.RiskFlags {
		if strings.Contains(strings.ToLower(f), "chest pain") {
			count++
		}
	}
	assert.Equal(t, 1, count, "same finding must not appear twice")
}

func TestClassifyConfidenceAlwaysInRange(t *testing.T) {
	c := New(Config{})

	inputs := []*AISignal{
		nil,
		{Specialty: "Cardiology", Confidence: 1.7},
		{Specialty: "Cardiology", Confidence: -0.2},
		{Specialty: "", Confidence: 0.99},
	}
	for _, ai := range inputs {
		result := c.Classify("cardiac arrest in the icu", ai)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestClassifyFlagCap(t *testing.T) {
	c := New(Config{})

	// every risk keyword present plus a pile of AI flags
	text := strings.Join(DefaultRiskKeywords, ". ")
	ai := &AISignal{Specialty: "Cardiology", Confidence: 0.9,
		RiskFlags: []string{"f1", "f2", "f3", "f4", "f5"}}

	result := c.Classify(text, ai)
	assert.LessOrEqual(t, len(result.RiskFlags), 20)
}
