// Package validator implements the validator agent of the research
// pipeline.
package validator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentmarketplace/agents"
	"agentmarketplace/agents/summarizer"
)

// Confidence scoring constants. Each analyzed source adds a fixed bonus
// on top of the base, capped so a canned three-source run lands at 90%.
const (
	baseConfidence      = 60
	perSourceConfidence = 10
	maxConfidence       = 95

	// highQualityThreshold separates "High" from "Medium" ratings.
	highQualityThreshold = 80
)

// Execute validates the summary phase output and attaches a validation
// report with a confidence score.
func (a *ValidatorAgent) Execute(ctx context.Context, input *agents.AgentInput) (*agents.AgentResult, error) {
	start := time.Now()

	summaryOutput, err := summaryOutputFrom(input)
	if err != nil {
		return nil, err
	}

	confidence := Confidence(summaryOutput.SourceCount)
	rating := QualityRating(confidence)

	var b strings.Builder
	b.WriteString(summaryOutput.Summary)
	b.WriteString("\n\n🔍 VALIDATION REPORT:\n")
	fmt.Fprintf(&b, "• Sources analyzed: %d\n", summaryOutput.SourceCount)
	fmt.Fprintf(&b, "• Confidence score: %d%%\n", confidence)
	fmt.Fprintf(&b, "• Information quality: %s\n", rating)
	fmt.Fprintf(&b, "• Validation completed: %s\n", time.Now().Format("15:04:05"))

	output := &Output{
		Agent:           "Validator",
		Task:            "validation_completed",
		FinalSummary:    b.String(),
		ConfidenceScore: confidence,
		QualityRating:   rating,
		Timestamp:       time.Now(),
	}

	duration := time.Since(start)
	a.stats.Record(duration, true)

	return &agents.AgentResult{
		Content:  output,
		Success:  true,
		Duration: duration,
		Metadata: map[string]any{
			"confidence_score": confidence,
			"quality_rating":   rating,
		},
	}, nil
}

// Confidence computes the confidence score for a summary backed by
// sourceCount sources.
func Confidence(sourceCount int) int {
	confidence := baseConfidence + sourceCount*perSourceConfidence
	if confidence > maxConfidence {
		return maxConfidence
	}
	return confidence
}

// QualityRating maps a confidence score to a rating label.
func QualityRating(confidence int) string {
	if confidence > highQualityThreshold {
		return "High"
	}
	return "Medium"
}

// summaryOutputFrom extracts the summary phase output from the input data.
func summaryOutputFrom(input *agents.AgentInput) (*summarizer.Output, error) {
	raw, ok := input.Data["summary"]
	if !ok {
		return nil, agents.NewValidationError("summary", "summary data is required", "MISSING_REQUIRED_FIELD", nil)
	}
	so, ok := raw.(*summarizer.Output)
	if !ok || so == nil {
		return nil, agents.NewValidationError("summary", "summary data must be the summarizer agent output", "INVALID_TYPE", raw)
	}
	return so, nil
}
