package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentmarketplace/agents"
	"agentmarketplace/agents/summarizer"
)

func TestConfidence(t *testing.T) {
	tests := []struct {
		sources int
		want    int
	}{
		{0, 60},
		{1, 70},
		{2, 80},
		{3, 90},
		{4, 95}, // capped
		{10, 95},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Confidence(tt.sources), "sources=%d", tt.sources)
	}
}

func TestQualityRating(t *testing.T) {
	assert.Equal(t, "Medium", QualityRating(60))
	assert.Equal(t, "Medium", QualityRating(80))
	assert.Equal(t, "High", QualityRating(81))
	assert.Equal(t, "High", QualityRating(95))
}

func TestValidatorAppendsReport(t *testing.T) {
	agent := NewValidatorAgent()

	summary := &summarizer.Output{
		Agent:         "Summarizer",
		OriginalQuery: "solar energy",
		Summary:       "A summary of solar energy research.",
		SourceCount:   3,
	}

	result, err := agent.Execute(context.Background(), &agents.AgentInput{
		Data: map[string]any{"summary": summary},
	})
	require.NoError(t, err)
	assert.True(t, result.Success)

	output, ok := result.Content.(*Output)
	require.True(t, ok)
	assert.Equal(t, "Validator", output.Agent)
	assert.Equal(t, "validation_completed", output.Task)
	assert.Equal(t, 90, output.ConfidenceScore)
	assert.Equal(t, "High", output.QualityRating)

	assert.Contains(t, output.FinalSummary, "A summary of solar energy research.")
	assert.Contains(t, output.FinalSummary, "🔍 VALIDATION REPORT:")
	assert.Contains(t, output.FinalSummary, "• Sources analyzed: 3")
	assert.Contains(t, output.FinalSummary, "• Confidence score: 90%")
	assert.Contains(t, output.FinalSummary, "• Information quality: High")
}

func TestValidatorInputValidation(t *testing.T) {
	agent := NewValidatorAgent()

	_, err := agent.Execute(context.Background(), &agents.AgentInput{Data: map[string]any{}})
	var verr *agents.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", verr.Code)

	_, err = agent.Execute(context.Background(), &agents.AgentInput{Data: map[string]any{"summary": 42}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "INVALID_TYPE", verr.Code)
}
