package validator

import (
	"time"

	"agentmarketplace/agents"
)

// ValidatorAgentSchema defines the schema for the validator agent.
var ValidatorAgentSchema = agents.AgentSchema{
	Name:        "validator",
	Description: "Validates information quality and provides confidence scores",
	Input: agents.InputSchema{
		Required: []string{"summary"},
		Types: map[string]string{
			"summary": "object",
		},
	},
	Output: agents.OutputSchema{
		Type: "object",
		Structure: map[string]string{
			"agent":            "string",
			"task":             "string",
			"final_summary":    "string",
			"confidence_score": "number",
			"quality_rating":   "string",
			"timestamp":        "string",
		},
		Description: "Validated summary with confidence score and quality rating",
	},
	Version: "1.0.0",
}

// Output is the final payload of the research pipeline.
type Output struct {
	Agent           string    `json:"agent"`
	Task            string    `json:"task"`
	FinalSummary    string    `json:"final_summary"`
	ConfidenceScore int       `json:"confidence_score"`
	QualityRating   string    `json:"quality_rating"`
	Timestamp       time.Time `json:"timestamp"`
}

// ValidatorAgent scores the summary quality based on source coverage.
type ValidatorAgent struct {
	stats agents.AgentStats
}

// NewValidatorAgent creates a new validator agent.
func NewValidatorAgent() *ValidatorAgent {
	return &ValidatorAgent{}
}

// Name returns the agent name.
func (a *ValidatorAgent) Name() string { return "validator" }

// GetSchema returns the agent's schema.
func (a *ValidatorAgent) GetSchema() agents.AgentSchema { return ValidatorAgentSchema }

// GetCapabilities returns the agent's capabilities.
func (a *ValidatorAgent) GetCapabilities() []agents.Capability {
	return []agents.Capability{
		{
			Name:        "fact_checking",
			Description: "Cross-checks the summary against its sources",
		},
		{
			Name:        "quality_assessment",
			Description: "Confidence scoring based on source coverage",
		},
	}
}

// GetStats returns the agent's statistics.
func (a *ValidatorAgent) GetStats() agents.AgentStats { return a.stats }

// ValidateInput validates the input according to the schema.
func (a *ValidatorAgent) ValidateInput(input *agents.AgentInput) error {
	if input == nil || input.Data == nil {
		return agents.NewValidationError("summary", "summary data is required", "MISSING_REQUIRED_FIELD", nil)
	}
	if _, err := summaryOutputFrom(input); err != nil {
		return err
	}
	return nil
}
