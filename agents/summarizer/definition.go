package summarizer

import (
	"time"

	"agentmarketplace/agents"
	"agentmarketplace/llm/shared"
)

// SummarizerAgentSchema defines the schema for the summarizer agent.
var SummarizerAgentSchema = agents.AgentSchema{
	Name:        "summarizer",
	Description: "Creates comprehensive summaries and extracts key insights",
	Input: agents.InputSchema{
		Required: []string{"search"},
		Types: map[string]string{
			"search": "object",
		},
	},
	Output: agents.OutputSchema{
		Type: "object",
		Structure: map[string]string{
			"agent":          "string",
			"task":           "string",
			"original_query": "string",
			"summary":        "string",
			"source_count":   "number",
			"timestamp":      "string",
		},
		Description: "Summary of the search results with source count",
	},
	Version: "1.0.0",
}

// Output is the summary phase payload handed to the validator.
type Output struct {
	Agent         string    `json:"agent"`
	Task          string    `json:"task"`
	OriginalQuery string    `json:"original_query"`
	Summary       string    `json:"summary"`
	SourceCount   int       `json:"source_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// SummarizerAgent condenses search results into a research summary.
// When an LLM provider is configured the summary comes from a chat
// completion; otherwise, and whenever the completion fails, the
// deterministic template is used.
type SummarizerAgent struct {
	llm   shared.LLMProvider
	model string
	stats agents.AgentStats
}

// NewSummarizerAgent creates a new summarizer agent. llm may be nil to
// run in deterministic mode only.
func NewSummarizerAgent(llm shared.LLMProvider, model string) *SummarizerAgent {
	return &SummarizerAgent{llm: llm, model: model}
}

// Name returns the agent name.
func (a *SummarizerAgent) Name() string { return "summarizer" }

// GetSchema returns the agent's schema.
func (a *SummarizerAgent) GetSchema() agents.AgentSchema { return SummarizerAgentSchema }

// GetCapabilities returns the agent's capabilities.
func (a *SummarizerAgent) GetCapabilities() []agents.Capability {
	return []agents.Capability{
		{
			Name:        "text_analysis",
			Description: "Analysis of retrieved source material",
		},
		{
			Name:        "content_summarization",
			Description: "Multi-source summarization with key insights",
		},
	}
}

// GetStats returns the agent's statistics.
func (a *SummarizerAgent) GetStats() agents.AgentStats { return a.stats }

// ValidateInput validates the input according to the schema.
func (a *SummarizerAgent) ValidateInput(input *agents.AgentInput) error {
	if input == nil || input.Data == nil {
		return agents.NewValidationError("search", "search results are required", "MISSING_REQUIRED_FIELD", nil)
	}
	if _, err := searchOutputFrom(input); err != nil {
		return err
	}
	return nil
}
