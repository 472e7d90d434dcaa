package search

import (
	"time"

	"agentmarketplace/agents"
)

// SearchAgentSchema defines the schema for the search agent.
var SearchAgentSchema = agents.AgentSchema{
	Name:        "search",
	Description: "Finds and retrieves relevant information from multiple sources",
	Input: agents.InputSchema{
		Required: []string{"query"},
		Types: map[string]string{
			"query": "string",
		},
	},
	Output: agents.OutputSchema{
		Type: "object",
		Structure: map[string]string{
			"agent":     "string",
			"task":      "string",
			"query":     "string",
			"results":   "array",
			"timestamp": "string",
		},
		Description: "Search results with title, snippet and URL per source",
	},
	Version: "1.0.0",
}

// Result is a single search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Output is the search phase payload handed to the summarizer.
type Output struct {
	Agent     string    `json:"agent"`
	Task      string    `json:"task"`
	Query     string    `json:"query"`
	Results   []Result  `json:"results"`
	Timestamp time.Time `json:"timestamp"`
}

// Options configures the search agent.
type Options struct {
	// Live enables scraping the configured sources. When disabled, or
	// when scraping yields nothing, the agent returns demo results.
	Live bool

	// Sources are the URLs visited in live mode.
	Sources []string

	// Timeout bounds a single live fetch.
	Timeout time.Duration
}

// SearchAgent retrieves information for a research query.
type SearchAgent struct {
	opts  Options
	stats agents.AgentStats
}

// NewSearchAgent creates a new search agent.
func NewSearchAgent(opts Options) *SearchAgent {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	return &SearchAgent{opts: opts}
}

// Name returns the agent name.
func (a *SearchAgent) Name() string { return "search" }

// GetSchema returns the agent's schema.
func (a *SearchAgent) GetSchema() agents.AgentSchema { return SearchAgentSchema }

// GetCapabilities returns the agent's capabilities.
func (a *SearchAgent) GetCapabilities() []agents.Capability {
	return []agents.Capability{
		{
			Name:        "web_search",
			Description: "Web search across configured sources",
		},
		{
			Name:        "information_retrieval",
			Description: "Retrieval of titles, snippets and URLs for a query",
		},
	}
}

// GetStats returns the agent's statistics.
func (a *SearchAgent) GetStats() agents.AgentStats { return a.stats }

// ValidateInput validates the input according to the schema.
func (a *SearchAgent) ValidateInput(input *agents.AgentInput) error {
	if input == nil || input.Query == "" {
		return agents.NewValidationError("query", "query is required", "MISSING_REQUIRED_FIELD", nil)
	}
	return nil
}
