package api

import (
	"agentmarketplace/coral"
	"agentmarketplace/marketplace"
	"agentmarketplace/pipeline"
)

// HealthResponse reports the service health and its wiring.
type HealthResponse struct {
	Status       string          `json:"status"`
	Service      string          `json:"service"`
	Version      string          `json:"version"`
	AgentsOnline int             `json:"agents_online"`
	Coral        map[string]bool `json:"coral"`
}

// ResultsResponse wraps the research history.
type ResultsResponse struct {
	Results []*pipeline.ResearchRecord `json:"results"`
	Count   int                        `json:"count"`
}

// WorkflowResponse wraps an executed workflow.
type WorkflowResponse struct {
	Success  bool                  `json:"success"`
	Workflow *marketplace.Workflow `json:"workflow,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// TransactionsResponse wraps the recent payment ledger.
type TransactionsResponse struct {
	Transactions []*marketplace.Transaction `json:"transactions"`
	Count        int                        `json:"count"`
}

// CoralStatusResponse wraps the Coral integration state.
type CoralStatusResponse struct {
	Coral *coral.Status `json:"coral"`
}

// DemoWorkflowResponse is the quick-demo result: a full workflow run
// with a readable cost breakdown.
type DemoWorkflowResponse struct {
	Success       bool                  `json:"success"`
	Demo          bool                  `json:"demo"`
	Query         string                `json:"query"`
	Workflow      *marketplace.Workflow `json:"workflow,omitempty"`
	TotalCostSOL  float64               `json:"total_cost_sol"`
	TotalCostUSD  float64               `json:"total_cost_usd"`
	StepsExecuted int                   `json:"steps_executed"`
	Error         string                `json:"error,omitempty"`
}
