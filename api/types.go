// Package api defines the HTTP request and response types of the
// marketplace server.
package api

// ResearchRequest starts a free research pipeline run.
type ResearchRequest struct {
	Query string `json:"query"`
}

// ResearchAccepted acknowledges a background research run.
type ResearchAccepted struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Query   string `json:"query"`
}

// WorkflowRequest executes a paid multi-agent workflow.
type WorkflowRequest struct {
	Query          string   `json:"query"`
	SelectedAgents []string `json:"selected_agents,omitempty"`
	UserWallet     string   `json:"user_wallet,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
}

// PaymentCreateRequest quotes the cost of renting agents.
type PaymentCreateRequest struct {
	AgentIDs   []string `json:"agent_ids"`
	UserWallet string   `json:"user_wallet,omitempty"`
	UserID     string   `json:"user_id,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
