package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"agentmarketplace/api"
	"agentmarketplace/coral"
	"agentmarketplace/marketplace"
)

// Defaults applied when a workflow request omits fields, matching the
// demo client.
const (
	defaultUserWallet = "demo_wallet_123"
	demoQuery         = "AI automation trends in e-commerce"
)

// defaultAgentSelection selects all three premium agents.
func defaultAgentSelection() []string {
	return []string{marketplace.StepSearch, marketplace.StepContent, marketplace.StepAnalysis}
}

// WorkflowHandler handles paid workflow execution and lookup.
type WorkflowHandler struct {
	integration *coral.Integration
	marketplace *marketplace.Marketplace
}

// NewWorkflowHandler creates a new workflow handler.
func NewWorkflowHandler(integration *coral.Integration, mp *marketplace.Marketplace) *WorkflowHandler {
	return &WorkflowHandler{integration: integration, marketplace: mp}
}

// Execute handles POST /api/workflow/execute.
func (h *WorkflowHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST method")
		return
	}

	var req api.WorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if req.Query == "" {
		writeJSONError(w, http.StatusBadRequest, "Query required", "query field is required")
		return
	}
	if len(req.SelectedAgents) == 0 {
		req.SelectedAgents = defaultAgentSelection()
	}
	if req.UserWallet == "" {
		req.UserWallet = defaultUserWallet
	}

	workflow, err := h.integration.ExecuteWorkflow(r.Context(), req.Query, req.SelectedAgents, req.UserWallet, req.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.WorkflowResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, api.WorkflowResponse{
		Success:  true,
		Workflow: workflow,
	})
}

// Get handles GET /api/workflow/{id}.
func (h *WorkflowHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}

	workflowID := strings.TrimPrefix(r.URL.Path, "/api/workflow/")
	if workflowID == "" {
		writeJSONError(w, http.StatusBadRequest, "Invalid workflow id", "Workflow id is required")
		return
	}

	workflow, ok := h.marketplace.GetWorkflow(workflowID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Workflow not found", "")
		return
	}
	writeJSON(w, http.StatusOK, workflow)
}

// QuickDemo handles POST /api/demo/quick-workflow. Missing request
// fields fall back to the demo defaults, so an empty body runs the full
// three-agent workflow against the fixed demo query.
func (h *WorkflowHandler) QuickDemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST method")
		return
	}

	var req api.WorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		req.Query = demoQuery
	}
	if len(req.SelectedAgents) == 0 {
		req.SelectedAgents = defaultAgentSelection()
	}
	if req.UserWallet == "" {
		req.UserWallet = defaultUserWallet
	}

	workflow, err := h.integration.ExecuteWorkflow(r.Context(), req.Query, req.SelectedAgents, req.UserWallet, "demo_user")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.DemoWorkflowResponse{
			Success: false,
			Demo:    true,
			Query:   req.Query,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, api.DemoWorkflowResponse{
		Success:       true,
		Demo:          true,
		Query:         req.Query,
		Workflow:      workflow,
		TotalCostSOL:  workflow.TotalCostSOL,
		TotalCostUSD:  workflow.TotalCostUSD,
		StepsExecuted: len(workflow.Results),
	})
}
