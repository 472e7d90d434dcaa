package handlers

import (
	"encoding/json"
	"net/http"

	"agentmarketplace/api"
	"agentmarketplace/coral"
	"agentmarketplace/marketplace"
)

// CoralHandler exposes the Coral integration state and the tool
// endpoints Coral agents call back into.
type CoralHandler struct {
	integration *coral.Integration
	marketplace *marketplace.Marketplace
}

// NewCoralHandler creates a new coral handler.
func NewCoralHandler(integration *coral.Integration, mp *marketplace.Marketplace) *CoralHandler {
	return &CoralHandler{integration: integration, marketplace: mp}
}

// Status handles GET /api/coral/status.
func (h *CoralHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}
	writeJSON(w, http.StatusOK, api.CoralStatusResponse{Coral: h.integration.Status()})
}

// DiscoverAgents handles POST /api/coral/discover-agents, the
// marketplace-discovery tool Coral agents call.
func (h *CoralHandler) DiscoverAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST method")
		return
	}

	var req struct {
		Category    string  `json:"category"`
		MaxPriceSOL float64 `json:"max_price_sol"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	var agents []marketplace.Listing
	for _, l := range h.marketplace.Catalog().Listings() {
		if req.Category != "" && l.Category != req.Category {
			continue
		}
		if req.MaxPriceSOL > 0 && l.PriceSOL > req.MaxPriceSOL {
			continue
		}
		agents = append(agents, l)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"agents": agents,
		"count":  len(agents),
	})
}

// ExecuteWorkflowTool handles POST /api/coral/execute-workflow, the
// marketplace-execution tool Coral agents call.
func (h *CoralHandler) ExecuteWorkflowTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST method")
		return
	}

	var req struct {
		Query      string   `json:"query"`
		AgentIDs   []string `json:"agent_ids"`
		UserWallet string   `json:"user_wallet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if req.Query == "" {
		writeJSONError(w, http.StatusBadRequest, "Query required", "query field is required")
		return
	}
	if len(req.AgentIDs) == 0 || req.UserWallet == "" {
		writeJSONError(w, http.StatusBadRequest, "Missing required fields", "agent_ids and user_wallet are required")
		return
	}

	workflow, err := h.integration.ExecuteWorkflow(r.Context(), req.Query, req.AgentIDs, req.UserWallet, "coral_agent")
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, api.WorkflowResponse{Success: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, api.WorkflowResponse{Success: true, Workflow: workflow})
}
