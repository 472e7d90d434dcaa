package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"agentmarketplace/api"
	"agentmarketplace/pipeline"
)

// ResearchHandler handles the free research pipeline endpoints.
type ResearchHandler struct {
	orchestrator *pipeline.Orchestrator
}

// NewResearchHandler creates a new research handler.
func NewResearchHandler(orchestrator *pipeline.Orchestrator) *ResearchHandler {
	return &ResearchHandler{orchestrator: orchestrator}
}

// SubmitResearch handles POST /api/research. The pipeline runs in the
// background; clients poll /api/results for the outcome.
func (h *ResearchHandler) SubmitResearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST method")
		return
	}

	var req api.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeJSONError(w, http.StatusBadRequest, "Query required", "query field is required")
		return
	}

	h.orchestrator.Start(req.Query)

	writeJSON(w, http.StatusOK, api.ResearchAccepted{
		Status:  "started",
		Message: "Multi-agent research started",
		Query:   req.Query,
	})
}

// ListResults handles GET /api/results.
func (h *ResearchHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}

	results := h.orchestrator.Results()
	writeJSON(w, http.StatusOK, api.ResultsResponse{
		Results: results,
		Count:   len(results),
	})
}
