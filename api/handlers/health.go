package handlers

import (
	"net/http"

	"agentmarketplace/agents"
	"agentmarketplace/api"
	"agentmarketplace/coral"
)

// HealthHandler reports service health.
type HealthHandler struct {
	registry    *agents.Registry
	integration *coral.Integration
	version     string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(registry *agents.Registry, integration *coral.Integration, version string) *HealthHandler {
	return &HealthHandler{registry: registry, integration: integration, version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}

	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:       "healthy",
		Service:      "agent-marketplace",
		Version:      h.version,
		AgentsOnline: h.registry.Len(),
		Coral: map[string]bool{
			"connected": h.integration.Status().Connected,
		},
	})
}
