package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"agentmarketplace/api"
	"agentmarketplace/marketplace"
)

// MarketplaceHandler handles catalog, stats, transaction, and payment
// endpoints.
type MarketplaceHandler struct {
	marketplace *marketplace.Marketplace
}

// NewMarketplaceHandler creates a new marketplace handler.
func NewMarketplaceHandler(mp *marketplace.Marketplace) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: mp}
}

// ListAgents handles GET /api/agents.
func (h *MarketplaceHandler) ListAgents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}
	writeJSON(w, http.StatusOK, h.marketplace.GetAgentCatalog())
}

// AgentDetails handles GET /api/agents/{id}/details.
func (h *MarketplaceHandler) AgentDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}

	agentID := strings.TrimPrefix(r.URL.Path, "/api/agents/")
	agentID = strings.TrimSuffix(agentID, "/details")
	if agentID == "" {
		writeJSONError(w, http.StatusBadRequest, "Invalid agent id", "Agent id is required")
		return
	}

	listing, err := h.marketplace.GetAgentDetails(agentID)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "Agent not found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// Stats handles GET /api/marketplace/stats.
func (h *MarketplaceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}
	writeJSON(w, http.StatusOK, h.marketplace.GetStats())
}

// Transactions handles GET /api/transactions.
func (h *MarketplaceHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use GET method")
		return
	}

	txs := h.marketplace.RecentTransactions()
	writeJSON(w, http.StatusOK, api.TransactionsResponse{
		Transactions: txs,
		Count:        len(txs),
	})
}

// CreatePayment handles POST /api/payment/create.
func (h *MarketplaceHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed", "Use POST method")
		return
	}

	var req api.PaymentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if len(req.AgentIDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Agent ids required", "agent_ids field is required")
		return
	}
	if req.UserWallet == "" {
		req.UserWallet = "demo_wallet_123"
	}

	payment := h.marketplace.CreatePaymentRequest(req.AgentIDs, req.UserWallet, req.UserID)
	writeJSON(w, http.StatusOK, payment)
}
