// Package handlers implements the HTTP handlers of the marketplace
// server.
package handlers

import (
	"encoding/json"
	"net/http"

	"agentmarketplace/api"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, status int, message string, details string) {
	errorResp := api.ErrorResponse{
		Error: message,
		Code:  http.StatusText(status),
	}
	if details != "" {
		errorResp.Details = map[string]any{"details": details}
	}
	writeJSON(w, status, errorResp)
}
