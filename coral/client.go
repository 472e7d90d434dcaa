// Package coral implements the Coral Protocol client and the
// integration layer that routes marketplace workflows through a Coral
// server when one is available.
package coral

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"agentmarketplace/coral/transport"
)

// ProtocolVersion is the Coral protocol version this client speaks.
const ProtocolVersion = "Coral v1.0"

// Client talks to a Coral server over HTTP.
type Client struct {
	baseURL        string
	marketplaceURL string
	http           *transport.Client
	logger         *zerolog.Logger

	mu        sync.RWMutex
	sessionID string
}

// NewClient creates a Coral client. baseURL is the Coral server;
// marketplaceURL is this server's own base URL, advertised to Coral as
// the transport for the marketplace tools.
func NewClient(baseURL, marketplaceURL string, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		marketplaceURL: strings.TrimRight(marketplaceURL, "/"),
		logger:         logger,
		// A single fast retry: standalone fallback should kick in
		// quickly when no Coral server is running.
		http: transport.New(transport.Options{
			Timeout:           15 * time.Second,
			RetryMax:          1,
			RetryBackoff:      200 * time.Millisecond,
			RequestsPerSecond: 10,
		}),
	}
}

// BaseURL returns the Coral server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SessionID returns the active session id, empty when no session exists.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Health checks whether the Coral server is reachable.
func (c *Client) Health(ctx context.Context) error {
	status, err := c.http.GetJSON(ctx, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("coral server unreachable: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("coral server health check failed: status %d", status)
	}
	return nil
}

// CreateSession creates a Coral session for the marketplace and stores
// the returned session id on the client.
func (c *Client) CreateSession(ctx context.Context, applicationID, privacyKey string) (string, error) {
	var resp struct {
		SessionID string `json:"sessionId"`
	}

	status, err := c.http.PostJSON(ctx, c.baseURL+"/sessions", c.sessionConfig(applicationID, privacyKey), &resp)
	if err != nil {
		return "", fmt.Errorf("failed to create coral session: %w", err)
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("failed to create coral session: status %d", status)
	}
	if resp.SessionID == "" {
		return "", fmt.Errorf("coral server returned no session id")
	}

	c.mu.Lock()
	c.sessionID = resp.SessionID
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info().Str("session_id", resp.SessionID).Msg("coral session created")
	}
	return resp.SessionID, nil
}

// CreateThread creates a new thread in the active session.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	sessionID := c.SessionID()
	if sessionID == "" {
		return "", fmt.Errorf("no active coral session")
	}

	body := map[string]string{
		"name":        "marketplace_thread_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8],
		"description": "Agent Marketplace workflow thread",
	}

	var resp struct {
		ThreadID string `json:"threadId"`
	}
	url := fmt.Sprintf("%s/sessions/%s/threads", c.baseURL, sessionID)
	status, err := c.http.PostJSON(ctx, url, body, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to create coral thread: %w", err)
	}
	if status != http.StatusCreated {
		return "", fmt.Errorf("failed to create coral thread: status %d", status)
	}
	if resp.ThreadID == "" {
		return "", fmt.Errorf("coral server returned no thread id")
	}
	return resp.ThreadID, nil
}

// SendMessage posts a message to a thread in the active session.
func (c *Client) SendMessage(ctx context.Context, threadID, message string) error {
	sessionID := c.SessionID()
	if sessionID == "" {
		return fmt.Errorf("no active coral session")
	}

	body := map[string]string{
		"message":   message,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	url := fmt.Sprintf("%s/sessions/%s/threads/%s/messages", c.baseURL, sessionID, threadID)
	status, err := c.http.PostJSON(ctx, url, body, nil)
	if err != nil {
		return fmt.Errorf("failed to send coral message: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("failed to send coral message: status %d", status)
	}
	return nil
}

// SessionStatus fetches the status document of the active session.
func (c *Client) SessionStatus(ctx context.Context) (map[string]any, error) {
	sessionID := c.SessionID()
	if sessionID == "" {
		return nil, fmt.Errorf("no active coral session")
	}

	var status map[string]any
	code, err := c.http.GetJSON(ctx, fmt.Sprintf("%s/sessions/%s", c.baseURL, sessionID), &status)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("failed to get session status: status %d", code)
	}
	return status, nil
}

// ListThreads lists the threads of the active session.
func (c *Client) ListThreads(ctx context.Context) ([]map[string]any, error) {
	sessionID := c.SessionID()
	if sessionID == "" {
		return nil, fmt.Errorf("no active coral session")
	}

	var resp struct {
		Threads []map[string]any `json:"threads"`
	}
	code, err := c.http.GetJSON(ctx, fmt.Sprintf("%s/sessions/%s/threads", c.baseURL, sessionID), &resp)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("failed to list threads: status %d", code)
	}
	return resp.Threads, nil
}

// sessionConfig builds the session document: the agent graph and the
// marketplace tools Coral agents can call back into.
func (c *Client) sessionConfig(applicationID, privacyKey string) map[string]any {
	modelOptions := func(extra map[string]any) map[string]any {
		opts := map[string]any{
			"MODEL_API_KEY":     "demo_key",
			"MODEL_NAME":        "gpt-4",
			"MODEL_PROVIDER":    "openai",
			"MODEL_MAX_TOKENS":  "16000",
			"MODEL_TEMPERATURE": "0.3",
			"TIMEOUT_MS":        60000,
		}
		for k, v := range extra {
			opts[k] = v
		}
		return opts
	}

	return map[string]any{
		"applicationId": applicationID,
		"privacyKey":    privacyKey,
		"agentGraph": map[string]any{
			"agents": map[string]any{
				"interface": map[string]any{
					"type":      "local",
					"agentType": "interface",
					"options":   modelOptions(nil),
					"tools":     []string{"marketplace-discovery", "marketplace-execution"},
				},
				"github": map[string]any{
					"type":      "local",
					"agentType": "github",
					"options":   modelOptions(map[string]any{"GITHUB_PERSONAL_ACCESS_TOKEN": "demo_token"}),
					"tools":     []string{},
				},
				"firecrawl": map[string]any{
					"type":      "local",
					"agentType": "firecrawl",
					"options":   modelOptions(map[string]any{"FIRECRAWL_API_KEY": "demo_key"}),
					"tools":     []string{},
				},
			},
			"links": [][]string{{"interface", "github", "firecrawl"}},
			"tools": map[string]any{
				"marketplace-discovery": map[string]any{
					"transport": map[string]any{
						"type": "http",
						"url":  c.marketplaceURL + "/api/coral/discover-agents",
					},
					"toolSchema": map[string]any{
						"name":        "discover-marketplace-agents",
						"description": "Discover available agents in the marketplace",
						"inputSchema": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"category":      map[string]any{"type": "string", "description": "Agent category filter"},
								"max_price_sol": map[string]any{"type": "number", "description": "Maximum price in SOL"},
							},
						},
					},
				},
				"marketplace-execution": map[string]any{
					"transport": map[string]any{
						"type": "http",
						"url":  c.marketplaceURL + "/api/coral/execute-workflow",
					},
					"toolSchema": map[string]any{
						"name":        "execute-marketplace-workflow",
						"description": "Execute a multi-agent workflow in the marketplace",
						"inputSchema": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"query":       map[string]any{"type": "string", "description": "The task query"},
								"agent_ids":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Selected agent IDs"},
								"user_wallet": map[string]any{"type": "string", "description": "User's Solana wallet"},
							},
							"required": []string{"query", "agent_ids", "user_wallet"},
						},
					},
				},
			},
		},
	}
}
