package coral

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"agentmarketplace/marketplace"
)

// Modes the integration can run in.
const (
	ModeCoral      = "coral"
	ModeStandalone = "standalone"
)

// confidenceBonus is added to each step's confidence score when the
// workflow was coordinated through Coral, capped at 1.0.
const confidenceBonus = 0.05

// agentCoordination labels how Coral-routed workflows were orchestrated.
const agentCoordination = "Coral Protocol orchestrated"

// enhancedCapabilities lists what Coral coordination adds to a workflow.
func enhancedCapabilities() []string {
	return []string{
		"Cross-agent communication via Coral",
		"Persistent session management",
		"Real-time thread monitoring",
		"Protocol-standard agent discovery",
	}
}

// Status describes the integration's connection state.
type Status struct {
	Mode            string `json:"mode"`
	Connected       bool   `json:"connected"`
	ServerURL       string `json:"server_url"`
	SessionID       string `json:"session_id,omitempty"`
	ProtocolVersion string `json:"protocol_version"`
}

// Integration routes marketplace workflows through a Coral session when
// the server is reachable, falling back to direct execution otherwise.
type Integration struct {
	client        *Client
	marketplace   *marketplace.Marketplace
	logger        *zerolog.Logger
	applicationID string
	privacyKey    string
	mode          string
}

// NewIntegration wires the Coral client to the marketplace.
func NewIntegration(client *Client, mp *marketplace.Marketplace, applicationID, privacyKey string, logger *zerolog.Logger) *Integration {
	return &Integration{
		client:        client,
		marketplace:   mp,
		logger:        logger,
		applicationID: applicationID,
		privacyKey:    privacyKey,
		mode:          ModeStandalone,
	}
}

// Initialize connects to the Coral server and creates a session. When
// the server is unreachable the integration stays in standalone mode;
// workflows still run, just without Coral coordination.
func (i *Integration) Initialize(ctx context.Context) error {
	if err := i.client.Health(ctx); err != nil {
		if i.logger != nil {
			i.logger.Warn().Err(err).Msg("coral server unavailable, running standalone")
		}
		i.mode = ModeStandalone
		return nil
	}

	if _, err := i.client.CreateSession(ctx, i.applicationID, i.privacyKey); err != nil {
		if i.logger != nil {
			i.logger.Warn().Err(err).Msg("coral session setup failed, running standalone")
		}
		i.mode = ModeStandalone
		return nil
	}

	i.mode = ModeCoral
	if i.logger != nil {
		i.logger.Info().Str("session_id", i.client.SessionID()).Msg("coral integration active")
	}
	return nil
}

// Mode returns the active mode.
func (i *Integration) Mode() string { return i.mode }

// Status reports the integration state.
func (i *Integration) Status() *Status {
	return &Status{
		Mode:            i.mode,
		Connected:       i.mode == ModeCoral,
		ServerURL:       i.client.BaseURL(),
		SessionID:       i.client.SessionID(),
		ProtocolVersion: ProtocolVersion,
	}
}

// ExecuteWorkflow runs a paid workflow, coordinating through a Coral
// thread when a session is active. Coral-coordinated runs get annotated
// results and a small confidence bump on each step.
func (i *Integration) ExecuteWorkflow(ctx context.Context, query string, selectedAgents []string, userWallet, userID string) (*marketplace.Workflow, error) {
	if i.mode != ModeCoral {
		return i.marketplace.ExecutePaidWorkflow(ctx, query, selectedAgents, userWallet, userID)
	}

	threadID, err := i.client.CreateThread(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn().Err(err).Msg("coral thread creation failed, executing directly")
		}
		return i.marketplace.ExecutePaidWorkflow(ctx, query, selectedAgents, userWallet, userID)
	}

	announce := fmt.Sprintf("Starting marketplace workflow: %s (agents: %v)", query, selectedAgents)
	if err := i.client.SendMessage(ctx, threadID, announce); err != nil && i.logger != nil {
		i.logger.Warn().Err(err).Str("thread_id", threadID).Msg("failed to announce workflow")
	}

	w, err := i.marketplace.ExecutePaidWorkflow(ctx, query, selectedAgents, userWallet, userID)
	if err != nil {
		_ = i.client.SendMessage(ctx, threadID, "Workflow failed: "+err.Error())
		return nil, err
	}

	i.annotate(w, threadID)
	// The marketplace saved the workflow before annotation; persist the
	// annotated results too.
	i.marketplace.SaveWorkflow(ctx, w)

	done := fmt.Sprintf("Workflow %s completed: %d steps, %.4f SOL", w.ID, len(w.Results), w.TotalCostSOL)
	if err := i.client.SendMessage(ctx, threadID, done); err != nil && i.logger != nil {
		i.logger.Warn().Err(err).Str("thread_id", threadID).Msg("failed to report completion")
	}
	return w, nil
}

// annotate marks each step result as Coral-coordinated and applies the
// confidence bonus.
func (i *Integration) annotate(w *marketplace.Workflow, threadID string) {
	for _, result := range w.Results {
		if result == nil {
			continue
		}
		result.CoralProtocol = &marketplace.CoralAnnotation{
			Enabled:              true,
			SessionID:            i.client.SessionID(),
			ThreadID:             threadID,
			AgentCoordination:    agentCoordination,
			ProtocolVersion:      ProtocolVersion,
			EnhancedCapabilities: enhancedCapabilities(),
			CoordinatedAt:        time.Now(),
		}
		if result.ConfidenceScore > 0 {
			result.EnhancedConfidence = min(1.0, result.ConfidenceScore+confidenceBonus)
		}
	}
}
