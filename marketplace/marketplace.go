package marketplace

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Workflow statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Workflow is one paid multi-agent run.
type Workflow struct {
	ID             string                  `json:"id"`
	Query          string                  `json:"query"`
	UserID         string                  `json:"user_id"`
	UserWallet     string                  `json:"user_wallet"`
	SelectedAgents []string                `json:"selected_agents"`
	Status         string                  `json:"status"`
	StartedAt      time.Time               `json:"started_at"`
	CompletedAt    *time.Time              `json:"completed_at,omitempty"`
	FailedAt       *time.Time              `json:"failed_at,omitempty"`
	Results        map[string]*StepResult  `json:"results"`
	Payments       map[string]*Transaction `json:"payments"`
	TotalCostSOL   float64                 `json:"total_cost_sol"`
	TotalCostUSD   float64                 `json:"total_cost_usd"`
	Success        bool                    `json:"success"`
	Error          string                  `json:"error,omitempty"`
}

// Store persists workflows and transactions.
type Store interface {
	SaveWorkflow(ctx context.Context, w *Workflow) error
	ListWorkflows(ctx context.Context) ([]*Workflow, error)
	SaveTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context) ([]*Transaction, error)
}

// PaymentRequest quotes the cost of renting a set of agents.
type PaymentRequest struct {
	PaymentID    string    `json:"payment_id"`
	Agents       []Listing `json:"agents"`
	TotalCostSOL float64   `json:"total_cost_sol"`
	TotalCostUSD float64   `json:"total_cost_usd"`
	UserWallet   string    `json:"user_wallet"`
	CreatedAt    time.Time `json:"created_at"`
}

// CatalogResponse is the marketplace catalog with revenue figures.
type CatalogResponse struct {
	Agents            []Listing     `json:"agents"`
	Categories        []string      `json:"categories"`
	TotalRevenueSOL   float64       `json:"total_revenue_sol"`
	TotalTransactions int           `json:"total_transactions"`
	PlatformStats     PlatformStats `json:"platform_stats"`
}

// Stats aggregates marketplace-wide figures.
type Stats struct {
	TotalAgents          int     `json:"total_agents"`
	TotalWorkflows       int     `json:"total_workflows"`
	TotalRevenueSOL      float64 `json:"total_revenue_sol"`
	TotalRevenueUSD      float64 `json:"total_revenue_usd"`
	SuccessfulWorkflows  int     `json:"successful_workflows"`
	PlatformFeeCollected float64 `json:"platform_fee_collected"`
	CreatorEarnings      float64 `json:"creator_earnings"`
	AvgWorkflowValue     float64 `json:"avg_workflow_value"`
}

// Marketplace orchestrates paid multi-agent workflows.
type Marketplace struct {
	catalog  *Catalog
	payments *PaymentProcessor
	store    Store
	logger   *zerolog.Logger

	mu        sync.RWMutex
	workflows map[string]*Workflow
}

// NewMarketplace creates a marketplace over the given catalog and
// payment processor. store may be nil for in-memory operation.
func NewMarketplace(catalog *Catalog, payments *PaymentProcessor, store Store, logger *zerolog.Logger) *Marketplace {
	m := &Marketplace{
		catalog:   catalog,
		payments:  payments,
		store:     store,
		logger:    logger,
		workflows: make(map[string]*Workflow),
	}
	m.warmFromStore()
	return m
}

// warmFromStore loads persisted workflows and transactions so stats and
// lookups survive restarts.
func (m *Marketplace) warmFromStore() {
	if m.store == nil {
		return
	}
	ctx := context.Background()

	workflows, err := m.store.ListWorkflows(ctx)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn().Err(err).Msg("failed to load workflows from store")
		}
	} else {
		for _, w := range workflows {
			m.workflows[w.ID] = w
		}
	}

	txs, err := m.store.ListTransactions(ctx)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn().Err(err).Msg("failed to load transactions from store")
		}
	} else {
		m.payments.Restore(txs)
	}
}

// Catalog returns the underlying catalog.
func (m *Marketplace) Catalog() *Catalog { return m.catalog }

// GetAgentCatalog returns the catalog with revenue figures.
func (m *Marketplace) GetAgentCatalog() *CatalogResponse {
	return &CatalogResponse{
		Agents:            m.catalog.Listings(),
		Categories:        m.catalog.Categories(),
		TotalRevenueSOL:   m.payments.TotalRevenueSOL(),
		TotalTransactions: m.payments.Count(),
		PlatformStats:     m.catalog.Stats(),
	}
}

// ExecutePaidWorkflow runs the selected agents in sequence, paying for
// each step before it executes. The content step needs the search
// output; the analysis step needs the search output and optionally the
// content output.
func (m *Marketplace) ExecutePaidWorkflow(ctx context.Context, query string, selectedAgents []string, userWallet, userID string) (*Workflow, error) {
	w := &Workflow{
		ID:             uuid.NewString(),
		Query:          query,
		UserID:         userID,
		UserWallet:     userWallet,
		SelectedAgents: selectedAgents,
		Status:         StatusProcessing,
		StartedAt:      time.Now(),
		Results:        make(map[string]*StepResult),
		Payments:       make(map[string]*Transaction),
	}

	if m.logger != nil {
		m.logger.Info().
			Str("workflow_id", w.ID).
			Str("query", query).
			Strs("agents", selectedAgents).
			Msg("executing paid workflow")
	}

	if err := m.runSteps(ctx, w); err != nil {
		now := time.Now()
		w.Status = StatusFailed
		w.Error = err.Error()
		w.FailedAt = &now
		m.saveWorkflow(ctx, w)
		return nil, fmt.Errorf("workflow %s failed: %w", w.ID, err)
	}

	now := time.Now()
	w.Status = StatusCompleted
	w.CompletedAt = &now
	w.TotalCostUSD = w.TotalCostSOL * m.payments.SOLPriceUSD()
	w.Success = true
	m.saveWorkflow(ctx, w)

	if m.logger != nil {
		m.logger.Info().
			Str("workflow_id", w.ID).
			Float64("total_cost_sol", w.TotalCostSOL).
			Float64("total_cost_usd", w.TotalCostUSD).
			Msg("workflow completed")
	}
	return w, nil
}

// runSteps executes the selected steps in the fixed order.
func (m *Marketplace) runSteps(ctx context.Context, w *Workflow) error {
	if m.selected(w, StepSearch) {
		if err := m.payStep(ctx, w, StepSearch); err != nil {
			return err
		}
		w.Results[StepSearch] = executeSearchStep(w.Query)
	}

	if m.selected(w, StepContent) && w.Results[StepSearch] != nil {
		if err := m.payStep(ctx, w, StepContent); err != nil {
			return err
		}
		w.Results[StepContent] = executeContentStep(w.Query, w.Results[StepSearch])
	}

	if m.selected(w, StepAnalysis) && w.Results[StepSearch] != nil {
		if err := m.payStep(ctx, w, StepAnalysis); err != nil {
			return err
		}
		w.Results[StepAnalysis] = executeAnalysisStep(w.Query, w.Results[StepSearch], w.Results[StepContent])
	}

	return nil
}

// selected reports whether the step (by key or full listing id) is in
// the workflow's agent selection.
func (m *Marketplace) selected(w *Workflow, step string) bool {
	if slices.Contains(w.SelectedAgents, step) {
		return true
	}
	listing, err := m.catalog.Get(step)
	if err != nil {
		return false
	}
	return slices.Contains(w.SelectedAgents, listing.ID)
}

// payStep processes the payment for one step and records it.
func (m *Marketplace) payStep(ctx context.Context, w *Workflow, step string) error {
	listing, err := m.catalog.Get(step)
	if err != nil {
		return err
	}

	tx, err := m.payments.ProcessPayment(ctx, listing.PriceSOL, w.UserWallet, listing.ID)
	if err != nil {
		return fmt.Errorf("payment for %s: %w", listing.ID, err)
	}

	w.Payments[step] = tx
	w.TotalCostSOL += tx.AmountSOL

	if m.store != nil {
		if err := m.store.SaveTransaction(ctx, tx); err != nil && m.logger != nil {
			m.logger.Warn().Err(err).Str("tx_hash", tx.TxHash).Msg("failed to persist transaction")
		}
	}
	return nil
}

// SaveWorkflow re-records a workflow whose results were updated after
// execution, refreshing both the in-memory copy and the store.
func (m *Marketplace) SaveWorkflow(ctx context.Context, w *Workflow) {
	m.saveWorkflow(ctx, w)
}

// saveWorkflow records the workflow in memory and in the store.
func (m *Marketplace) saveWorkflow(ctx context.Context, w *Workflow) {
	m.mu.Lock()
	m.workflows[w.ID] = w
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.SaveWorkflow(ctx, w); err != nil && m.logger != nil {
			m.logger.Warn().Err(err).Str("workflow_id", w.ID).Msg("failed to persist workflow")
		}
	}
}

// GetWorkflow returns a workflow by id.
func (m *Marketplace) GetWorkflow(id string) (*Workflow, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workflows[id]
	return w, ok
}

// GetAgentDetails returns the listing for an agent id.
func (m *Marketplace) GetAgentDetails(id string) (*Listing, error) {
	return m.catalog.Get(id)
}

// RecentTransactions returns the latest transactions, newest first.
func (m *Marketplace) RecentTransactions() []*Transaction {
	return m.payments.Recent(10)
}

// CreatePaymentRequest quotes a payment for the given agent ids.
// Unknown ids are skipped, matching the original behavior.
func (m *Marketplace) CreatePaymentRequest(agentIDs []string, userWallet, userID string) *PaymentRequest {
	_ = userID

	req := &PaymentRequest{
		PaymentID:  uuid.NewString(),
		UserWallet: userWallet,
		CreatedAt:  time.Now(),
	}
	for _, id := range agentIDs {
		listing, err := m.catalog.Get(id)
		if err != nil {
			continue
		}
		req.Agents = append(req.Agents, *listing)
		req.TotalCostSOL += listing.PriceSOL
	}
	req.TotalCostUSD = req.TotalCostSOL * m.payments.SOLPriceUSD()
	return req
}

// GetStats aggregates marketplace statistics.
func (m *Marketplace) GetStats() *Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	totalRevenue := m.payments.TotalRevenueSOL()

	stats := &Stats{
		TotalAgents:          len(m.catalog.Listings()),
		TotalWorkflows:       len(m.workflows),
		TotalRevenueSOL:      totalRevenue,
		TotalRevenueUSD:      totalRevenue * m.payments.SOLPriceUSD(),
		PlatformFeeCollected: totalRevenue * m.payments.PlatformFee(),
		CreatorEarnings:      totalRevenue * (1 - m.payments.PlatformFee()),
	}
	for _, w := range m.workflows {
		if w.Status == StatusCompleted {
			stats.SuccessfulWorkflows++
		}
	}
	if len(m.workflows) > 0 {
		stats.AvgWorkflowValue = totalRevenue / float64(len(m.workflows))
	}
	return stats
}
