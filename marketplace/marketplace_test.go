package marketplace

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarketplace() *Marketplace {
	catalog := NewCatalog(BuiltinCatalog())
	payments := NewPaymentProcessor(180.0, 0.25)
	return NewMarketplace(catalog, payments, nil, nil)
}

func TestCatalogLookup(t *testing.T) {
	catalog := NewCatalog(BuiltinCatalog())

	byID, err := catalog.Get("search_pro_2024")
	require.NoError(t, err)
	byStep, err := catalog.Get(StepSearch)
	require.NoError(t, err)
	assert.Same(t, byID, byStep)

	_, err = catalog.Get("nonexistent")
	assert.Error(t, err)

	assert.Equal(t, []string{"Research", "Content", "Business Intelligence"}, catalog.Categories())
}

func TestPaymentProcessor(t *testing.T) {
	p := NewPaymentProcessor(180.0, 0.25)

	tx, err := p.ProcessPayment(context.Background(), 0.012, "demo_wallet_123", "search_pro_2024")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^Sol[0-9a-f]{16}$`), tx.TxHash)
	assert.Equal(t, 0.012, tx.AmountSOL)
	assert.InDelta(t, 2.16, tx.AmountUSD, 1e-9)
	assert.Equal(t, "demo_wallet_123", tx.FromWallet)
	assert.Equal(t, "marketplace_treasury", tx.ToWallet)
	assert.Equal(t, "confirmed", tx.Status)
	assert.Equal(t, int64(287_450_000), tx.BlockHeight)
	assert.InDelta(t, 0.003, tx.PlatformFeeSOL, 1e-9)
	assert.InDelta(t, 0.009, tx.CreatorEarningSOL, 1e-9)

	tx2, err := p.ProcessPayment(context.Background(), 0.008, "demo_wallet_123", "content_creator_pro")
	require.NoError(t, err)
	assert.Equal(t, int64(287_450_001), tx2.BlockHeight)

	assert.Equal(t, 2, p.Count())
	assert.InDelta(t, 0.02, p.TotalRevenueSOL(), 1e-9)

	recent := p.Recent(10)
	require.Len(t, recent, 2)
	assert.Equal(t, tx2.TxHash, recent[0].TxHash, "newest first")
}

func TestExecutePaidWorkflowFullRun(t *testing.T) {
	m := newTestMarketplace()

	w, err := m.ExecutePaidWorkflow(context.Background(), "AI in logistics",
		[]string{StepSearch, StepContent, StepAnalysis}, "demo_wallet_123", "user-1")
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, w.Status)
	assert.True(t, w.Success)
	require.NotNil(t, w.CompletedAt)
	assert.Len(t, w.Results, 3)
	assert.Len(t, w.Payments, 3)

	assert.InDelta(t, 0.038, w.TotalCostSOL, 1e-9)
	assert.InDelta(t, 0.038*180.0, w.TotalCostUSD, 1e-9)

	assert.Equal(t, "search_pro_2024", w.Results[StepSearch].AgentID)
	assert.Equal(t, "content_creator_pro", w.Results[StepContent].AgentID)
	assert.Equal(t, "business_analyst_ai", w.Results[StepAnalysis].AgentID)

	stored, ok := m.GetWorkflow(w.ID)
	require.True(t, ok)
	assert.Equal(t, w.ID, stored.ID)
}

func TestExecutePaidWorkflowAcceptsListingIDs(t *testing.T) {
	m := newTestMarketplace()

	w, err := m.ExecutePaidWorkflow(context.Background(), "query",
		[]string{"search_pro_2024", "business_analyst_ai"}, "demo_wallet_123", "")
	require.NoError(t, err)

	assert.Len(t, w.Results, 2)
	assert.Contains(t, w.Results, StepSearch)
	assert.Contains(t, w.Results, StepAnalysis)
	assert.NotContains(t, w.Results, StepContent)
}

func TestContentStepRequiresSearch(t *testing.T) {
	m := newTestMarketplace()

	w, err := m.ExecutePaidWorkflow(context.Background(), "query",
		[]string{StepContent}, "demo_wallet_123", "")
	require.NoError(t, err)

	// Content depends on search output; selecting it alone runs nothing.
	assert.Empty(t, w.Results)
	assert.Zero(t, w.TotalCostSOL)
	assert.Equal(t, StatusCompleted, w.Status)
}

func TestCreatePaymentRequest(t *testing.T) {
	m := newTestMarketplace()

	req := m.CreatePaymentRequest([]string{"search_pro_2024", "unknown_agent", "content"}, "demo_wallet_123", "")
	assert.NotEmpty(t, req.PaymentID)
	require.Len(t, req.Agents, 2, "unknown ids are skipped")
	assert.InDelta(t, 0.02, req.TotalCostSOL, 1e-9)
	assert.InDelta(t, 3.6, req.TotalCostUSD, 1e-9)
}

func TestGetStats(t *testing.T) {
	m := newTestMarketplace()

	_, err := m.ExecutePaidWorkflow(context.Background(), "q",
		[]string{StepSearch}, "demo_wallet_123", "")
	require.NoError(t, err)

	stats := m.GetStats()
	assert.Equal(t, 3, stats.TotalAgents)
	assert.Equal(t, 1, stats.TotalWorkflows)
	assert.Equal(t, 1, stats.SuccessfulWorkflows)
	assert.InDelta(t, 0.012, stats.TotalRevenueSOL, 1e-9)
	assert.InDelta(t, 0.012*180.0, stats.TotalRevenueUSD, 1e-9)
	assert.InDelta(t, 0.012*0.25, stats.PlatformFeeCollected, 1e-9)
	assert.InDelta(t, 0.012*0.75, stats.CreatorEarnings, 1e-9)
	assert.InDelta(t, 0.012, stats.AvgWorkflowValue, 1e-9)
}

func TestStepPayloads(t *testing.T) {
	searchStep := executeSearchStep("fintech")
	require.NotNil(t, searchStep.Results)
	sp, ok := searchStep.Results.(*SearchProResults)
	require.True(t, ok)
	assert.Len(t, sp.WebResults, 3)
	assert.Equal(t, "$47.2B", sp.MarketIntelligence.MarketSizeUSD)
	assert.Equal(t, "23.4% CAGR", sp.MarketIntelligence.GrowthRate)
	assert.Equal(t, 0.94, searchStep.ConfidenceScore)

	contentStep := executeContentStep("fintech", searchStep)
	assert.Equal(t, "content_creator_pro", contentStep.AgentID)
	assert.NotNil(t, contentStep.Content)

	analysisStep := executeAnalysisStep("fintech", searchStep, contentStep)
	assert.Equal(t, "business_analyst_ai", analysisStep.AgentID)
	require.NotNil(t, analysisStep.Analysis)

	ba, ok := analysisStep.Analysis.(*BusinessAnalysis)
	require.True(t, ok)
	assert.Contains(t, ba.ExecutiveSummary, "$47.2B")
	assert.Contains(t, ba.StrategicRecommendations[0], "AI Integration")
}
