package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentmarketplace/agents/search"
	"agentmarketplace/marketplace"
	"agentmarketplace/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresExistingWhenCreateDisabled(t *testing.T) {
	_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
	assert.Error(t, err)
}

func TestResearchRecordRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	record := &pipeline.ResearchRecord{
		ID:    "rec-1",
		Query: "ocean cleanup",
		SearchPhase: &search.Output{
			Agent:   "Search",
			Query:   "ocean cleanup",
			Results: []search.Result{{Title: "t", Snippet: "s", URL: "u"}},
		},
		AgentsUsed:          []string{"Search", "Summarizer", "Validator"},
		TotalProcessingTime: "12ms",
		CompletedAt:         time.Now(),
	}
	require.NoError(t, s.SaveResearchRecord(ctx, record))

	records, err := s.ListResearchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, "ocean cleanup", records[0].Query)
	require.NotNil(t, records[0].SearchPhase)
	assert.Len(t, records[0].SearchPhase.Results, 1)

	// Saving the same id again replaces, not duplicates.
	record.Query = "updated"
	require.NoError(t, s.SaveResearchRecord(ctx, record))
	records, err = s.ListResearchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "updated", records[0].Query)
}

func TestWorkflowRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w := &marketplace.Workflow{
		ID:             "wf-1",
		Query:          "q",
		Status:         marketplace.StatusProcessing,
		StartedAt:      time.Now(),
		SelectedAgents: []string{"search"},
		Results:        map[string]*marketplace.StepResult{},
		Payments:       map[string]*marketplace.Transaction{},
	}
	require.NoError(t, s.SaveWorkflow(ctx, w))

	w.Status = marketplace.StatusCompleted
	w.Success = true
	require.NoError(t, s.SaveWorkflow(ctx, w))

	workflows, err := s.ListWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, marketplace.StatusCompleted, workflows[0].Status)
	assert.True(t, workflows[0].Success)
}

func TestTransactionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	tx := &marketplace.Transaction{
		TxHash:      "Sol0123456789abcdef",
		AmountSOL:   0.012,
		AmountUSD:   2.16,
		FromWallet:  "demo_wallet_123",
		ToWallet:    "marketplace_treasury",
		AgentID:     "search_pro_2024",
		Status:      "confirmed",
		BlockHeight: 287_450_000,
		Timestamp:   time.Now(),
	}
	require.NoError(t, s.SaveTransaction(ctx, tx))
	// Duplicate hash is ignored.
	require.NoError(t, s.SaveTransaction(ctx, tx))

	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.TxHash, txs[0].TxHash)
	assert.Equal(t, int64(287_450_000), txs[0].BlockHeight)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, s.SaveTransaction(ctx, &marketplace.Transaction{
		TxHash: "Solfeedfacecafebeef", AgentID: "a", Timestamp: time.Now(),
	}))
	require.NoError(t, s.Close())

	s2, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	txs, err := s2.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}
