package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"agentmarketplace/agents"
	"agentmarketplace/agents/search"
	"agentmarketplace/agents/summarizer"
	"agentmarketplace/agents/validator"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRegistry() *agents.Registry {
	registry := agents.NewRegistry(nil)
	registry.Register(search.NewSearchAgent(search.Options{}))
	registry.Register(summarizer.NewSummarizerAgent(nil, "gpt-4"))
	registry.Register(validator.NewValidatorAgent())
	return registry
}

func TestOrchestratorRun(t *testing.T) {
	o := NewOrchestrator(newTestRegistry(), nil, nil)

	record, err := o.Run(context.Background(), "renewable energy storage")
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "renewable energy storage", record.Query)
	assert.Equal(t, []string{"Search", "Summarizer", "Validator"}, record.AgentsUsed)
	assert.NotEmpty(t, record.TotalProcessingTime)
	assert.False(t, record.CompletedAt.IsZero())

	require.NotNil(t, record.SearchPhase)
	require.Len(t, record.SearchPhase.Results, 3)

	require.NotNil(t, record.SummaryPhase)
	assert.Equal(t, 3, record.SummaryPhase.SourceCount)

	require.NotNil(t, record.ValidationPhase)
	assert.Equal(t, 90, record.ValidationPhase.ConfidenceScore)
	assert.Equal(t, "High", record.ValidationPhase.QualityRating)
}

func TestOrchestratorHistory(t *testing.T) {
	o := NewOrchestrator(newTestRegistry(), nil, nil)

	_, err := o.Run(context.Background(), "first")
	require.NoError(t, err)
	_, err = o.Run(context.Background(), "second")
	require.NoError(t, err)

	results := o.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Query)
	assert.Equal(t, "second", results[1].Query)

	// Results returns a copy; mutating it must not affect history.
	results[0] = nil
	assert.NotNil(t, o.Results()[0])
}

func TestOrchestratorBackgroundRun(t *testing.T) {
	o := NewOrchestrator(newTestRegistry(), nil, nil)

	o.Start("async query")
	o.Wait()

	results := o.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "async query", results[0].Query)
}

func TestOrchestratorMissingAgent(t *testing.T) {
	registry := agents.NewRegistry(nil)
	registry.Register(search.NewSearchAgent(search.Options{}))
	o := NewOrchestrator(registry, nil, nil)

	_, err := o.Run(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary phase")
}
