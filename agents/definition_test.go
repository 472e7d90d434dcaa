package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	name string
	err  error
}

func (a *stubAgent) Name() string                  { return a.name }
func (a *stubAgent) GetSchema() AgentSchema        { return AgentSchema{Name: a.name} }
func (a *stubAgent) GetCapabilities() []Capability { return nil }

func (a *stubAgent) ValidateInput(input *AgentInput) error {
	if input == nil || input.Query == "" {
		return NewValidationError("query", "query is required", "MISSING_REQUIRED_FIELD", nil)
	}
	return nil
}

func (a *stubAgent) Execute(ctx context.Context, input *AgentInput) (*AgentResult, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &AgentResult{Content: input.Query, Success: true}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&stubAgent{name: "alpha"})
	r.Register(&stubAgent{name: "beta"})

	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.List(), 2)

	agent, err := r.Get("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", agent.Name())

	_, err = r.Get("gamma")
	assert.Error(t, err)
}

func TestRegistryExecuteValidatesInput(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&stubAgent{name: "alpha"})

	_, err := r.Execute(context.Background(), "alpha", &AgentInput{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "MISSING_REQUIRED_FIELD", verr.Code)

	result, err := r.Execute(context.Background(), "alpha", &AgentInput{Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, "go", result.Content)
}

func TestRegistryExecuteWrapsAgentError(t *testing.T) {
	r := NewRegistry(nil)
	boom := errors.New("boom")
	r.Register(&stubAgent{name: "alpha", err: boom})

	_, err := r.Execute(context.Background(), "alpha", &AgentInput{Query: "go"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "agent alpha")
}

func TestAgentStatsRecord(t *testing.T) {
	var stats AgentStats

	stats.Record(100*time.Millisecond, true)
	stats.Record(300*time.Millisecond, false)

	assert.Equal(t, 2, stats.TotalExecutions)
	assert.Equal(t, 1, stats.TotalFailures)
	assert.Equal(t, 0.5, stats.SuccessRate)
	assert.Equal(t, 200*time.Millisecond, stats.AverageDuration)
	assert.False(t, stats.LastExecutedAt.IsZero())
}

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidationError("query", "query is required", "MISSING_REQUIRED_FIELD", nil)
	assert.Equal(t, "MISSING_REQUIRED_FIELD: query: query is required", err.Error())
}
