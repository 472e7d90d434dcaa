// Package agents provides the core agent framework for the research
// pipeline.
//
// The package contains the agent interface, shared input/output types,
// per-agent schemas, and the registry. Concrete agents live in
// sub-packages (search, summarizer, validator).
package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Agent is the interface all pipeline agents implement.
type Agent interface {
	Name() string
	GetSchema() AgentSchema
	GetCapabilities() []Capability
	ValidateInput(input *AgentInput) error
	Execute(ctx context.Context, input *AgentInput) (*AgentResult, error)
}

// AgentInput carries the data an agent operates on. Query is the original
// research question; Data holds the upstream agent's output keyed by the
// schema's required field names.
type AgentInput struct {
	Query string         `json:"query,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// AgentResult is the outcome of a single agent execution.
type AgentResult struct {
	Content  any            `json:"content"`
	Success  bool           `json:"success"`
	Duration time.Duration  `json:"duration"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AgentStats tracks execution statistics for a single agent.
type AgentStats struct {
	TotalExecutions int           `json:"total_executions"`
	TotalFailures   int           `json:"total_failures"`
	SuccessRate     float64       `json:"success_rate"`
	AverageDuration time.Duration `json:"average_duration"`
	LastExecutedAt  time.Time     `json:"last_executed_at"`
}

// Record folds one execution into the stats.
func (s *AgentStats) Record(d time.Duration, success bool) {
	prev := int64(s.AverageDuration) * int64(s.TotalExecutions)
	s.TotalExecutions++
	if !success {
		s.TotalFailures++
	}
	s.SuccessRate = float64(s.TotalExecutions-s.TotalFailures) / float64(s.TotalExecutions)
	s.AverageDuration = time.Duration((prev + int64(d)) / int64(s.TotalExecutions))
	s.LastExecutedAt = time.Now()
}

// Capability describes a single named capability of an agent.
type Capability struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentSchema describes an agent: its identity and its input/output
// contract.
type AgentSchema struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Input       InputSchema  `json:"input"`
	Output      OutputSchema `json:"output"`
	Version     string       `json:"version"`
}

// InputSchema declares required and optional input fields with their types.
type InputSchema struct {
	Required []string          `json:"required,omitempty"`
	Optional []string          `json:"optional,omitempty"`
	Types    map[string]string `json:"types,omitempty"`
}

// OutputSchema declares the structure of the agent's output.
type OutputSchema struct {
	Type        string            `json:"type"`
	Structure   map[string]string `json:"structure,omitempty"`
	Description string            `json:"description,omitempty"`
}

// ValidationError is a structured input validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Value   any    `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// NewValidationError creates a validation error with a machine readable
// code such as MISSING_REQUIRED_FIELD.
func NewValidationError(field, message, code string, value any) *ValidationError {
	return &ValidationError{Field: field, Message: message, Code: code, Value: value}
}

// Registry manages agent registration and execution.
type Registry struct {
	agents map[string]Agent
	logger *zerolog.Logger
}

// NewRegistry creates a new agent registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		agents: make(map[string]Agent),
		logger: logger,
	}
}

// Register adds an agent to the registry.
func (r *Registry) Register(agent Agent) {
	r.agents[agent.Name()] = agent
}

// Get retrieves an agent by name.
func (r *Registry) Get(name string) (Agent, error) {
	agent, exists := r.agents[name]
	if !exists {
		return nil, fmt.Errorf("agent not found: %s", name)
	}
	return agent, nil
}

// List returns all registered agents.
func (r *Registry) List() []Agent {
	agents := make([]Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		agents = append(agents, agent)
	}
	return agents
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.agents)
}

// Execute validates input and runs the named agent, logging the handoff.
func (r *Registry) Execute(ctx context.Context, name string, input *AgentInput) (*AgentResult, error) {
	agent, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	if err := agent.ValidateInput(input); err != nil {
		return nil, err
	}

	if r.logger != nil {
		r.logger.Info().Str("agent", name).Str("query", input.Query).Msg("agent execution started")
	}

	result, err := agent.Execute(ctx, input)
	if err != nil {
		if r.logger != nil {
			r.logger.Error().Str("agent", name).Err(err).Msg("agent execution failed")
		}
		return nil, fmt.Errorf("agent %s: %w", name, err)
	}

	if r.logger != nil {
		r.logger.Info().
			Str("agent", name).
			Dur("duration", result.Duration).
			Bool("success", result.Success).
			Msg("agent execution finished")
	}
	return result, nil
}
