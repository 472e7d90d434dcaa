// Package pipeline coordinates the multi-agent research workflow:
// search, then summarize, then validate.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"agentmarketplace/agents"
	"agentmarketplace/agents/search"
	"agentmarketplace/agents/summarizer"
	"agentmarketplace/agents/validator"
)

// ResearchRecord is the completed output of one pipeline run.
type ResearchRecord struct {
	ID                  string             `json:"id"`
	Query               string             `json:"query"`
	SearchPhase         *search.Output     `json:"search_phase"`
	SummaryPhase        *summarizer.Output `json:"summary_phase"`
	ValidationPhase     *validator.Output  `json:"validation_phase"`
	AgentsUsed          []string           `json:"agents_used"`
	TotalProcessingTime string             `json:"total_processing_time"`
	CompletedAt         time.Time          `json:"completed_at"`
}

// ResultStore persists completed research records.
type ResultStore interface {
	SaveResearchRecord(ctx context.Context, record *ResearchRecord) error
	ListResearchRecords(ctx context.Context) ([]*ResearchRecord, error)
}

// Orchestrator runs the research pipeline and keeps the result history.
type Orchestrator struct {
	registry *agents.Registry
	store    ResultStore
	logger   *zerolog.Logger

	mu      sync.RWMutex
	history []*ResearchRecord

	wg sync.WaitGroup
}

// NewOrchestrator creates an orchestrator over the given agent registry.
// store may be nil; history is then kept in memory only.
func NewOrchestrator(registry *agents.Registry, store ResultStore, logger *zerolog.Logger) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		store:    store,
		logger:   logger,
	}
	o.loadHistory()
	return o
}

// loadHistory warms the in-memory history from the store.
func (o *Orchestrator) loadHistory() {
	if o.store == nil {
		return
	}
	records, err := o.store.ListResearchRecords(context.Background())
	if err != nil {
		if o.logger != nil {
			o.logger.Warn().Err(err).Msg("failed to load research history")
		}
		return
	}
	o.mu.Lock()
	o.history = records
	o.mu.Unlock()
}

// Run executes the full pipeline for a query and records the result.
func (o *Orchestrator) Run(ctx context.Context, query string) (*ResearchRecord, error) {
	start := time.Now()

	if o.logger != nil {
		o.logger.Info().Str("query", query).Msg("starting multi-agent research pipeline")
	}

	searchResult, err := o.registry.Execute(ctx, "search", &agents.AgentInput{Query: query})
	if err != nil {
		return nil, fmt.Errorf("search phase: %w", err)
	}
	searchOutput, ok := searchResult.Content.(*search.Output)
	if !ok {
		return nil, fmt.Errorf("search phase: unexpected content type %T", searchResult.Content)
	}

	summaryResult, err := o.registry.Execute(ctx, "summarizer", &agents.AgentInput{
		Query: query,
		Data:  map[string]any{"search": searchOutput},
	})
	if err != nil {
		return nil, fmt.Errorf("summary phase: %w", err)
	}
	summaryOutput, ok := summaryResult.Content.(*summarizer.Output)
	if !ok {
		return nil, fmt.Errorf("summary phase: unexpected content type %T", summaryResult.Content)
	}

	validationResult, err := o.registry.Execute(ctx, "validator", &agents.AgentInput{
		Query: query,
		Data:  map[string]any{"summary": summaryOutput},
	})
	if err != nil {
		return nil, fmt.Errorf("validation phase: %w", err)
	}
	validationOutput, ok := validationResult.Content.(*validator.Output)
	if !ok {
		return nil, fmt.Errorf("validation phase: unexpected content type %T", validationResult.Content)
	}

	record := &ResearchRecord{
		ID:                  uuid.NewString(),
		Query:               query,
		SearchPhase:         searchOutput,
		SummaryPhase:        summaryOutput,
		ValidationPhase:     validationOutput,
		AgentsUsed:          []string{"Search", "Summarizer", "Validator"},
		TotalProcessingTime: time.Since(start).Round(time.Millisecond).String(),
		CompletedAt:         time.Now(),
	}

	o.mu.Lock()
	o.history = append(o.history, record)
	o.mu.Unlock()

	if o.store != nil {
		if err := o.store.SaveResearchRecord(ctx, record); err != nil && o.logger != nil {
			o.logger.Warn().Err(err).Str("id", record.ID).Msg("failed to persist research record")
		}
	}

	if o.logger != nil {
		o.logger.Info().
			Str("query", query).
			Int("confidence", validationOutput.ConfidenceScore).
			Dur("total", time.Since(start)).
			Msg("multi-agent research completed")
	}
	return record, nil
}

// Start launches a pipeline run in the background and returns
// immediately. Failures are logged; the HTTP caller polls /api/results
// for completion.
func (o *Orchestrator) Start(query string) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		if _, err := o.Run(context.Background(), query); err != nil && o.logger != nil {
			o.logger.Error().Err(err).Str("query", query).Msg("background research run failed")
		}
	}()
}

// Wait blocks until all background runs have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Results returns the completed records in completion order.
func (o *Orchestrator) Results() []*ResearchRecord {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*ResearchRecord, len(o.history))
	copy(out, o.history)
	return out
}
