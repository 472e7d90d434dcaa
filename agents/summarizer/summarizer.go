// Package summarizer implements the summarizer agent of the research
// pipeline.
package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentmarketplace/agents"
	"agentmarketplace/agents/search"
	"agentmarketplace/llm/shared"
)

// snippetPreviewLen is how much of each snippet appears in the summary.
const snippetPreviewLen = 100

// Execute summarizes the search phase output.
func (a *SummarizerAgent) Execute(ctx context.Context, input *agents.AgentInput) (*agents.AgentResult, error) {
	start := time.Now()

	searchOutput, err := searchOutputFrom(input)
	if err != nil {
		return nil, err
	}

	summary, mode := a.summarize(ctx, searchOutput)

	output := &Output{
		Agent:         "Summarizer",
		Task:          "summary_completed",
		OriginalQuery: searchOutput.Query,
		Summary:       summary,
		SourceCount:   len(searchOutput.Results),
		Timestamp:     time.Now(),
	}

	duration := time.Since(start)
	a.stats.Record(duration, true)

	return &agents.AgentResult{
		Content:  output,
		Success:  true,
		Duration: duration,
		Metadata: map[string]any{
			"mode":           mode,
			"summary_length": len(summary),
			"source_count":   len(searchOutput.Results),
		},
	}, nil
}

// summarize produces the summary text and reports which mode produced it.
func (a *SummarizerAgent) summarize(ctx context.Context, so *search.Output) (string, string) {
	if a.llm != nil {
		if summary, err := a.summarizeWithLLM(ctx, so); err == nil {
			return summary, "llm"
		}
	}
	return templateSummary(so), "template"
}

// summarizeWithLLM asks the configured provider for a summary of the
// retrieved sources.
func (a *SummarizerAgent) summarizeWithLLM(ctx context.Context, so *search.Output) (string, error) {
	var sources strings.Builder
	for i, r := range so.Results {
		fmt.Fprintf(&sources, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.Snippet, r.URL)
	}

	req := &shared.CompletionRequest{
		Messages: []shared.Message{
			{
				Role:    shared.RoleSystem,
				Content: "You are a professional research summarizer. Create a comprehensive yet concise summary that captures the essential information and key insights from the provided sources.",
			},
			{
				Role:    shared.RoleUser,
				Content: fmt.Sprintf("Research question: %s\n\nSources:\n%s", so.Query, sources.String()),
			},
		},
		Options: shared.CompletionOptions{
			Model:       a.model,
			MaxTokens:   1000,
			Temperature: 0.3,
		},
	}

	resp, err := a.llm.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("LLM completion failed: %w", err)
	}
	return resp.Content, nil
}

// templateSummary renders the deterministic summary the demo ships with.
func templateSummary(so *search.Output) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Research Summary for '%s':\n\n", so.Query)
	fmt.Fprintf(&b, "Based on analysis of %d sources:\n\n", len(so.Results))

	for i, r := range so.Results {
		fmt.Fprintf(&b, "%d. %s: %s...\n\n", i+1, r.Title, truncate(r.Snippet, snippetPreviewLen))
	}

	b.WriteString("Key Insights:\n")
	fmt.Fprintf(&b, "• Multiple perspectives available on %s\n", so.Query)
	b.WriteString("• Current research shows significant interest in this topic\n")
	b.WriteString("• Industry impact appears to be substantial\n\n")
	fmt.Fprintf(&b, "Summary generated at: %s", time.Now().Format("15:04:05"))

	return b.String()
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// searchOutputFrom extracts the search phase output from the input data.
// The orchestrator hands over the typed struct; JSON round-tripped maps
// are not supported here because agents only talk in-process.
func searchOutputFrom(input *agents.AgentInput) (*search.Output, error) {
	raw, ok := input.Data["search"]
	if !ok {
		return nil, agents.NewValidationError("search", "search results are required", "MISSING_REQUIRED_FIELD", nil)
	}
	so, ok := raw.(*search.Output)
	if !ok || so == nil {
		return nil, agents.NewValidationError("search", "search data must be the search agent output", "INVALID_TYPE", raw)
	}
	if len(so.Results) == 0 {
		return nil, agents.NewValidationError("search", "search results must not be empty", "EMPTY_RESULTS", nil)
	}
	return so, nil
}
