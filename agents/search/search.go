// Package search implements the search agent of the research pipeline.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agentmarketplace/agents"
)

// Execute retrieves search results for the query. In live mode it scrapes
// the configured sources; demo results are used otherwise and as the
// fallback when scraping fails.
func (a *SearchAgent) Execute(ctx context.Context, input *agents.AgentInput) (*agents.AgentResult, error) {
	start := time.Now()

	if err := a.ValidateInput(input); err != nil {
		return nil, err
	}

	var (
		results []Result
		mode    = "demo"
	)
	if a.opts.Live {
		live, err := a.scrape(ctx, input.Query)
		if err == nil && len(live) > 0 {
			results = live
			mode = "live"
		}
	}
	if len(results) == 0 {
		results = demoResults(input.Query)
	}

	output := &Output{
		Agent:     "Search",
		Task:      "search_completed",
		Query:     input.Query,
		Results:   results,
		Timestamp: time.Now(),
	}

	duration := time.Since(start)
	a.stats.Record(duration, true)

	return &agents.AgentResult{
		Content:  output,
		Success:  true,
		Duration: duration,
		Metadata: map[string]any{
			"mode":         mode,
			"result_count": len(results),
		},
	}, nil
}

// demoResults builds the three canned results the demo pipeline ships
// with. The shapes and URL hosts mirror the original demo data.
func demoResults(query string) []Result {
	slug := strings.ReplaceAll(query, " ", "-")
	return []Result{
		{
			Title:   fmt.Sprintf("Research Paper on %s", query),
			Snippet: fmt.Sprintf("This comprehensive study examines %s from multiple perspectives, providing insights into current trends and future implications.", query),
			URL:     fmt.Sprintf("https://research.example.com/%s", slug),
		},
		{
			Title:   fmt.Sprintf("%s: Industry Analysis", query),
			Snippet: fmt.Sprintf("Industry experts analyze the impact of %s on various sectors, highlighting key opportunities and challenges.", query),
			URL:     fmt.Sprintf("https://industry.example.com/%s", slug),
		},
		{
			Title:   fmt.Sprintf("Latest Developments in %s", query),
			Snippet: fmt.Sprintf("Breaking news and recent developments related to %s, including expert opinions and market reactions.", query),
			URL:     fmt.Sprintf("https://news.example.com/%s", slug),
		},
	}
}
