package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
)

// maxLiveResults caps live search output at the same size the demo
// results have, so downstream scoring behaves identically in both modes.
const maxLiveResults = 3

// scrape visits the configured sources and collects headline links that
// mention the query. Errors from individual sources are not fatal; the
// caller falls back to demo results when nothing was found.
func (a *SearchAgent) scrape(ctx context.Context, query string) ([]Result, error) {
	c := colly.NewCollector()
	c.SetRequestTimeout(a.opts.Timeout)

	terms := queryTerms(query)
	var results []Result

	c.OnHTML("h1 a[href], h2 a[href], h3 a[href]", func(e *colly.HTMLElement) {
		if len(results) >= maxLiveResults {
			return
		}
		title := strings.TrimSpace(e.Text)
		if title == "" || !mentionsAny(title, terms) {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}
		results = append(results, Result{
			Title:   title,
			Snippet: snippetFor(title, link),
			URL:     link,
		})
	})

	for _, source := range a.opts.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(results) >= maxLiveResults {
			break
		}
		// Per-source failures are expected (timeouts, robots.txt); the
		// remaining sources are still worth visiting.
		_ = c.Visit(source)
	}
	c.Wait()

	return results, nil
}

// queryTerms splits the query into lowercase terms, dropping short words
// that would match almost anything.
func queryTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

// mentionsAny reports whether s contains any of the terms. An empty term
// list matches everything.
func mentionsAny(s string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	s = strings.ToLower(s)
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// snippetFor builds a short description for a live hit. Headline listings
// rarely carry usable teaser text, so the snippet names the source host.
func snippetFor(title, link string) string {
	host := link
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		host = u.Host
	}
	return title + " (reported by " + host + ")."
}
