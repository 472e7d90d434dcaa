// Package marketplace implements the agent marketplace: a catalog of
// priced agents, simulated Solana payments, and paid multi-agent
// workflows.
package marketplace

import (
	"fmt"
)

// Step keys identify the workflow step an agent listing implements.
const (
	StepSearch   = "search"
	StepContent  = "content"
	StepAnalysis = "analysis"
)

// Listing describes one rentable agent in the marketplace catalog.
type Listing struct {
	ID                string   `json:"id"`
	Step              string   `json:"step"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	PriceSOL          float64  `json:"price_sol"`
	PriceUSD          float64  `json:"price_usd"`
	Capabilities      []string `json:"capabilities"`
	Category          string   `json:"category"`
	Owner             string   `json:"owner"`
	Rating            float64  `json:"rating"`
	TotalUses         int      `json:"total_uses"`
	AvgProcessingTime float64  `json:"avg_processing_time"`
	SuccessRate       float64  `json:"success_rate"`
	Icon              string   `json:"icon"`
}

// BuiltinCatalog returns the three premium agents the marketplace ships
// with. The listing data mirrors the original demo catalog.
func BuiltinCatalog() []Listing {
	return []Listing{
		{
			ID:                "search_pro_2024",
			Step:              StepSearch,
			Name:              "Search Pro Agent",
			Description:       "Advanced web search with real-time market intelligence and competitive analysis",
			PriceSOL:          0.012,
			PriceUSD:          2.16,
			Capabilities:      []string{"web_search", "market_research", "competitor_analysis", "trend_analysis"},
			Category:          "Research",
			Owner:             "marketplace_labs",
			Rating:            4.9,
			TotalUses:         3247,
			AvgProcessingTime: 2.8,
			SuccessRate:       97.5,
			Icon:              "🔍",
		},
		{
			ID:                "content_creator_pro",
			Step:              StepContent,
			Name:              "Content Creator Pro",
			Description:       "Professional content creation for blogs, social media, and marketing campaigns",
			PriceSOL:          0.008,
			PriceUSD:          1.44,
			Capabilities:      []string{"blog_writing", "social_media", "marketing_copy", "seo_optimization"},
			Category:          "Content",
			Owner:             "creative_ai_studio",
			Rating:            4.8,
			TotalUses:         2891,
			AvgProcessingTime: 3.1,
			SuccessRate:       96.2,
			Icon:              "✍️",
		},
		{
			ID:                "business_analyst_ai",
			Step:              StepAnalysis,
			Name:              "Business Analyst AI",
			Description:       "Strategic business analysis, financial modeling, and market opportunity assessment",
			PriceSOL:          0.018,
			PriceUSD:          3.24,
			Capabilities:      []string{"strategic_analysis", "financial_modeling", "risk_assessment", "opportunity_mapping"},
			Category:          "Business Intelligence",
			Owner:             "strategy_consulting_ai",
			Rating:            4.7,
			TotalUses:         1756,
			AvgProcessingTime: 4.2,
			SuccessRate:       94.8,
			Icon:              "📊",
		},
	}
}

// Catalog is an in-memory agent catalog with lookup by listing id or
// step key. Workflow requests historically used the short step keys
// while payment requests used full listing ids, so both resolve.
type Catalog struct {
	listings []Listing
	byID     map[string]*Listing
}

// NewCatalog creates a catalog over the given listings.
func NewCatalog(listings []Listing) *Catalog {
	c := &Catalog{
		listings: listings,
		byID:     make(map[string]*Listing, len(listings)*2),
	}
	for i := range c.listings {
		l := &c.listings[i]
		c.byID[l.ID] = l
		c.byID[l.Step] = l
	}
	return c
}

// Listings returns all listings.
func (c *Catalog) Listings() []Listing {
	return c.listings
}

// Get resolves a listing by id or step key.
func (c *Catalog) Get(id string) (*Listing, error) {
	l, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("agent not found: %s", id)
	}
	return l, nil
}

// Categories returns the distinct listing categories.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, l := range c.listings {
		if !seen[l.Category] {
			seen[l.Category] = true
			categories = append(categories, l.Category)
		}
	}
	return categories
}

// PlatformStats aggregates rating and usage figures over the catalog.
type PlatformStats struct {
	AvgRating      float64 `json:"avg_rating"`
	TotalAgentUses int     `json:"total_agent_uses"`
	SuccessRate    float64 `json:"success_rate"`
}

// Stats computes platform statistics across all listings.
func (c *Catalog) Stats() PlatformStats {
	if len(c.listings) == 0 {
		return PlatformStats{}
	}
	var stats PlatformStats
	for _, l := range c.listings {
		stats.AvgRating += l.Rating
		stats.TotalAgentUses += l.TotalUses
		stats.SuccessRate += l.SuccessRate
	}
	stats.AvgRating /= float64(len(c.listings))
	stats.SuccessRate /= float64(len(c.listings))
	return stats
}
