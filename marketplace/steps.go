package marketplace

import (
	"fmt"
	"strings"
	"time"
)

// StepResult is the common envelope around one premium agent's output.
type StepResult struct {
	AgentID            string           `json:"agent_id"`
	TaskType           string           `json:"task_type"`
	Results            any              `json:"results,omitempty"`
	Content            any              `json:"content,omitempty"`
	Analysis           any              `json:"analysis,omitempty"`
	ConfidenceScore    float64          `json:"confidence_score,omitempty"`
	Timestamp          time.Time        `json:"timestamp"`
	CoralProtocol      *CoralAnnotation `json:"coral_protocol,omitempty"`
	EnhancedConfidence float64          `json:"enhanced_confidence,omitempty"`
}

// CoralAnnotation marks a step result as coordinated through a Coral
// Protocol session.
type CoralAnnotation struct {
	Enabled              bool      `json:"enabled"`
	SessionID            string    `json:"session_id"`
	ThreadID             string    `json:"thread_id"`
	AgentCoordination    string    `json:"agent_coordination"`
	ProtocolVersion      string    `json:"protocol_version"`
	EnhancedCapabilities []string  `json:"enhanced_capabilities"`
	CoordinatedAt        time.Time `json:"coordinated_at"`
}

// WebResult is one hit of the Search Pro agent.
type WebResult struct {
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Snippet         string  `json:"snippet"`
	AuthorityScore  float64 `json:"authority_score"`
	Relevance       float64 `json:"relevance"`
	PublicationDate string  `json:"publication_date"`
}

// MarketIntelligence summarizes the market around the query.
type MarketIntelligence struct {
	MarketSizeUSD        string   `json:"market_size_usd"`
	GrowthRate           string   `json:"growth_rate"`
	KeyTrends            []string `json:"key_trends"`
	InvestmentActivity   string   `json:"investment_activity"`
	CompetitiveIntensity string   `json:"competitive_intensity"`
}

// CompetitorAnalysis lists market players and gaps.
type CompetitorAnalysis struct {
	MarketLeaders   []string `json:"market_leaders"`
	EmergingPlayers []string `json:"emerging_players"`
	MarketGaps      []string `json:"market_gaps"`
}

// SearchProResults is the Search Pro agent's payload.
type SearchProResults struct {
	WebResults         []WebResult        `json:"web_results"`
	MarketIntelligence MarketIntelligence `json:"market_intelligence"`
	CompetitorAnalysis CompetitorAnalysis `json:"competitor_analysis"`
}

// executeSearchStep runs the Search Pro agent. The payload is canned
// market intelligence parameterized by the query, as in the demo.
func executeSearchStep(query string) *StepResult {
	slug := strings.ReplaceAll(query, " ", "-")

	results := &SearchProResults{
		WebResults: []WebResult{
			{
				Title:           fmt.Sprintf("Market Analysis: %s - Industry Report 2024", query),
				URL:             fmt.Sprintf("https://research-insights.com/%s-2024", slug),
				Snippet:         fmt.Sprintf("Comprehensive analysis of %s market trends, showing 34%% YoY growth with emerging opportunities in AI integration and sustainable practices.", query),
				AuthorityScore:  0.94,
				Relevance:       0.96,
				PublicationDate: "2024-09-15",
			},
			{
				Title:           fmt.Sprintf("Investment Opportunities in %s", query),
				URL:             fmt.Sprintf("https://venture-capital.com/%s-investments", slug),
				Snippet:         fmt.Sprintf("Leading VCs invest $2.4B in %s startups this quarter. Key trends include automation, sustainability, and global expansion.", query),
				AuthorityScore:  0.88,
				Relevance:       0.91,
				PublicationDate: "2024-09-12",
			},
			{
				Title:           fmt.Sprintf("Technical Innovation in %s", query),
				URL:             fmt.Sprintf("https://tech-review.com/%s-innovation", slug),
				Snippet:         fmt.Sprintf("Breakthrough technologies reshaping %s industry. AI-powered solutions show 3x efficiency gains over traditional methods.", query),
				AuthorityScore:  0.85,
				Relevance:       0.89,
				PublicationDate: "2024-09-10",
			},
		},
		MarketIntelligence: MarketIntelligence{
			MarketSizeUSD:        "$47.2B",
			GrowthRate:           "23.4% CAGR",
			KeyTrends:            []string{"AI Integration", "Sustainability Focus", "Remote-First Solutions"},
			InvestmentActivity:   "High",
			CompetitiveIntensity: "Medium-High",
		},
		CompetitorAnalysis: CompetitorAnalysis{
			MarketLeaders:   []string{"TechCorp Inc", "Innovation Labs", "Future Systems"},
			EmergingPlayers: []string{"StartupX", "AgileAI", "NextGen Solutions"},
			MarketGaps:      []string{"SMB Solutions", "Cost-Effective Options", "Mobile-First Platforms"},
		},
	}

	return &StepResult{
		AgentID:         "search_pro_2024",
		TaskType:        "advanced_search",
		Results:         results,
		ConfidenceScore: 0.94,
		Timestamp:       time.Now(),
	}
}

// BlogPost is the Content Creator agent's long-form deliverable.
type BlogPost struct {
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	ContentPreview  string   `json:"content_preview"`
	WordCount       int      `json:"word_count"`
	ReadingTime     string   `json:"reading_time"`
	SEOScore        int      `json:"seo_score"`
	TargetKeywords  []string `json:"target_keywords"`
}

// SocialMedia bundles per-platform copy.
type SocialMedia struct {
	LinkedInPost     string   `json:"linkedin_post"`
	TwitterThread    []string `json:"twitter_thread"`
	InstagramCaption string   `json:"instagram_caption"`
}

// MarketingCopy is the campaign-ready copy block.
type MarketingCopy struct {
	Headline          string   `json:"headline"`
	Subheadline       string   `json:"subheadline"`
	CTA               string   `json:"cta"`
	ValuePropositions []string `json:"value_propositions"`
}

// ContentPackage is the Content Creator agent's payload.
type ContentPackage struct {
	BlogPost      BlogPost      `json:"blog_post"`
	SocialMedia   SocialMedia   `json:"social_media"`
	MarketingCopy MarketingCopy `json:"marketing_copy"`
}

// executeContentStep runs the Content Creator agent over the search
// step's market intelligence.
func executeContentStep(query string, search *StepResult) *StepResult {
	marketSize := "$40B+"
	growthRate := "25%+"
	if sr, ok := search.Results.(*SearchProResults); ok {
		marketSize = sr.MarketIntelligence.MarketSizeUSD
		growthRate = sr.MarketIntelligence.GrowthRate
	}

	content := &ContentPackage{
		BlogPost: BlogPost{
			Title:           fmt.Sprintf("The Future of %s: Market Insights and Strategic Opportunities", query),
			MetaDescription: fmt.Sprintf("Discover the latest trends in %s with market size of %s and growth rate of %s.", query, marketSize, growthRate),
			ContentPreview:  fmt.Sprintf("The %s industry is experiencing unprecedented growth, with market valuation reaching %s and projected growth of %s. Key trends driving this expansion include AI integration, sustainability initiatives, and digital transformation...", query, marketSize, growthRate),
			WordCount:       1250,
			ReadingTime:     "5 min",
			SEOScore:        89,
			TargetKeywords:  []string{query, query + " trends", query + " market", query + " 2024"},
		},
		SocialMedia: SocialMedia{
			LinkedInPost: fmt.Sprintf("🚀 %s market is booming! %s market size with %s growth. Key opportunities emerging in AI integration and sustainability. What's your take? #Innovation #TechTrends", query, marketSize, growthRate),
			TwitterThread: []string{
				fmt.Sprintf("🧵 Thread: %s Industry Insights", query),
				fmt.Sprintf("1/ Market size: %s with %s CAGR", marketSize, growthRate),
				"2/ Key trends: AI integration, sustainability, remote solutions",
				"3/ Investment activity is HIGH - perfect time for innovation",
			},
			InstagramCaption: fmt.Sprintf("💡 Innovation spotlight: %s industry transformation. From %s market to game-changing AI solutions. The future is here! #TechInnovation #FutureReady", query, marketSize),
		},
		MarketingCopy: MarketingCopy{
			Headline:    fmt.Sprintf("Transform Your Business with %s Solutions", query),
			Subheadline: fmt.Sprintf("Join the %s market revolution", marketSize),
			CTA:         "Start Your Transformation Today",
			ValuePropositions: []string{
				fmt.Sprintf("Proven %s implementation", query),
				"ROI-focused solutions",
				"24/7 expert support",
				"Scalable for any business size",
			},
		},
	}

	return &StepResult{
		AgentID:   "content_creator_pro",
		TaskType:  "content_creation",
		Content:   content,
		Timestamp: time.Now(),
	}
}

// MarketAssessment scores market attractiveness.
type MarketAssessment struct {
	AttractivenessScore  float64 `json:"attractiveness_score"`
	CompetitiveIntensity string  `json:"competitive_intensity"`
	BarriersToEntry      string  `json:"barriers_to_entry"`
	MarketMaturity       string  `json:"market_maturity"`
	DisruptionRisk       string  `json:"disruption_risk"`
}

// FinancialProjections holds the modeled ranges.
type FinancialProjections struct {
	Year1RevenuePotential   string `json:"year_1_revenue_potential"`
	BreakEvenTimeline       string `json:"break_even_timeline"`
	CustomerAcquisitionCost string `json:"customer_acquisition_cost"`
	LifetimeValue           string `json:"lifetime_value"`
	GrossMarginTarget       string `json:"gross_margin_target"`
}

// RiskAnalysis buckets risks by severity.
type RiskAnalysis struct {
	HighRisks            []string `json:"high_risks"`
	MediumRisks          []string `json:"medium_risks"`
	LowRisks             []string `json:"low_risks"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

// InvestmentThesis summarizes the investment case.
type InvestmentThesis struct {
	InvestmentRequired string   `json:"investment_required"`
	ExpectedROI        string   `json:"expected_roi"`
	PaybackPeriod      string   `json:"payback_period"`
	ExitValuation      string   `json:"exit_valuation"`
	KeyValueDrivers    []string `json:"key_value_drivers"`
}

// BusinessAnalysis is the Business Analyst agent's payload.
type BusinessAnalysis struct {
	ExecutiveSummary         string               `json:"executive_summary"`
	MarketAssessment         MarketAssessment     `json:"market_assessment"`
	FinancialProjections     FinancialProjections `json:"financial_projections"`
	StrategicRecommendations []string             `json:"strategic_recommendations"`
	RiskAnalysis             RiskAnalysis         `json:"risk_analysis"`
	InvestmentThesis         InvestmentThesis     `json:"investment_thesis"`
}

// executeAnalysisStep runs the Business Analyst agent over the earlier
// steps. content may be nil when the content step was not selected.
func executeAnalysisStep(query string, search, content *StepResult) *StepResult {
	_ = content // the analysis is derived from market intelligence only

	marketSize := "$40B+"
	growthRate := "25%+"
	leadTrend := "innovation"
	if sr, ok := search.Results.(*SearchProResults); ok {
		marketSize = sr.MarketIntelligence.MarketSizeUSD
		growthRate = sr.MarketIntelligence.GrowthRate
		if len(sr.MarketIntelligence.KeyTrends) > 0 {
			leadTrend = sr.MarketIntelligence.KeyTrends[0]
		}
	}

	analysis := &BusinessAnalysis{
		ExecutiveSummary: fmt.Sprintf("Strategic analysis reveals a high-growth market with strong fundamentals. Market size of %s and growth rate of %s indicate significant opportunity for market entry and expansion.", marketSize, growthRate),
		MarketAssessment: MarketAssessment{
			AttractivenessScore:  8.7,
			CompetitiveIntensity: "Medium-High",
			BarriersToEntry:      "Medium",
			MarketMaturity:       "Growth Phase",
			DisruptionRisk:       "Low-Medium",
		},
		FinancialProjections: FinancialProjections{
			Year1RevenuePotential:   "$2.5M - $5M",
			BreakEvenTimeline:       "14-18 months",
			CustomerAcquisitionCost: "$180 - $320",
			LifetimeValue:           "$2,400 - $4,800",
			GrossMarginTarget:       "65-75%",
		},
		StrategicRecommendations: []string{
			fmt.Sprintf("Prioritize AI-powered %s development", leadTrend),
			"Build strategic partnerships for faster market penetration",
			"Focus on underserved SMB segment for initial traction",
			"Develop strong differentiation through technology innovation",
			"Consider subscription-based revenue model for predictable growth",
		},
		RiskAnalysis: RiskAnalysis{
			HighRisks:            []string{"Technology disruption", "Regulatory changes"},
			MediumRisks:          []string{"Economic downturn", "Competitive pressure"},
			LowRisks:             []string{"Supply chain disruption"},
			MitigationStrategies: []string{"Agile development", "Diversified partnerships", "Strong cash reserves"},
		},
		InvestmentThesis: InvestmentThesis{
			InvestmentRequired: "$1.5M - $3M",
			ExpectedROI:        "300-500% over 3 years",
			PaybackPeriod:      "2.5 years",
			ExitValuation:      "$50M - $100M",
			KeyValueDrivers:    []string{"Technology IP", "Market position", "Recurring revenue"},
		},
	}

	return &StepResult{
		AgentID:   "business_analyst_ai",
		TaskType:  "strategic_analysis",
		Analysis:  analysis,
		Timestamp: time.Now(),
	}
}
