package products

import (
	"time"
)

// Product is one entry of the daily leaderboard plus everything the analysis
// adds to it.
type Product struct {
	Rank           int    `json:"rank"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ImageURL       string `json:"image_url,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`
	ProductHuntURL string `json:"producthunt_url,omitempty"`
	Votes          int    `json:"votes"`
	Category       string `json:"category"`

	PainPoint      string   `json:"pain_point"`
	TargetAudience string   `json:"target_audience"`
	CoreFeature    string   `json:"core_feature"`
	Competitors    []string `json:"competitors"`
	Weaknesses     string   `json:"weaknesses"`
	Strengths      string   `json:"strengths"`
	BusinessModel  string   `json:"business_model"`
	Pricing        string   `json:"pricing"`
	ExpertOpinion  string   `json:"expert_opinion"`

	MarketPotential int    `json:"market_potential"` // 0-100
	Rating          string `json:"rating"`
	ProspectScore   int    `json:"prospect_score"`
}

// RunID identifies one analysis run.
type RunID string

// DataSource tells whether a listing was scraped or is the built-in sample.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)

// Status enum
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Run is the aggregate persisted for every analysis.
type Run struct {
	ID           RunID      `json:"id"`
	Date         time.Time  `json:"date"`
	URL          string     `json:"url"`
	Source       DataSource `json:"source"`
	Status       Status     `json:"status"`
	ProductCount int        `json:"product_count"`
	TopProducts  []string   `json:"top_products,omitempty"`
	ReportPath   string     `json:"report_path,omitempty"`
	ReportURL    string     `json:"report_url,omitempty"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	DurationMS   int64      `json:"duration_ms"`
}

// Listing is what a Source returns for one day.
type Listing struct {
	URL      string
	Source   DataSource
	Products []Product
}
