package products

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDailyURLUsesPreviousDay(t *testing.T) {
	date := time.Date(2024, 1, 1, 16, 10, 0, 0, time.UTC)
	got := DailyURL("", date)
	want := "https://decohack.com/producthunt-daily-2023-12-31"
	if got != want {
		t.Errorf("DailyURL = %q, want %q", got, want)
	}
	if got := DailyURL("http://mirror.test/daily-", date); got != "http://mirror.test/daily-2023-12-31" {
		t.Errorf("custom base = %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Claude 3.5 Sonnet AI assistant", CategoryAI},
		{"Machine learning for spreadsheets", CategoryAI},
		{"Workflow automation for ops", CategoryProductivity},
		{"GitHub code review bot", CategoryDeveloper},
		{"Figma plugin for icons", CategoryDesign},
		{"Modern project management tool", CategoryProject},
		{"SEO audit in one click", CategoryMarketing},
		{"Online course builder", CategoryEducation},
		{"Fitness tracker", CategoryHealth},
		{"Payments for freelancers", CategoryFinance},
		{"Music jam with friends", CategoryEntertain},
		{"A fresh take on email", CategoryOther},
		// whole words only: "daily" and "email" must not read as "ai"
		{"Daily email digest", CategoryOther},
	}
	for _, tt := range tests {
		if got := Classify(tt.in); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompetitorsExcludeSelf(t *testing.T) {
	p := &Product{Name: "Claude 3.5 Sonnet", Category: CategoryAI}
	got := Competitors(p)
	for _, c := range got {
		if c == "Claude" {
			t.Fatalf("product listed as its own competitor: %v", got)
		}
	}
	if len(got) != 2 {
		t.Errorf("Competitors = %v", got)
	}

	p = &Product{Name: "Notion AI", Category: CategoryAI}
	if got := Competitors(p); strings.Join(got, ",") != "ChatGPT,Claude,Midjourney" {
		t.Errorf("name match should win: %v", got)
	}

	p = &Product{Name: "Mystery", Category: CategoryOther}
	if got := Competitors(p); len(got) != 0 {
		t.Errorf("unmapped category should have no competitors: %v", got)
	}
}

func TestMarketPotential(t *testing.T) {
	long := strings.Repeat("x", 101)
	tests := []struct {
		name string
		p    Product
		want int
	}{
		{"base", Product{Category: CategoryOther}, 50},
		{"votes over 100", Product{Votes: 101, Category: CategoryOther}, 60},
		{"votes over 200", Product{Votes: 201, Category: CategoryOther}, 65},
		{"votes over 400", Product{Votes: 401, Category: CategoryOther}, 70},
		{"high potential category", Product{Category: CategoryDeveloper}, 65},
		{"moderate competition", Product{Category: CategoryOther, Competitors: []string{"a"}}, 60},
		{"too many competitors", Product{Category: CategoryOther, Competitors: []string{"a", "b", "c", "d"}}, 50},
		{"long description", Product{Category: CategoryOther, Description: long}, 55},
		{"capped", Product{Votes: 999, Category: CategoryAI, Competitors: []string{"a"}, Description: long}, 100},
	}
	for _, tt := range tests {
		if got := MarketPotential(&tt.p); got != tt.want {
			t.Errorf("%s: MarketPotential = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		score int
		stars int
	}{
		{100, 5}, {90, 5}, {89, 4}, {80, 4}, {70, 3}, {60, 2}, {59, 1}, {0, 1},
	}
	for _, tt := range tests {
		if got := strings.Count(Rating(tt.score), "⭐"); got != tt.stars {
			t.Errorf("Rating(%d) has %d stars, want %d", tt.score, got, tt.stars)
		}
	}
}

func TestEnhanceFallbackProducts(t *testing.T) {
	items := Fallback()
	for i := range items {
		Enhance(&items[i])
	}

	want := map[string]struct {
		category string
		potential int
	}{
		"Claude 3.5 Sonnet": {CategoryAI, 95},
		"Linear":            {CategoryProject, 95},
		"Notion AI":         {CategoryAI, 90},
	}
	for _, p := range items {
		w := want[p.Name]
		if p.Category != w.category {
			t.Errorf("%s category = %q, want %q", p.Name, p.Category, w.category)
		}
		if p.MarketPotential != w.potential {
			t.Errorf("%s potential = %d, want %d", p.Name, p.MarketPotential, w.potential)
		}
		if p.PainPoint == "" || p.TargetAudience == "" || p.ExpertOpinion == "" || p.Rating == "" {
			t.Errorf("%s missing analysis fields: %+v", p.Name, p)
		}
	}

	top := Rank(items, 3)
	order := []string{top[0].Name, top[1].Name, top[2].Name}
	if strings.Join(order, ",") != "Claude 3.5 Sonnet,Linear,Notion AI" {
		t.Errorf("rank order = %v", order)
	}
}

func TestRankTieBreaks(t *testing.T) {
	items := []Product{
		{Rank: 1, Name: "a", MarketPotential: 70, ProspectScore: 5},
		{Rank: 2, Name: "b", MarketPotential: 80, ProspectScore: 1},
		{Rank: 3, Name: "c", MarketPotential: 70, ProspectScore: 9},
		{Rank: 4, Name: "d", MarketPotential: 70, ProspectScore: 5},
	}
	got := Rank(items, 10)
	var names []string
	for _, p := range got {
		names = append(names, p.Name)
	}
	if strings.Join(names, "") != "bcad" {
		t.Errorf("order = %v, want b c a d", names)
	}
	if items[0].Name != "a" {
		t.Error("Rank must not reorder its input")
	}
	if got := Rank(items, 3); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestProspectScoreMarketCap(t *testing.T) {
	p := &Product{
		PainPoint:      "business enterprise professional team collaboration",
		TargetAudience: "productivity",
	}
	if got := ProspectScore(p); got != maxMarketScore {
		t.Errorf("ProspectScore = %d, want %d", got, maxMarketScore)
	}
}

func TestAnalyzeKeepsScrapedCategory(t *testing.T) {
	p := &Product{Name: "Pixel", Description: "AI photo editor", Category: CategoryDesign}
	Analyze(p)
	if p.Category != CategoryDesign {
		t.Errorf("category overwritten: %q", p.Category)
	}
}

func TestProspectScoreReadsOnlyExpertOpinion(t *testing.T) {
	modelOnly := &Product{BusinessModel: "SaaS subscription"}
	if got := ProspectScore(modelOnly); got != 0 {
		t.Errorf("business model alone scored %d, want 0", got)
	}
	opinion := &Product{ExpertOpinion: "A subscription product"}
	if got := ProspectScore(opinion); got != 5 {
		t.Errorf("ProspectScore = %d, want 5", got)
	}
}

type staticSource struct{ l Listing }

func (s staticSource) Fetch(context.Context, time.Time) (Listing, error) { return s.l, nil }

func TestSourceReturnsDataSource(t *testing.T) {
	var src Source = staticSource{Listing{Source: SourceFallback, Products: Fallback()}}
	l, err := src.Fetch(context.Background(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	run := Run{Source: l.Source}
	if run.Source != SourceFallback || string(run.Source) != "fallback" {
		t.Errorf("Source = %q", run.Source)
	}
	if len(l.Products) != 3 {
		t.Errorf("len = %d, want 3", len(l.Products))
	}
}
