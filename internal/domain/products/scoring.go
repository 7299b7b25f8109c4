package products

import (
	"regexp"
	"sort"
	"strings"
)

// MarketPotential scores p from 0 to 100.
func MarketPotential(p *Product) int {
	score := 50
	switch {
	case p.Votes > 400:
		score += 20
	case p.Votes > 200:
		score += 15
	case p.Votes > 100:
		score += 10
	}
	if highPotential[p.Category] {
		score += 15
	}
	if n := len(p.Competitors); n > 0 && n <= 3 {
		score += 10
	}
	if len([]rune(p.Description)) > 100 {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Rating renders a market potential score as stars.
func Rating(score int) string {
	switch {
	case score >= 90:
		return "⭐⭐⭐⭐⭐"
	case score >= 80:
		return "⭐⭐⭐⭐"
	case score >= 70:
		return "⭐⭐⭐"
	case score >= 60:
		return "⭐⭐"
	}
	return "⭐"
}

type weighted struct {
	re     *regexp.Regexp
	points int
}

// innovation: only the first match counts.
var innovation = []weighted{
	{keywords("ai", "ml", "artificial intelligence"), 10},
	{keywords("automation", "blockchain", "web3"), 8},
	{keywords("ar", "vr", "virtual reality"), 7},
	{keywords("innovative", "breakthrough", "revolutionary"), 6},
	{keywords("new", "first", "unique"), 4},
}

// market: every match counts, capped at maxMarketScore.
var market = []weighted{
	{keywords("professional"), 8},
	{keywords("business"), 8},
	{keywords("enterprise"), 8},
	{keywords("team", "teams"), 6},
	{keywords("collaboration"), 6},
	{keywords("productivity"), 6},
	{keywords("efficiency"), 5},
	{keywords("automation"), 5},
	{keywords("workflow", "workflows"), 5},
	{keywords("problem"), 3},
	{keywords("challenge"), 3},
	{keywords("solution"), 3},
}

const maxMarketScore = 12

var (
	modelWords   = keywords("subscription", "saas", "b2b")
	scaleWords   = keywords("scalable", "sustainable", "profitable")
	revenueWords = keywords("monetization", "revenue", "business model")
)

// ProspectScore weighs innovation, market demand and business model. It is
// the secondary ranking key after market potential.
func ProspectScore(p *Product) int {
	score := 0
	t := text(p)
	for _, w := range innovation {
		if w.re.MatchString(t) {
			score += w.points
			break
		}
	}

	m := 0
	demand := p.PainPoint + " " + p.TargetAudience
	for _, w := range market {
		if w.re.MatchString(demand) {
			m += w.points
		}
	}
	if m > maxMarketScore {
		m = maxMarketScore
	}
	score += m

	opinion := strings.ToLower(p.ExpertOpinion)
	if modelWords.MatchString(opinion) {
		score += 5
	}
	if scaleWords.MatchString(opinion) {
		score += 4
	}
	if revenueWords.MatchString(opinion) {
		score += 3
	}
	if n := len(p.Competitors); n > 0 && n <= 3 {
		score += 2
	}
	return score
}

// Score sets MarketPotential, Rating and ProspectScore.
func Score(p *Product) {
	p.MarketPotential = MarketPotential(p)
	p.Rating = Rating(p.MarketPotential)
	p.ProspectScore = ProspectScore(p)
}

// Rank returns the n most promising products: highest market potential
// first, then prospect score, then leaderboard rank. The input is not
// modified.
func Rank(items []Product, n int) []Product {
	sorted := make([]Product, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.MarketPotential != b.MarketPotential {
			return a.MarketPotential > b.MarketPotential
		}
		if a.ProspectScore != b.ProspectScore {
			return a.ProspectScore > b.ProspectScore
		}
		return a.Rank < b.Rank
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
