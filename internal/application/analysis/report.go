package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/frontmatter"
)

// ReportMeta is the YAML block at the top of every report.
type ReportMeta struct {
	Date        string    `yaml:"date" json:"date"`
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
	Source      string    `yaml:"source" json:"source"`
	URL         string    `yaml:"url,omitempty" json:"url,omitempty"`
	Products    int       `yaml:"products" json:"products"`
	Top         []string  `yaml:"top,omitempty" json:"top,omitempty"`
	RunID       string    `yaml:"run_id" json:"run_id"`
}

type ReportInput struct {
	RunID       products.RunID
	Date        time.Time
	GeneratedAt time.Time
	Listing     products.Listing
	Products    []products.Product
	Top         []products.Product
}

// Render builds the markdown report, frontmatter included.
func Render(in ReportInput) ([]byte, error) {
	meta := ReportMeta{
		Date:        in.Date.Format("2006-01-02"),
		GeneratedAt: in.GeneratedAt.UTC(),
		Source:      string(in.Listing.Source),
		URL:         in.Listing.URL,
		Products:    len(in.Products),
		Top:         names(in.Top),
		RunID:       string(in.RunID),
	}

	var b strings.Builder
	writeOverview(&b, in)
	writeProducts(&b, in.Products)
	writeLeaderboard(&b, in.Products)
	writeTop(&b, in.Top)
	writeCategories(&b, in.Products)
	writeRisks(&b)
	return frontmatter.Write(meta, b.String())
}

func writeOverview(b *strings.Builder, in ReportInput) {
	total := 0
	for _, p := range in.Products {
		total += p.Votes
	}
	avg := 0
	if len(in.Products) > 0 {
		avg = total / len(in.Products)
	}
	network := "🟢 online"
	if in.Listing.Source == products.SourceFallback {
		network = "🟡 sample data"
	}

	fmt.Fprintf(b, "# 🚀 Product Hunt Daily Analysis: %s\n\n", in.Date.Format("January 2, 2006"))
	b.WriteString("## 📊 Overview\n\n")
	fmt.Fprintf(b, "- **Generated**: %s\n", in.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(b, "- **Leaderboard day**: %s\n", products.ListingDate(in.Date).Format("2006-01-02"))
	fmt.Fprintf(b, "- **Products analysed**: %d\n", len(in.Products))
	fmt.Fprintf(b, "- **Total votes**: %d (average %d)\n", total, avg)
	fmt.Fprintf(b, "- **Categories**: %d\n", len(categoryCounts(in.Products)))
	if in.Listing.URL != "" {
		fmt.Fprintf(b, "- **Data source**: [%s](%s)\n", in.Listing.URL, in.Listing.URL)
	}
	fmt.Fprintf(b, "- **Network status**: %s\n\n", network)
	b.WriteString("---\n\n")
}

func writeProducts(b *strings.Builder, items []products.Product) {
	b.WriteString("## 🔥 Today's Products\n\n")
	for _, p := range items {
		fmt.Fprintf(b, "### %d. %s\n\n", p.Rank, p.Name)
		if p.ImageURL != "" {
			fmt.Fprintf(b, "![%s](%s)\n\n", p.Name, p.ImageURL)
		}
		b.WriteString("| Field | Detail |\n|------|------|\n")
		fmt.Fprintf(b, "| **Rank** | #%d |\n", p.Rank)
		fmt.Fprintf(b, "| **Description** | %s |\n", cell(p.Description))
		fmt.Fprintf(b, "| **Category** | %s |\n", cell(p.Category))
		fmt.Fprintf(b, "| **Votes** | %d |\n", p.Votes)
		fmt.Fprintf(b, "| **Market potential** | %d/100 %s |\n", p.MarketPotential, p.Rating)
		if p.WebsiteURL != "" {
			fmt.Fprintf(b, "| **Website** | [visit](%s) |\n", p.WebsiteURL)
		}
		if p.ProductHuntURL != "" {
			fmt.Fprintf(b, "| **Product Hunt** | [details](%s) |\n", p.ProductHuntURL)
		}
		b.WriteString("\n")

		section(b, "🎯 Pain Point", p.PainPoint)
		section(b, "👥 Target Audience", p.TargetAudience)
		section(b, "⚙️ Core Feature", p.CoreFeature)
		competitors := "No direct competitors identified; keep watching the space."
		if len(p.Competitors) > 0 {
			competitors = strings.Join(p.Competitors, ", ")
		}
		section(b, "⚔️ Competitors", competitors)
		section(b, "💪 Strengths", p.Strengths)
		section(b, "⚠️ Weaknesses", p.Weaknesses)
		section(b, "💰 Business Model", p.BusinessModel)
		section(b, "🏷️ Pricing", p.Pricing)
		section(b, "💡 Expert Opinion", p.ExpertOpinion)
		b.WriteString("---\n\n")
	}
}

func writeLeaderboard(b *strings.Builder, items []products.Product) {
	b.WriteString("## 🏆 Leaderboard\n\n")
	b.WriteString("| Rank | Product | Category | Votes | Potential | Rating |\n")
	b.WriteString("|------|---------|----------|-------|-----------|--------|\n")
	for _, p := range items {
		fmt.Fprintf(b, "| %d | %s | %s | %d | %d | %s |\n",
			p.Rank, cell(p.Name), cell(p.Category), p.Votes, p.MarketPotential, p.Rating)
	}
	b.WriteString("\n---\n\n")
}

func writeTop(b *strings.Builder, top []products.Product) {
	fmt.Fprintf(b, "## 🌟 Top %d Picks\n\n", len(top))
	b.WriteString("Ranked by market potential, then prospect score (innovation, market demand, business model).\n\n")
	for i, p := range top {
		fmt.Fprintf(b, "### %s %s\n\n", medal(i), p.Name)
		fmt.Fprintf(b, "**Rating**: %s (%d/100, prospect score %d)\n\n", p.Rating, p.MarketPotential, p.ProspectScore)
		fmt.Fprintf(b, "%s\n\n", truncate(p.ExpertOpinion, 300))
	}
	b.WriteString("---\n\n")
}

func writeCategories(b *strings.Builder, items []products.Product) {
	counts := categoryCounts(items)
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})

	b.WriteString("## 📈 Category Distribution\n\n")
	b.WriteString("| Category | Products | Share |\n|----------|----------|-------|\n")
	for _, c := range cats {
		fmt.Fprintf(b, "| %s | %d | %d%% |\n", cell(c), counts[c], counts[c]*100/len(items))
	}
	b.WriteString("\n---\n\n")
}

func writeRisks(b *strings.Builder) {
	b.WriteString("## ⚠️ Risk Notice\n\n")
	b.WriteString("1. **Market**: adoption of new products is uncertain and takes time to validate.\n")
	b.WriteString("2. **Technology**: fast iteration can leave a product on the wrong technical path.\n")
	b.WriteString("3. **Competition**: crowded categories change quickly.\n")
	b.WriteString("4. **Regulation**: policy changes can reshape a market.\n\n")
	b.WriteString("> This report is generated from public leaderboard data and keyword heuristics. It is not investment advice.\n")
}

func section(b *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(b, "#### %s\n\n%s\n\n", title, body)
}

func categoryCounts(items []products.Product) map[string]int {
	counts := map[string]int{}
	for _, p := range items {
		counts[p.Category]++
	}
	return counts
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func medal(i int) string {
	switch i {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	}
	return fmt.Sprintf("#%d", i+1)
}
