package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/ph-daily/internal/domain/ai"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior product analyst reviewing today's Product Hunt leaderboard. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Every string is one or two plain English sentences.
- competitors lists at most 3 real products, never the product itself.
- If you do not know a field, use an empty string or an empty array.

Schema (example with empty values):
{
  "pain_point": "<string>",
  "target_audience": "<string>",
  "competitors": ["<string>"],
  "weaknesses": "<string>",
  "expert_opinion": "<string>"
}`
}

// GetUserPrompt describes one product for the model.
func GetUserPrompt(p products.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this product and respond with the JSON per schema.\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	if p.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", p.Category)
	}
	fmt.Fprintf(&b, "Votes: %d\n", p.Votes)
	if p.WebsiteURL != "" {
		fmt.Fprintf(&b, "Website: %s\n", p.WebsiteURL)
	}
	return b.String()
}

// ParseEnrichment decodes a model answer. Models sometimes wrap the object in
// a code fence despite being told not to, so fences are stripped first.
func ParseEnrichment(content string) (ai.Enrichment, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var e ai.Enrichment
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return ai.Enrichment{}, fmt.Errorf("decode enrichment: %w", err)
	}
	e.PainPoint = strings.TrimSpace(e.PainPoint)
	e.TargetAudience = strings.TrimSpace(e.TargetAudience)
	e.Weaknesses = strings.TrimSpace(e.Weaknesses)
	e.ExpertOpinion = strings.TrimSpace(e.ExpertOpinion)

	competitors := e.Competitors[:0]
	for _, c := range e.Competitors {
		if c = strings.TrimSpace(c); c != "" && len(competitors) < 3 {
			competitors = append(competitors, c)
		}
	}
	e.Competitors = competitors
	return e, nil
}
