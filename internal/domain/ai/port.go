package ai

import (
	"context"

	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

// Enrichment is the model's take on one product. Empty fields mean the model
// had nothing to add.
type Enrichment struct {
	PainPoint      string   `json:"pain_point"`
	TargetAudience string   `json:"target_audience"`
	Competitors    []string `json:"competitors"`
	Weaknesses     string   `json:"weaknesses"`
	ExpertOpinion  string   `json:"expert_opinion"`
}

type Enricher interface {
	Enrich(ctx context.Context, p products.Product) (Enrichment, error)
}
