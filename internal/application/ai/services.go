package ai

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/bryanwahyu/ph-daily/internal/domain/ai"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

// Service enriches products with the keyword heuristics and, when a model is
// configured, overlays what the model says on top of them.
type Service struct {
	client ai.Enricher
	log    *log.Logger
}

// NewService accepts a nil client, in which case only heuristics are used.
func NewService(client ai.Enricher, logger *log.Logger) *Service {
	return &Service{client: client, log: logger}
}

func (s *Service) Enabled() bool { return s.client != nil }

// Enrich never fails: AI problems are logged and the heuristic values stay.
func (s *Service) Enrich(ctx context.Context, p products.Product) products.Product {
	products.Analyze(&p)
	if s.client != nil {
		e, err := s.client.Enrich(ctx, p)
		switch {
		case errors.Is(err, ai.ErrQuotaExceeded):
			s.log.WithField("product", p.Name).Warn("AI quota exceeded, keeping heuristic analysis")
		case err != nil:
			s.log.WithError(err).WithField("product", p.Name).Warn("AI enrichment failed, keeping heuristic analysis")
		default:
			overlay(&p, e)
		}
	}
	products.Score(&p)
	return p
}

func overlay(p *products.Product, e ai.Enrichment) {
	if e.PainPoint != "" {
		p.PainPoint = e.PainPoint
	}
	if e.TargetAudience != "" {
		p.TargetAudience = e.TargetAudience
	}
	if len(e.Competitors) > 0 {
		p.Competitors = e.Competitors
	}
	if e.Weaknesses != "" {
		p.Weaknesses = e.Weaknesses
	}
	if e.ExpertOpinion != "" {
		p.ExpertOpinion = e.ExpertOpinion
	}
}
