// Package analysis runs one daily analysis: fetch the leaderboard, enrich
// and rank the products, then write and publish the report.
package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/ph-daily/internal/application"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/infra/reports"
)

// Enricher fills the analysis fields of one product. It must not fail; a
// degraded answer is still an answer.
type Enricher interface {
	Enrich(ctx context.Context, p products.Product) products.Product
}

// Service is safe for concurrent use as long as its ports are.
type Service struct {
	Source   products.Source
	Enricher Enricher

	// Optional. Nil disables the step.
	Repo      products.Repository
	Store     products.ReportStore
	Publisher products.Publisher

	Clock      application.Clock
	Log        *log.Logger
	Workers    int
	TopN       int
	ReportsDir string
}

type Result struct {
	Run      *products.Run      `json:"run"`
	Products []products.Product `json:"products"`
	Top      []products.Product `json:"top"`
}

// Run analyses the leaderboard published the day before date. A zero date
// means today. Only fetching and writing the report can fail the run; upload,
// persistence and publishing problems are logged.
func (s *Service) Run(ctx context.Context, date time.Time) (*Result, error) {
	clock := s.Clock
	if clock == nil {
		clock = application.SystemClock{}
	}
	start := clock.Now()
	if date.IsZero() {
		date = start
	}
	run := &products.Run{
		ID:        products.RunID(uuid.NewString()),
		Date:      date,
		Status:    products.StatusRunning,
		StartedAt: start,
	}
	logger := s.Log.WithField("run_id", run.ID)
	logger.WithField("date", date.Format("2006-01-02")).Info("starting Product Hunt daily analysis")

	listing, err := s.Source.Fetch(ctx, date)
	if err != nil {
		return nil, s.fail(ctx, run, fmt.Errorf("fetch leaderboard: %w", err))
	}
	run.URL = listing.URL
	run.Source = listing.Source
	if len(listing.Products) == 0 {
		return nil, s.fail(ctx, run, products.ErrNoProducts)
	}
	logger.WithField("count", len(listing.Products)).WithField("source", listing.Source).Info("fetched products")

	enriched, err := s.enrich(ctx, listing.Products)
	if err != nil {
		return nil, s.fail(ctx, run, err)
	}

	top := products.Rank(enriched, s.topN())
	for i, p := range top {
		logger.WithField("position", i+1).WithField("score", p.MarketPotential).Info(p.Name)
	}

	run.ProductCount = len(enriched)
	run.TopProducts = names(top)

	content, err := Render(ReportInput{
		RunID:       run.ID,
		Date:        date,
		GeneratedAt: clock.Now(),
		Listing:     listing,
		Products:    enriched,
		Top:         top,
	})
	if err != nil {
		return nil, s.fail(ctx, run, fmt.Errorf("render report: %w", err))
	}
	path, err := reports.Save(s.reportsDir(), date, content)
	if err != nil {
		return nil, s.fail(ctx, run, err)
	}
	run.ReportPath = path

	if s.Store != nil {
		key := "reports/" + filepath.Base(path)
		if url, err := s.Store.Upload(ctx, path, key); err != nil {
			logger.WithError(err).Warn("report upload failed")
		} else {
			run.ReportURL = url
		}
	}

	run.Status = products.StatusSuccess
	run.DurationMS = clock.Now().Sub(start).Milliseconds()

	if s.Repo != nil {
		if err := s.Repo.Save(ctx, run, enriched); err != nil {
			logger.WithError(err).Warn("saving run failed")
		}
	}
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, run); err != nil {
			logger.WithError(err).Warn("publishing run failed")
		}
	}

	logger.WithField("report", path).WithField("duration_ms", run.DurationMS).Info("🎉 analysis complete")
	return &Result{Run: run, Products: enriched, Top: top}, nil
}

// enrich keeps input order; at most Workers products are in flight.
func (s *Service) enrich(ctx context.Context, items []products.Product) ([]products.Product, error) {
	out := make([]products.Product, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers())
	for i, p := range items {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.Enricher.Enrich(gctx, p)
			s.Log.WithField("product", out[i].Name).Debug("enriched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enrich products: %w", err)
	}
	return out, nil
}

// fail records a failed run where a repository is configured and returns err.
// The record is written even when ctx was cancelled, e.g. at shutdown.
func (s *Service) fail(ctx context.Context, run *products.Run, err error) error {
	run.Status = products.StatusFailed
	run.Error = err.Error()
	s.Log.WithField("run_id", run.ID).WithError(err).Error("💥 analysis failed")
	if s.Repo != nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failedRunSaveTimeout)
		defer cancel()
		if saveErr := s.Repo.Save(saveCtx, run, nil); saveErr != nil {
			s.Log.WithError(saveErr).Warn("saving failed run")
		}
	}
	return err
}

const failedRunSaveTimeout = 5 * time.Second

func (s *Service) workers() int {
	if s.Workers <= 0 {
		return 3
	}
	return s.Workers
}

func (s *Service) topN() int {
	if s.TopN <= 0 {
		return 3
	}
	return s.TopN
}

func (s *Service) reportsDir() string {
	if s.ReportsDir == "" {
		return "reports"
	}
	return s.ReportsDir
}

func names(items []products.Product) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}
