// Package wiring builds the analysis service and its optional adapters from
// configuration. Both binaries share it.
package wiring

import (
	"context"
	"database/sql"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/bryanwahyu/ph-daily/internal/application"
	appai "github.com/bryanwahyu/ph-daily/internal/application/ai"
	"github.com/bryanwahyu/ph-daily/internal/application/analysis"
	"github.com/bryanwahyu/ph-daily/internal/config"
	domai "github.com/bryanwahyu/ph-daily/internal/domain/ai"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/infra/ai/openai"
	"github.com/bryanwahyu/ph-daily/internal/infra/db/mysql"
	"github.com/bryanwahyu/ph-daily/internal/infra/db/postgres"
	"github.com/bryanwahyu/ph-daily/internal/infra/events"
	"github.com/bryanwahyu/ph-daily/internal/infra/scraper"
	"github.com/bryanwahyu/ph-daily/internal/infra/storage"
)

type Options struct {
	Offline bool // use the sample leaderboard, no network
	NoAI    bool
}

// Components holds what Build created. Close releases connections.
type Components struct {
	Analysis *analysis.Service
	Runs     products.Repository // nil without a database
	DB       *sql.DB

	nc *nats.Conn
}

func (c *Components) Close() {
	if c.nc != nil {
		c.nc.Drain()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// Build wires the analysis service. Optional adapters (database, MinIO,
// NATS, OpenAI) that fail to connect are logged and left out.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger, opts Options) *Components {
	c := &Components{}

	var source products.Source = scraper.New(cfg.Analyzer, logger)
	if opts.Offline {
		source = scraper.Offline{BaseURL: cfg.Analyzer.BaseURL}
	}

	var enricher domai.Enricher
	if cfg.OpenAI.APIKey != "" && !opts.NoAI {
		enricher = openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		logger.WithField("model", cfg.OpenAI.Model).Info("AI enrichment enabled")
	}

	svc := &analysis.Service{
		Source:     source,
		Enricher:   appai.NewService(enricher, logger),
		Clock:      application.SystemClock{},
		Log:        logger,
		Workers:    cfg.Analyzer.Workers,
		TopN:       cfg.Analyzer.TopN,
		ReportsDir: cfg.Analyzer.ReportsDir,
	}

	if repo, db, err := connectRuns(ctx, cfg); err != nil {
		logger.WithError(err).WithField("driver", cfg.Database.Driver).Warn("database unavailable, run history disabled")
	} else if repo != nil {
		c.DB, c.Runs = db, repo
		svc.Repo = repo
	}

	if cfg.Minio.Enabled {
		store, err := storage.New(ctx, storage.Options{
			Endpoint:  cfg.Minio.Endpoint,
			Region:    cfg.Minio.Region,
			Bucket:    cfg.Minio.BucketName,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			logger.WithError(err).Warn("minio unavailable, reports stay local")
		} else {
			svc.Store = store
		}
	}

	if cfg.NATS.URL != "" {
		nc, err := events.Connect(cfg.NATS.URL, logger)
		if err != nil {
			logger.WithError(err).Warn("nats unavailable, completion events disabled")
		} else {
			c.nc = nc
			svc.Publisher = events.NewPublisher(nc, cfg.NATS.Subject)
		}
	}

	c.Analysis = svc
	return c
}

type runRepository interface {
	products.Repository
	EnsureSchema(ctx context.Context) error
}

func connectRuns(ctx context.Context, cfg *config.Config) (products.Repository, *sql.DB, error) {
	var (
		db   *sql.DB
		repo runRepository
		err  error
	)
	switch cfg.Database.Driver {
	case "mysql":
		if db, err = mysql.Connect(ctx, cfg.MySQLDSN()); err == nil {
			repo = mysql.NewRunRepository(db)
		}
	case "postgres":
		if db, err = postgres.Connect(ctx, cfg.PostgresDSN()); err == nil {
			repo = postgres.NewRunRepository(db)
		}
	default:
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, db, nil
}
