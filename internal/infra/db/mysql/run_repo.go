package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/ph-daily/internal/domain/products"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS ph_analysis_runs (
  id            VARCHAR(64)  NOT NULL PRIMARY KEY,
  run_date      DATE         NOT NULL,
  url           VARCHAR(512) NOT NULL DEFAULT '',
  source        VARCHAR(16)  NOT NULL,
  status        VARCHAR(16)  NOT NULL,
  product_count INT          NOT NULL DEFAULT 0,
  top_products  TEXT         NOT NULL,
  report_path   VARCHAR(512) NOT NULL DEFAULT '',
  report_url    VARCHAR(1024) NOT NULL DEFAULT '',
  error         TEXT         NOT NULL,
  started_at    DATETIME(3)  NOT NULL,
  duration_ms   BIGINT       NOT NULL DEFAULT 0,
  INDEX idx_ph_runs_started (started_at)
) DEFAULT CHARSET=utf8mb4;`, `
CREATE TABLE IF NOT EXISTS ph_products (
  run_id           VARCHAR(64)  NOT NULL,
  position         INT          NOT NULL,
  name             VARCHAR(255) NOT NULL,
  description      TEXT         NOT NULL,
  category         VARCHAR(64)  NOT NULL,
  votes            INT          NOT NULL DEFAULT 0,
  website_url      VARCHAR(1024) NOT NULL DEFAULT '',
  producthunt_url  VARCHAR(1024) NOT NULL DEFAULT '',
  image_url        VARCHAR(1024) NOT NULL DEFAULT '',
  pain_point       TEXT         NOT NULL,
  target_audience  TEXT         NOT NULL,
  core_feature     TEXT         NOT NULL,
  competitors      TEXT         NOT NULL,
  weaknesses       TEXT         NOT NULL,
  strengths        TEXT         NOT NULL,
  business_model   TEXT         NOT NULL,
  pricing          TEXT         NOT NULL,
  expert_opinion   TEXT         NOT NULL,
  market_potential INT          NOT NULL DEFAULT 0,
  rating           VARCHAR(32)  NOT NULL DEFAULT '',
  prospect_score   INT          NOT NULL DEFAULT 0,
  PRIMARY KEY (run_id, position)
) DEFAULT CHARSET=utf8mb4;`,
}

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Save upserts the run and replaces its products in one transaction.
func (r *RunRepository) Save(ctx context.Context, run *domain.Run, items []domain.Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
INSERT INTO ph_analysis_runs
(id, run_date, url, source, status, product_count, top_products,
 report_path, report_url, error, started_at, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 status=VALUES(status), product_count=VALUES(product_count), top_products=VALUES(top_products),
 report_path=VALUES(report_path), report_url=VALUES(report_url), error=VALUES(error),
 duration_ms=VALUES(duration_ms);
`
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	if _, err := tx.ExecContext(ctx, q,
		run.ID, run.Date.Format("2006-01-02"), run.URL, stringOrDash(string(run.Source)), stringOrDash(string(run.Status)),
		run.ProductCount, encodeList(run.TopProducts),
		run.ReportPath, run.ReportURL, run.Error, started.UTC(), run.DurationMS,
	); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ph_products WHERE run_id=?`, run.ID); err != nil {
		return err
	}
	const qp = `
INSERT INTO ph_products
(run_id, position, name, description, category, votes, website_url, producthunt_url, image_url,
 pain_point, target_audience, core_feature, competitors, weaknesses, strengths,
 business_model, pricing, expert_opinion, market_potential, rating, prospect_score)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	for _, p := range items {
		if _, err := tx.ExecContext(ctx, qp,
			run.ID, p.Rank, p.Name, p.Description, stringOrDash(p.Category), p.Votes,
			p.WebsiteURL, p.ProductHuntURL, p.ImageURL,
			p.PainPoint, p.TargetAudience, p.CoreFeature, encodeList(p.Competitors), p.Weaknesses, p.Strengths,
			p.BusinessModel, p.Pricing, p.ExpertOpinion, p.MarketPotential, p.Rating, p.ProspectScore,
		); err != nil {
			return fmt.Errorf("save product %q: %w", p.Name, err)
		}
	}
	return tx.Commit()
}

const runColumns = `id, run_date, url, source, status, product_count, top_products,
       report_path, report_url, error, started_at, duration_ms`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*domain.Run, error) {
	var run domain.Run
	var top string
	if err := s.Scan(
		&run.ID, &run.Date, &run.URL, &run.Source, &run.Status, &run.ProductCount, &top,
		&run.ReportPath, &run.ReportURL, &run.Error, &run.StartedAt, &run.DurationMS,
	); err != nil {
		return nil, err
	}
	run.TopProducts = decodeList(top)
	return &run, nil
}

// Get returns a run and its products ordered by leaderboard position.
func (r *RunRepository) Get(ctx context.Context, id domain.RunID) (*domain.Run, []domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM ph_analysis_runs WHERE id=? LIMIT 1;`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	const q = `
SELECT position, name, description, category, votes, website_url, producthunt_url, image_url,
       pain_point, target_audience, core_feature, competitors, weaknesses, strengths,
       business_model, pricing, expert_opinion, market_potential, rating, prospect_score
FROM ph_products WHERE run_id=? ORDER BY position;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		var competitors string
		if err := rows.Scan(
			&p.Rank, &p.Name, &p.Description, &p.Category, &p.Votes, &p.WebsiteURL, &p.ProductHuntURL, &p.ImageURL,
			&p.PainPoint, &p.TargetAudience, &p.CoreFeature, &competitors, &p.Weaknesses, &p.Strengths,
			&p.BusinessModel, &p.Pricing, &p.ExpertOpinion, &p.MarketPotential, &p.Rating, &p.ProspectScore,
		); err != nil {
			return nil, nil, err
		}
		p.Competitors = decodeList(competitors)
		items = append(items, p)
	}
	return run, items, rows.Err()
}

// Latest runs, newest first
func (r *RunRepository) Latest(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+` FROM ph_analysis_runs ORDER BY started_at DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
