package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	domain "github.com/bryanwahyu/ph-daily/internal/domain/products"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS ph_analysis_runs (
  id            TEXT        PRIMARY KEY,
  run_date      DATE        NOT NULL,
  url           TEXT        NOT NULL DEFAULT '',
  source        TEXT        NOT NULL,
  status        TEXT        NOT NULL,
  product_count INTEGER     NOT NULL DEFAULT 0,
  top_products  TEXT[]      NOT NULL DEFAULT '{}',
  report_path   TEXT        NOT NULL DEFAULT '',
  report_url    TEXT        NOT NULL DEFAULT '',
  error         TEXT        NOT NULL DEFAULT '',
  started_at    TIMESTAMPTZ NOT NULL,
  duration_ms   BIGINT      NOT NULL DEFAULT 0
);`,
	`CREATE INDEX IF NOT EXISTS idx_ph_runs_started ON ph_analysis_runs (started_at DESC);`, `
CREATE TABLE IF NOT EXISTS ph_products (
  run_id           TEXT    NOT NULL REFERENCES ph_analysis_runs(id) ON DELETE CASCADE,
  position         INTEGER NOT NULL,
  name             TEXT    NOT NULL,
  description      TEXT    NOT NULL DEFAULT '',
  category         TEXT    NOT NULL DEFAULT '',
  votes            INTEGER NOT NULL DEFAULT 0,
  website_url      TEXT    NOT NULL DEFAULT '',
  producthunt_url  TEXT    NOT NULL DEFAULT '',
  image_url        TEXT    NOT NULL DEFAULT '',
  pain_point       TEXT    NOT NULL DEFAULT '',
  target_audience  TEXT    NOT NULL DEFAULT '',
  core_feature     TEXT    NOT NULL DEFAULT '',
  competitors      JSONB   NOT NULL DEFAULT '[]',
  weaknesses       TEXT    NOT NULL DEFAULT '',
  strengths        TEXT    NOT NULL DEFAULT '',
  business_model   TEXT    NOT NULL DEFAULT '',
  pricing          TEXT    NOT NULL DEFAULT '',
  expert_opinion   TEXT    NOT NULL DEFAULT '',
  market_potential INTEGER NOT NULL DEFAULT 0,
  rating           TEXT    NOT NULL DEFAULT '',
  prospect_score   INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (run_id, position)
);`,
}

type RunRepository struct{ db *sql.DB }

func NewRunRepository(db *sql.DB) *RunRepository { return &RunRepository{db: db} }

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
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 product_count = EXCLUDED.product_count,
 top_products = EXCLUDED.top_products,
 report_path = EXCLUDED.report_path,
 report_url = EXCLUDED.report_url,
 error = EXCLUDED.error,
 duration_ms = EXCLUDED.duration_ms;`

	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	top := run.TopProducts
	if top == nil {
		top = []string{}
	}
	if _, err := tx.ExecContext(ctx, q,
		run.ID, run.Date.Format("2006-01-02"), run.URL, stringOrDash(string(run.Source)), stringOrDash(string(run.Status)),
		run.ProductCount, pq.Array(top),
		run.ReportPath, run.ReportURL, run.Error, started, run.DurationMS,
	); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ph_products WHERE run_id=$1`, run.ID); err != nil {
		return err
	}
	const qp = `
INSERT INTO ph_products
(run_id, position, name, description, category, votes, website_url, producthunt_url, image_url,
 pain_point, target_audience, core_feature, competitors, weaknesses, strengths,
 business_model, pricing, expert_opinion, market_potential, rating, prospect_score)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13::jsonb,$14,$15,$16,$17,$18,$19,$20,$21);`
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
	var top pq.StringArray
	if err := s.Scan(
		&run.ID, &run.Date, &run.URL, &run.Source, &run.Status, &run.ProductCount, &top,
		&run.ReportPath, &run.ReportURL, &run.Error, &run.StartedAt, &run.DurationMS,
	); err != nil {
		return nil, err
	}
	run.TopProducts = []string(top)
	return &run, nil
}

func (r *RunRepository) Get(ctx context.Context, id domain.RunID) (*domain.Run, []domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM ph_analysis_runs WHERE id=$1 LIMIT 1;`, id)
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
FROM ph_products WHERE run_id=$1 ORDER BY position;`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		var p domain.Product
		var competitors []byte
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

func (r *RunRepository) Latest(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+runColumns+` FROM ph_analysis_runs ORDER BY started_at DESC, id DESC LIMIT $1;`, limit)
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
