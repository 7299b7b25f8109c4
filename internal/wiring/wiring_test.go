package wiring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/bryanwahyu/ph-daily/internal/config"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/infra/reports"
	"github.com/bryanwahyu/ph-daily/internal/logging"
)

func TestBuildOfflineRunsEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Analyzer.ReportsDir = filepath.Join(t.TempDir(), "reports")
	cfg.OpenAI.APIKey = "sk-test" // ignored with NoAI

	c := Build(context.Background(), cfg, logging.Discard(), Options{Offline: true, NoAI: true})
	defer c.Close()

	if c.Runs != nil || c.Analysis.Repo != nil || c.Analysis.Store != nil || c.Analysis.Publisher != nil {
		t.Fatal("no optional adapters should be wired by default")
	}

	res, err := c.Analysis.Run(context.Background(), time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Run.Source != products.SourceFallback {
		t.Errorf("Source = %s", res.Run.Source)
	}
	info, ok, err := reports.Newest(cfg.Analyzer.ReportsDir, "")
	if err != nil || !ok {
		t.Fatalf("Newest: %v %v", ok, err)
	}
	if info.Name != "product_hunt_analysis_2024-01-02.md" {
		t.Errorf("report = %s", info.Name)
	}
}

func TestBuildSkipsUnreachableDatabase(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Driver = "postgres"
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 1 // nothing listens here

	c := Build(context.Background(), cfg, logging.Discard(), Options{Offline: true})
	defer c.Close()
	if c.Runs != nil || c.DB != nil {
		t.Error("unreachable database should be left out")
	}
}
