package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bryanwahyu/ph-daily/internal/application"
	"github.com/bryanwahyu/ph-daily/internal/application/analysis"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/logging"
	"github.com/bryanwahyu/ph-daily/internal/middleware"
)

const runID = "7d444840-9dc0-11d1-b245-5ffdce74fad2"

var now = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

type fakeAnalyzer struct {
	mu      sync.Mutex
	dates   []time.Time
	release chan struct{}
}

func (f *fakeAnalyzer) Run(_ context.Context, date time.Time) (*analysis.Result, error) {
	f.mu.Lock()
	f.dates = append(f.dates, date)
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return &analysis.Result{Run: &products.Run{ReportPath: "reports/x.md"}}, nil
}

type fakeRuns struct{}

func (fakeRuns) Save(context.Context, *products.Run, []products.Product) error { return nil }

func (fakeRuns) Get(_ context.Context, id products.RunID) (*products.Run, []products.Product, error) {
	if id != runID {
		return nil, nil, products.ErrRunNotFound
	}
	return &products.Run{ID: id, Status: products.StatusSuccess}, products.Fallback(), nil
}

func (fakeRuns) Latest(context.Context, int) ([]*products.Run, error) {
	return []*products.Run{{ID: runID}}, nil
}

func newRouter(t *testing.T, d Deps) *Router {
	t.Helper()
	if d.ReportsDir == "" {
		d.ReportsDir = t.TempDir()
	}
	d.Log = logging.Discard()
	d.Clock = application.FixedClock{T: now}
	if d.Analyzer == nil {
		d.Analyzer = &fakeAnalyzer{}
	}
	return NewRouter(d)
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProbes(t *testing.T) {
	r := newRouter(t, Deps{})
	for _, path := range []string{"/health", "/livez", "/metrics"} {
		if rec := do(r, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("%s = %d", path, rec.Code)
		}
	}
}

func TestReports(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "product_hunt_analysis_2024-01-01.md")
	newer := filepath.Join(dir, "product_hunt_analysis_2024-01-02.md")
	os.WriteFile(old, []byte("# legacy report\n"), 0o644)
	os.WriteFile(newer, []byte("---\ndate: \"2024-01-02\"\nsource: live\nproducts: 3\nrun_id: abc\n---\n# today\n"), 0o644)
	os.Chtimes(old, now.Add(-time.Hour), now.Add(-time.Hour))
	os.Chtimes(newer, now, now)

	r := newRouter(t, Deps{ReportsDir: dir})

	rec := do(r, http.MethodGet, "/v1/reports?limit=1", "")
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body)
	}
	if len(list) != 1 || list[0]["name"] != "product_hunt_analysis_2024-01-02.md" {
		t.Errorf("list = %v", list)
	}

	rec = do(r, http.MethodGet, "/v1/reports/latest", "")
	var latest struct {
		Name    string               `json:"name"`
		Meta    *analysis.ReportMeta `json:"meta"`
		Content string               `json:"content"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &latest); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if latest.Meta == nil || latest.Meta.Source != "live" || latest.Content != "# today\n" {
		t.Errorf("latest = %+v", latest)
	}
}

func TestLatestReportMissing(t *testing.T) {
	r := newRouter(t, Deps{})
	if rec := do(r, http.MethodGet, "/v1/reports/latest", ""); rec.Code != http.StatusNotFound {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestRuns(t *testing.T) {
	without := newRouter(t, Deps{})
	if rec := do(without, http.MethodGet, "/v1/runs", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("no database: code = %d", rec.Code)
	}

	r := newRouter(t, Deps{Runs: fakeRuns{}})
	tests := []struct {
		path string
		code int
	}{
		{"/v1/runs", http.StatusOK},
		{"/v1/runs/" + runID, http.StatusOK},
		{"/v1/runs/not-a-uuid", http.StatusBadRequest},
		{"/v1/runs/00000000-0000-0000-0000-000000000000", http.StatusNotFound},
	}
	for _, tt := range tests {
		if rec := do(r, http.MethodGet, tt.path, ""); rec.Code != tt.code {
			t.Errorf("%s = %d, want %d", tt.path, rec.Code, tt.code)
		}
	}
}

func TestAnalyze(t *testing.T) {
	fa := &fakeAnalyzer{release: make(chan struct{})}
	metrics := middleware.NewMetrics()
	r := newRouter(t, Deps{Analyzer: fa, Metrics: metrics})

	if rec := do(r, http.MethodPost, "/v1/analyze", `{"date":"2024-01-01"}`); rec.Code != http.StatusAccepted {
		t.Fatalf("first = %d %s", rec.Code, rec.Body)
	}
	if rec := do(r, http.MethodPost, "/v1/analyze", ""); rec.Code != http.StatusConflict {
		t.Errorf("concurrent run = %d, want 409", rec.Code)
	}
	close(fa.release)
	r.Wait()

	if len(fa.dates) != 1 || fa.dates[0].Format("2006-01-02") != "2024-01-01" {
		t.Errorf("dates = %v", fa.dates)
	}
	if metrics.Snapshot()["analyses_total"] != uint64(1) {
		t.Errorf("analysis not counted")
	}

	for _, body := range []string{`{"date":"2099-01-01"}`, `{"date":"yesterday"}`, `not json`} {
		if rec := do(r, http.MethodPost, "/v1/analyze", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s = %d, want 400", body, rec.Code)
		}
	}
}

func TestAuthGuardsV1(t *testing.T) {
	r := newRouter(t, Deps{APIKeys: map[string]string{"ci": "k"}})
	if rec := do(r, http.MethodGet, "/v1/reports", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("code = %d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("health should stay open, got %d", rec.Code)
	}
}
