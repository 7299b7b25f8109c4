package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bryanwahyu/ph-daily/internal/application"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/frontmatter"
	"github.com/bryanwahyu/ph-daily/internal/logging"
)

// ---------------------------------------------------------------------------
// fakes
// ---------------------------------------------------------------------------

type fakeSource struct {
	listing products.Listing
	err     error
}

func (f fakeSource) Fetch(context.Context, time.Time) (products.Listing, error) {
	return f.listing, f.err
}

type heuristics struct {
	inFlight, peak int32
	delay          time.Duration
}

func (h *heuristics) Enrich(_ context.Context, p products.Product) products.Product {
	n := atomic.AddInt32(&h.inFlight, 1)
	for {
		peak := atomic.LoadInt32(&h.peak)
		if n <= peak || atomic.CompareAndSwapInt32(&h.peak, peak, n) {
			break
		}
	}
	time.Sleep(h.delay)
	atomic.AddInt32(&h.inFlight, -1)
	products.Enhance(&p)
	return p
}

type fakeRepo struct {
	mu      sync.Mutex
	saved   []products.Run
	ctxErrs []error
	err     error
}

func (r *fakeRepo) Save(ctx context.Context, run *products.Run, _ []products.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, *run)
	r.ctxErrs = append(r.ctxErrs, ctx.Err())
	return r.err
}

func (r *fakeRepo) Get(context.Context, products.RunID) (*products.Run, []products.Product, error) {
	return nil, nil, products.ErrRunNotFound
}

func (r *fakeRepo) Latest(context.Context, int) ([]*products.Run, error) { return nil, nil }

type fakeStore struct{ keys []string }

func (s *fakeStore) Upload(_ context.Context, _, key string) (string, error) {
	s.keys = append(s.keys, key)
	return "http://minio/" + key, nil
}

type fakePublisher struct {
	runs []*products.Run
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, r *products.Run) error {
	p.runs = append(p.runs, r)
	return p.err
}

var runDate = time.Date(2024, 1, 2, 16, 10, 0, 0, time.UTC)

func newService(t *testing.T, src products.Source) *Service {
	t.Helper()
	return &Service{
		Source:     src,
		Enricher:   &heuristics{},
		Clock:      application.FixedClock{T: runDate},
		Log:        logging.Discard(),
		Workers:    3,
		TopN:       3,
		ReportsDir: filepath.Join(t.TempDir(), "reports"),
	}
}

func sampleListing() products.Listing {
	return products.Listing{URL: "https://decohack.com/producthunt-daily-2024-01-01", Source: products.SourceFallback, Products: products.Fallback()}
}

// ---------------------------------------------------------------------------
// tests
// ---------------------------------------------------------------------------

func TestRunWritesReport(t *testing.T) {
	s := newService(t, fakeSource{listing: sampleListing()})
	repo, store, pub := &fakeRepo{}, &fakeStore{}, &fakePublisher{}
	s.Repo, s.Store, s.Publisher = repo, store, pub

	res, err := s.Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := filepath.Join(s.ReportsDir, "product_hunt_analysis_2024-01-02.md"); res.Run.ReportPath != want {
		t.Errorf("ReportPath = %s, want %s", res.Run.ReportPath, want)
	}
	if res.Run.Status != products.StatusSuccess || res.Run.ProductCount != 3 {
		t.Errorf("run = %+v", res.Run)
	}
	if got := strings.Join(res.Run.TopProducts, ","); got != "Claude 3.5 Sonnet,Linear,Notion AI" {
		t.Errorf("TopProducts = %s", got)
	}
	for i, p := range res.Products {
		if p.Rank != i+1 {
			t.Errorf("enrichment reordered products: %d at %d", p.Rank, i)
		}
	}
	if res.Run.ReportURL != "http://minio/reports/product_hunt_analysis_2024-01-02.md" {
		t.Errorf("ReportURL = %s", res.Run.ReportURL)
	}
	if len(repo.saved) != 1 || len(pub.runs) != 1 {
		t.Errorf("saved %d runs, published %d", len(repo.saved), len(pub.runs))
	}

	data, err := os.ReadFile(res.Run.ReportPath)
	if err != nil {
		t.Fatal(err)
	}
	var meta ReportMeta
	body, err := frontmatter.Decode(data, &meta)
	if err != nil {
		t.Fatalf("report frontmatter: %v", err)
	}
	if meta.Date != "2024-01-02" || meta.Source != "fallback" || meta.Products != 3 || meta.RunID != string(res.Run.ID) {
		t.Errorf("meta = %+v", meta)
	}
	for _, want := range []string{"## 📊 Overview", "🟡 sample data", "### 1. Claude 3.5 Sonnet", "## 🏆 Leaderboard", "🥇 Claude 3.5 Sonnet", "## ⚠️ Risk Notice"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRunOptionalStepFailuresAreLogged(t *testing.T) {
	s := newService(t, fakeSource{listing: sampleListing()})
	s.Repo = &fakeRepo{err: errors.New("db down")}
	s.Publisher = &fakePublisher{err: errors.New("nats down")}

	res, err := s.Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("optional failures should not fail the run: %v", err)
	}
	if res.Run.Status != products.StatusSuccess {
		t.Errorf("Status = %s", res.Run.Status)
	}
}

func TestRunFetchFailure(t *testing.T) {
	tests := []struct {
		name string
		src  fakeSource
		want error
	}{
		{"source error", fakeSource{err: context.Canceled}, context.Canceled},
		{"empty listing", fakeSource{listing: products.Listing{Source: products.SourceLive}}, products.ErrNoProducts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(t, tt.src)
			repo := &fakeRepo{}
			s.Repo = repo
			_, err := s.Run(context.Background(), runDate)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(repo.saved) != 1 || repo.saved[0].Status != products.StatusFailed {
				t.Errorf("failed run not recorded: %+v", repo.saved)
			}
			if _, statErr := os.Stat(s.ReportsDir); !os.IsNotExist(statErr) {
				t.Error("no report should be written")
			}
		})
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var items []products.Product
	for i := 1; i <= 9; i++ {
		items = append(items, products.Product{Rank: i, Name: "Product " + string(rune('A'+i)), Description: "tool"})
	}
	s := newService(t, fakeSource{listing: products.Listing{Source: products.SourceLive, Products: items}})
	h := &heuristics{delay: 10 * time.Millisecond}
	s.Enricher = h
	s.Workers = 2

	res, err := s.Run(context.Background(), runDate)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if peak := atomic.LoadInt32(&h.peak); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
	if len(res.Top) != 3 {
		t.Errorf("Top = %d products", len(res.Top))
	}
	for i, p := range res.Products {
		if p.Rank != i+1 {
			t.Fatalf("order lost at %d: rank %d", i, p.Rank)
		}
	}
}

func TestRunZeroDateUsesClock(t *testing.T) {
	s := newService(t, fakeSource{listing: sampleListing()})
	res, err := s.Run(context.Background(), time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Run.Date.Equal(runDate) {
		t.Errorf("Date = %s", res.Run.Date)
	}
}

func TestRunCancelledStillRecordsFailure(t *testing.T) {
	s := newService(t, fakeSource{err: context.Canceled})
	repo := &fakeRepo{}
	s.Repo = repo

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx, runDate); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(repo.saved) != 1 || repo.saved[0].Status != products.StatusFailed {
		t.Fatalf("cancelled run not recorded: %+v", repo.saved)
	}
	if repo.ctxErrs[0] != nil {
		t.Errorf("save ran with a dead context: %v", repo.ctxErrs[0])
	}
}
