package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"

	"github.com/bryanwahyu/ph-daily/internal/application"
	"github.com/bryanwahyu/ph-daily/internal/application/analysis"
	domai "github.com/bryanwahyu/ph-daily/internal/domain/ai"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
	"github.com/bryanwahyu/ph-daily/internal/frontmatter"
	"github.com/bryanwahyu/ph-daily/internal/infra/reports"
	"github.com/bryanwahyu/ph-daily/internal/middleware"
)

// Analyzer runs one analysis; *analysis.Service implements it.
type Analyzer interface {
	Run(ctx context.Context, date time.Time) (*analysis.Result, error)
}

type Deps struct {
	Analyzer      Analyzer
	Runs          products.Repository // nil when no database is configured
	ReportsDir    string
	ReportPattern string
	APIKeys       map[string]string
	Health        map[string]middleware.HealthChecker
	Metrics       *middleware.Metrics
	Limiter       *middleware.RateLimiter
	Log           *log.Logger
	Clock         application.Clock

	// BaseContext bounds background analysis runs; cancel it on shutdown.
	BaseContext context.Context
}

type Router struct {
	d       Deps
	mux     *chi.Mux
	running sync.Mutex
	wg      sync.WaitGroup
}

func NewRouter(d Deps) *Router {
	if d.Metrics == nil {
		d.Metrics = middleware.NewMetrics()
	}
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if d.BaseContext == nil {
		d.BaseContext = context.Background()
	}
	r := &Router{d: d}
	mux := chi.NewRouter()

	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(d.Log))
	mux.Use(d.Metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	if d.Limiter != nil {
		mux.Use(middleware.RateLimit(d.Limiter))
	}

	mux.Get("/health", middleware.HealthHandler(d.Health))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", d.Metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Use(middleware.APIKeyAuth(d.APIKeys))
		rt.Get("/reports", r.wrap(r.handleReports))
		rt.Get("/reports/latest", r.wrap(r.handleLatestReport))
		rt.Get("/runs", r.wrap(r.handleRuns))
		rt.Get("/runs/{id}", r.wrap(r.handleRun))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
	})

	r.mux = mux
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Wait blocks until background analysis runs have finished.
func (r *Router) Wait() { r.wg.Wait() }

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

func httpError(code int, msg string) error { return &statusError{code: code, msg: msg} }

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var se *statusError
		switch {
		case errors.As(err, &se):
			http.Error(w, se.msg, se.code)
		case errors.Is(err, products.ErrRunNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domai.ErrQuotaExceeded):
			http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
		default:
			r.d.Log.WithError(err).WithField("path", req.URL.Path).Error("request failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// GET /v1/reports?limit=20
func (r *Router) handleReports(w http.ResponseWriter, req *http.Request) error {
	limit := middleware.ParseLimit(req.URL.Query().Get("limit"))
	list, err := reports.List(r.d.ReportsDir, r.d.ReportPattern)
	if err != nil {
		return err
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /v1/reports/latest
func (r *Router) handleLatestReport(w http.ResponseWriter, req *http.Request) error {
	info, ok, err := reports.Newest(r.d.ReportsDir, r.d.ReportPattern)
	if err != nil {
		return err
	}
	if !ok {
		return httpError(http.StatusNotFound, "no reports yet")
	}
	data, err := os.ReadFile(info.Path)
	if err != nil {
		return err
	}

	resp := struct {
		reports.Info
		Meta    *analysis.ReportMeta `json:"meta,omitempty"`
		Content string               `json:"content"`
	}{Info: info, Content: string(data)}

	// reports written by older analyzers have no frontmatter
	var meta analysis.ReportMeta
	if body, err := frontmatter.Decode(data, &meta); err == nil {
		resp.Meta = &meta
		resp.Content = string(body)
	}
	return writeJSON(w, http.StatusOK, resp)
}

// GET /v1/runs?limit=20
func (r *Router) handleRuns(w http.ResponseWriter, req *http.Request) error {
	if r.d.Runs == nil {
		return httpError(http.StatusServiceUnavailable, "run history requires a database")
	}
	runs, err := r.d.Runs.Latest(req.Context(), middleware.ParseLimit(req.URL.Query().Get("limit")))
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*products.Run{}
	}
	return writeJSON(w, http.StatusOK, runs)
}

// GET /v1/runs/{id}
func (r *Router) handleRun(w http.ResponseWriter, req *http.Request) error {
	if r.d.Runs == nil {
		return httpError(http.StatusServiceUnavailable, "run history requires a database")
	}
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateRunID(id); err != nil {
		return httpError(http.StatusBadRequest, err.Error())
	}
	run, items, err := r.d.Runs.Get(req.Context(), products.RunID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"run": run, "products": items})
}

// POST /v1/analyze
// Body (optional): {"date": "YYYY-MM-DD"}
// One run at a time; a second request while one is running gets 409.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Date string `json:"date"`
	}
	if req.ContentLength != 0 {
		err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<10)).Decode(&body)
		if err != nil && !errors.Is(err, io.EOF) {
			return httpError(http.StatusBadRequest, "invalid JSON body")
		}
	}
	now := r.d.Clock.Now()
	date, err := middleware.ValidateDate(middleware.SanitizeString(body.Date), now)
	if err != nil {
		return httpError(http.StatusBadRequest, err.Error())
	}
	if date.IsZero() {
		date = now
	}

	if !r.running.TryLock() {
		return httpError(http.StatusConflict, "an analysis is already running")
	}
	done := r.d.Metrics.AnalysisStarted()
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.running.Unlock()
		res, err := r.d.Analyzer.Run(r.d.BaseContext, date)
		done(err)
		if err != nil {
			r.d.Log.WithError(err).Error("background analysis failed")
			return
		}
		r.d.Log.WithField("report", res.Run.ReportPath).Info("background analysis finished")
	}()

	return writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "queued",
		"date":      date.Format("2006-01-02"),
		"message":   "analysis started in background",
		"queued_at": now,
	})
}
