package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bryanwahyu/ph-daily/internal/application"
	"github.com/bryanwahyu/ph-daily/internal/config"
	domain "github.com/bryanwahyu/ph-daily/internal/domain/bootstrap"
)

// Procedure runs the gate chain Validate → Install → Prepare → Test →
// Analyze → Advise. The first failing gate ends the run.
//
// A Procedure is single-use and not safe for concurrent use: Validate and
// Install resolve the toolchain that later gates run with.
type Procedure struct {
	Cfg    config.Bootstrap
	Exec   domain.Executor
	Prompt domain.Prompter
	Out    io.Writer
	Log    *log.Logger
	Clock  application.Clock

	env    domain.Environment
	report string
	advice string
}

func New(cfg config.Bootstrap, exec domain.Executor, prompt domain.Prompter, out io.Writer, logger *log.Logger) *Procedure {
	return &Procedure{
		Cfg:    cfg,
		Exec:   exec,
		Prompt: prompt,
		Out:    out,
		Log:    logger,
		Clock:  application.SystemClock{},
	}
}

type gateFunc func(context.Context) domain.Result

func (p *Procedure) gates() []gateFunc {
	return []gateFunc{p.Validate, p.Install, p.Prepare, p.Test, p.Analyze, p.Advise}
}

// Run executes every gate in order. The returned error wraps the failing
// gate's error, so errors.Is works against the domain sentinels.
func (p *Procedure) Run(ctx context.Context) (domain.Summary, error) {
	sum := domain.Summary{StartedAt: p.Clock.Now()}
	p.printf("🚀 Product Hunt daily analysis: bootstrap\n")
	p.printf("%s\n", strings.Repeat("=", 50))

	for _, gate := range p.gates() {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("bootstrap interrupted: %w", err)
		}
		start := time.Now()
		res := gate(ctx)
		res.Duration = time.Since(start)
		sum.Results = append(sum.Results, res)

		entry := p.Log.WithField("gate", res.Gate).WithField("status", res.Status).WithField("duration", res.Duration)
		if res.Failed() {
			entry.WithField("diagnostic", res.Diagnostic).Error("gate failed")
			p.printf("❌ %s failed: %s\n", res.Gate, res.Diagnostic)
			sum.Duration = p.Clock.Now().Sub(sum.StartedAt)
			return sum, fmt.Errorf("%s gate: %w", res.Gate, res.Err)
		}
		entry.Info("gate finished")
	}

	sum.ReportPath = p.report
	sum.Advice = p.advice
	sum.Duration = p.Clock.Now().Sub(sum.StartedAt)
	p.printSummary(sum)
	return sum, nil
}

// Environment returns the toolchain resolved so far.
func (p *Procedure) Environment() domain.Environment { return p.env }

func (p *Procedure) printSummary(sum domain.Summary) {
	p.printf("\n%s\n", strings.Repeat("=", 50))
	p.printf("🎉 Bootstrap complete\n")
	for _, r := range sum.Results {
		p.printf("  %s %-9s %s\n", icon(r.Status), r.Gate, r.Duration.Round(time.Millisecond))
	}
	if sum.ReportPath != "" {
		p.printf("📄 Report: %s\n", sum.ReportPath)
	}
	p.printf("📝 Logs: %s\n", p.Cfg.LogFile)
}

func (p *Procedure) printf(format string, args ...any) {
	fmt.Fprintf(p.Out, format, args...)
}

func icon(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return "✅"
	case domain.StatusSkipped:
		return "⚠️"
	default:
		return "❌"
	}
}
