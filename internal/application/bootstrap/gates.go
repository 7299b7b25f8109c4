package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bryanwahyu/ph-daily/internal/application/advisory"
	domain "github.com/bryanwahyu/ph-daily/internal/domain/bootstrap"
	"github.com/bryanwahyu/ph-daily/internal/infra/reports"
)

// Validate checks that the runtime and its package manager are on PATH.
func (p *Procedure) Validate(ctx context.Context) domain.Result {
	p.printf("\n🔍 Checking environment...\n")
	for _, name := range []string{p.Cfg.Runtime, p.Cfg.PackageManager} {
		path, err := p.Exec.LookPath(name)
		if err != nil {
			if !errors.Is(err, domain.ErrMissingExecutable) {
				err = fmt.Errorf("%w: %s: %v", domain.ErrMissingExecutable, name, err)
			}
			return domain.Failure(domain.GateValidate, fmt.Errorf("%w (install %s and make sure it is on PATH)", err, name))
		}
		p.printf("✅ %s: %s\n", name, path)
	}
	p.env = domain.Environment{Runtime: p.Cfg.Runtime, PackageManager: p.Cfg.PackageManager}
	return domain.Success(domain.GateValidate)
}

// Install optionally creates an isolated environment, then installs the
// dependency manifest with the (possibly isolated) package manager.
func (p *Procedure) Install(ctx context.Context) domain.Result {
	p.printf("\n📦 Installing dependencies...\n")
	if p.env.Runtime == "" {
		p.env = domain.Environment{Runtime: p.Cfg.Runtime, PackageManager: p.Cfg.PackageManager}
	}

	manifest := filepath.Join(p.Cfg.WorkDir, p.Cfg.Manifest)
	if _, err := os.Stat(manifest); err != nil {
		return domain.Failure(domain.GateInstall, fmt.Errorf("%w: %s", domain.ErrMissingFile, p.Cfg.Manifest))
	}

	if p.Cfg.Venv.Enabled && p.confirmVenv() {
		if err := p.createVenv(ctx); err != nil {
			return domain.Failure(domain.GateInstall, err)
		}
	}

	if err := p.run(ctx, p.env.PackageManager, "install", "-r", p.Cfg.Manifest); err != nil {
		return domain.Failure(domain.GateInstall, err)
	}
	p.printf("✅ Dependencies installed\n")
	return domain.Success(domain.GateInstall)
}

func (p *Procedure) confirmVenv() bool {
	if p.Cfg.AssumeYes {
		return true
	}
	if p.Prompt == nil {
		return false
	}
	ok, err := p.Prompt.Confirm(fmt.Sprintf("Create a virtual environment in %s?", p.Cfg.Venv.Dir), false)
	if err != nil {
		p.Log.WithError(err).Warn("prompt failed, continuing without a virtual environment")
		return false
	}
	return ok
}

func (p *Procedure) createVenv(ctx context.Context) error {
	dir, err := filepath.Abs(filepath.Join(p.Cfg.WorkDir, p.Cfg.Venv.Dir))
	if err != nil {
		return err
	}
	p.printf("🐍 Creating virtual environment in %s\n", dir)
	if err := p.run(ctx, p.env.Runtime, "-m", "venv", dir); err != nil {
		return err
	}
	p.env = domain.Environment{
		Runtime:        filepath.Join(dir, "bin", "python"),
		PackageManager: filepath.Join(dir, "bin", "pip"),
		Isolated:       true,
	}
	return nil
}

// Prepare creates the output directories. Existing directories are fine.
func (p *Procedure) Prepare(ctx context.Context) domain.Result {
	p.printf("\n📁 Preparing directories...\n")
	for _, d := range p.Cfg.OutputDirs {
		if err := os.MkdirAll(filepath.Join(p.Cfg.WorkDir, d), 0o755); err != nil {
			return domain.Failure(domain.GatePrepare, fmt.Errorf("create %s: %w", d, err))
		}
	}
	p.printf("✅ Directories ready: %s\n", strings.Join(p.Cfg.OutputDirs, ", "))
	return domain.Success(domain.GatePrepare)
}

// Test runs the test suite entry point. Any non-zero exit fails the gate.
func (p *Procedure) Test(ctx context.Context) domain.Result {
	p.printf("\n🧪 Running system tests...\n")
	if err := p.runEntry(ctx, []string{p.Cfg.TestEntry}); err != nil {
		return domain.Failure(domain.GateTest, fmt.Errorf("system tests did not pass: %w", err))
	}
	p.printf("✅ System tests passed\n")
	return domain.Success(domain.GateTest)
}

// Analyze runs the analyzer once, then previews the newest report. A clean
// exit without a report skips the preview.
func (p *Procedure) Analyze(ctx context.Context) domain.Result {
	p.printf("\n📊 Running first analysis...\n")
	if err := p.runEntry(ctx, p.Cfg.AnalyzerEntry); err != nil {
		return domain.Failure(domain.GateAnalyze, fmt.Errorf("analysis failed: %w", err))
	}
	p.printf("✅ Analysis finished\n")

	dir := filepath.Join(p.Cfg.WorkDir, p.Cfg.ReportsDir)
	info, ok, err := reports.Newest(dir, p.Cfg.ReportPattern)
	if err != nil {
		p.Log.WithError(err).Warn("could not list reports")
		return domain.Skipped(domain.GateAnalyze, err.Error())
	}
	if !ok {
		// The analyzer exited 0 without leaving a report behind.
		p.Log.WithField("dir", dir).WithField("pattern", p.Cfg.ReportPattern).
			Warn("analyzer succeeded but no report was found, skipping preview")
		return domain.Skipped(domain.GateAnalyze, "no report found")
	}

	lines, err := reports.Preview(info.Path, p.Cfg.PreviewLines)
	if err != nil {
		p.Log.WithError(err).WithField("report", info.Path).Warn("could not read report")
		return domain.Skipped(domain.GateAnalyze, err.Error())
	}
	p.report = info.Path
	p.printf("📄 Latest report: %s\n", info.Path)
	p.printf("%s\n", strings.Repeat("-", 50))
	for _, l := range lines {
		p.printf("%s\n", l)
	}
	p.printf("%s\n", reports.EllipsisMarker)
	return domain.Success(domain.GateAnalyze)
}

// Advise prints repository setup guidance. It cannot fail.
func (p *Procedure) Advise(ctx context.Context) domain.Result {
	a := advisory.Inspect(p.Cfg.WorkDir, p.Cfg.CIWorkflowPath, p.Cfg.LogFile)
	p.advice = a.Title
	p.printf("\n🔧 %s", a.String())
	return domain.Success(domain.GateAdvise)
}

// runEntry runs a collaborator entry point. Script entries (*.py) are run with
// the resolved runtime; anything else is executed directly.
func (p *Procedure) runEntry(ctx context.Context, entry []string) error {
	if len(entry) == 0 || entry[0] == "" {
		return fmt.Errorf("%w: empty entry point", domain.ErrMissingFile)
	}
	if !isScript(entry[0]) {
		return p.run(ctx, entry[0], entry[1:]...)
	}
	if _, err := os.Stat(filepath.Join(p.Cfg.WorkDir, entry[0])); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMissingFile, entry[0])
	}
	runtime := p.env.Runtime
	if runtime == "" {
		runtime = p.Cfg.Runtime
	}
	return p.run(ctx, runtime, entry...)
}

func (p *Procedure) run(ctx context.Context, name string, args ...string) error {
	res, err := p.Exec.Run(ctx, domain.Command{
		Name:    name,
		Args:    args,
		Dir:     p.Cfg.WorkDir,
		Timeout: p.Cfg.StepTimeout,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCommandFailed, name, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: %s %s exited with code %d", domain.ErrCommandFailed, name, strings.Join(args, " "), res.ExitCode)
	}
	return nil
}

func isScript(name string) bool {
	return strings.HasSuffix(name, ".py")
}
