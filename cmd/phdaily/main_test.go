package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/ph-daily/internal/config"
	"github.com/bryanwahyu/ph-daily/internal/infra/executor/docker"
	"github.com/bryanwahyu/ph-daily/internal/infra/executor/process"
	"github.com/bryanwahyu/ph-daily/internal/logging"
)

func writeConfig(t *testing.T, dir string, bootstrapYAML ...string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	body := "bootstrap:\n  workDir: " + dir + "\n"
	for _, line := range bootstrapYAML {
		body += "  " + line + "\n"
	}
	body += "openai:\n  apiKey: \"\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAnalyzeOfflineThenReports(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := execute(t, "analyze", "--offline", "--no-ai", "--date", "2024-01-02", "-c", cfg)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	want := filepath.Join(dir, "reports", "product_hunt_analysis_2024-01-02.md")
	if !strings.Contains(out, want) {
		t.Errorf("analyze output %q does not name %s", out, want)
	}

	out, err = execute(t, "reports", "list", "-c", cfg)
	if err != nil {
		t.Fatalf("reports list: %v", err)
	}
	if !strings.Contains(out, "product_hunt_analysis_2024-01-02.md") || !strings.Contains(out, "NAME") {
		t.Errorf("reports list = %q", out)
	}

	out, err = execute(t, "reports", "latest", "-n", "3", "-c", cfg)
	if err != nil {
		t.Fatalf("reports latest: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[len(lines)-1] != "..." {
		t.Errorf("preview should end with the ellipsis marker: %q", out)
	}
}

func TestAnalyzeRejectsBadDate(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	if _, err := execute(t, "analyze", "--offline", "--date", "02/01/2024", "-c", cfg); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestReportsLatestWithoutReports(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())
	out, err := execute(t, "reports", "latest", "-c", cfg)
	if err != nil {
		t.Fatalf("reports latest: %v", err)
	}
	if !strings.Contains(out, "No reports yet") {
		t.Errorf("output = %q", out)
	}
}

func TestBootstrapFailureExitsOneWithoutWritingLog(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "runtime: no-such-runtime-xyz")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-c", cfg}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1\nstdout: %s", code, stdout.String())
	}
	if !strings.Contains(stderr.String(), "no-such-runtime-xyz") {
		t.Errorf("stderr should name the missing runtime: %q", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "product_hunt_analysis.log")); !os.IsNotExist(err) {
		t.Errorf("bootstrap must not write the analyzer log file (stat err = %v)", err)
	}
}

func TestBootstrapFlagsApply(t *testing.T) {
	var bf bootstrapFlags
	cmd := &cobra.Command{Use: "phdaily"}
	bindBootstrapFlags(cmd, &bf)
	if err := cmd.ParseFlags([]string{"--yes", "--no-venv", "--container", "python:3.12-slim", "--dry-run"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	b := bf.apply(config.Default().Bootstrap)
	if !b.AssumeYes || b.Venv.Enabled || b.ContainerImage != "python:3.12-slim" || !bf.dryRun {
		t.Errorf("flags not applied: %+v dryRun=%v", b, bf.dryRun)
	}

	runner := process.NewRunner(&bytes.Buffer{}, &bytes.Buffer{}, logging.Discard())
	if _, ok := newExecutor(b, runner, logging.Discard()).(*docker.Runner); !ok {
		t.Error("container image should select the docker executor")
	}
}

func TestBootstrapFlagsDefaultsKeepConfig(t *testing.T) {
	base := config.Default().Bootstrap
	base.ContainerImage = "from-config"

	b := bootstrapFlags{}.apply(base)
	if b.AssumeYes || !b.Venv.Enabled || b.ContainerImage != "from-config" {
		t.Errorf("unset flags changed config: %+v", b)
	}

	b.ContainerImage = ""
	runner := process.NewRunner(&bytes.Buffer{}, &bytes.Buffer{}, logging.Discard())
	if got := newExecutor(b, runner, logging.Discard()); got != runner {
		t.Errorf("executor = %T, want the process runner", got)
	}
}
