package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	domain "github.com/bryanwahyu/ph-daily/internal/domain/bootstrap"
)

// ExitTimeout is reported when a command is killed by its deadline.
const ExitTimeout = 124

// Runner runs gate commands as child processes, streaming their output.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *log.Logger
	// DryRun prints "+ cmd args" and reports success without running anything.
	DryRun bool
}

func NewRunner(stdout, stderr io.Writer, logger *log.Logger) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Runner{Stdout: stdout, Stderr: stderr, Log: logger}
}

func (r *Runner) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrMissingExecutable, name)
	}
	return p, nil
}

// Run executes cmd and returns its exit code. A non-zero exit is not an error
// here; err is reserved for commands that could not be started at all.
func (r *Runner) Run(ctx context.Context, c domain.Command) (domain.RunResult, error) {
	line := strings.Join(append([]string{c.Name}, c.Args...), " ")
	if r.DryRun {
		fmt.Fprintf(r.Stdout, "+ %s\n", line)
		return domain.RunResult{}, nil
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.WaitDelay = 2 * time.Second
	r.Log.WithField("cmd", line).Debug("running command")

	err := cmd.Run()
	res := domain.RunResult{DurationMS: time.Since(start).Milliseconds()}
	if err == nil {
		return res, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.ExitCode = ExitTimeout
		return res, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		res.ExitCode = ee.ExitCode()
		if res.ExitCode < 0 {
			// killed by signal, e.g. parent context cancelled
			res.ExitCode = 1
		}
		return res, nil
	}
	return res, fmt.Errorf("run %s: %w", c.Name, err)
}
