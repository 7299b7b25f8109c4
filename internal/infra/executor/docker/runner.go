package docker

import (
	"context"
	"fmt"
	"path/filepath"

	domain "github.com/bryanwahyu/ph-daily/internal/domain/bootstrap"
)

// Runner runs gate commands inside a throwaway container. The working
// directory is mounted at its host path, so absolute paths such as the
// virtualenv interpreter resolve the same on both sides.
type Runner struct {
	Image  string
	Binary string
	// Host starts the docker client itself, usually a process.Runner.
	Host domain.Executor
}

func NewRunner(image string, host domain.Executor) *Runner {
	return &Runner{Image: image, Binary: "docker", Host: host}
}

// LookPath only checks the docker client on the host. Tools inside the image
// are assumed present; a missing one fails the gate that runs it.
func (r *Runner) LookPath(name string) (string, error) {
	if _, err := r.Host.LookPath(r.Binary); err != nil {
		return "", err
	}
	return name, nil
}

func (r *Runner) Run(ctx context.Context, c domain.Command) (domain.RunResult, error) {
	args, err := r.args(c)
	if err != nil {
		return domain.RunResult{}, err
	}
	return r.Host.Run(ctx, domain.Command{
		Name:    r.Binary,
		Args:    args,
		Dir:     c.Dir,
		Timeout: c.Timeout,
	})
}

func (r *Runner) args(c domain.Command) ([]string, error) {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}
	args := []string{
		"run", "--rm",
		"-v", abs + ":" + abs,
		"-w", abs,
		r.Image,
		c.Name,
	}
	return append(args, c.Args...), nil
}
