package docker

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	domain "github.com/bryanwahyu/ph-daily/internal/domain/bootstrap"
)

type recorder struct {
	missing bool
	got     []domain.Command
}

func (r *recorder) LookPath(name string) (string, error) {
	if r.missing {
		return "", domain.ErrMissingExecutable
	}
	return "/usr/bin/" + name, nil
}

func (r *recorder) Run(_ context.Context, c domain.Command) (domain.RunResult, error) {
	r.got = append(r.got, c)
	return domain.RunResult{ExitCode: 0}, nil
}

func TestRunWrapsCommand(t *testing.T) {
	dir := t.TempDir()
	host := &recorder{}
	r := NewRunner("python:3.12-slim", host)

	_, err := r.Run(context.Background(), domain.Command{
		Name:    "python3",
		Args:    []string{"test_system.py"},
		Dir:     dir,
		Timeout: time.Minute,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(host.got) != 1 {
		t.Fatalf("host ran %d commands", len(host.got))
	}
	c := host.got[0]
	if c.Name != "docker" || c.Timeout != time.Minute || c.Dir != dir {
		t.Errorf("unexpected host command: %+v", c)
	}
	want := "run --rm -v " + dir + ":" + dir + " -w " + dir + " python:3.12-slim python3 test_system.py"
	if got := strings.Join(c.Args, " "); got != want {
		t.Errorf("args = %q\nwant   %q", got, want)
	}
}

func TestRunResolvesRelativeDir(t *testing.T) {
	host := &recorder{}
	r := NewRunner("img", host)
	if _, err := r.Run(context.Background(), domain.Command{Name: "pip3"}); err != nil {
		t.Fatal(err)
	}
	wd, _ := filepath.Abs(".")
	if got := host.got[0].Args[3]; got != wd+":"+wd {
		t.Errorf("mount = %q, want %q", got, wd+":"+wd)
	}
}

func TestLookPathChecksDockerOnly(t *testing.T) {
	r := NewRunner("img", &recorder{})
	p, err := r.LookPath("python3")
	if err != nil || p != "python3" {
		t.Fatalf("LookPath = %q, %v", p, err)
	}

	r = NewRunner("img", &recorder{missing: true})
	if _, err := r.LookPath("python3"); !errors.Is(err, domain.ErrMissingExecutable) {
		t.Fatalf("err = %v, want ErrMissingExecutable", err)
	}
}
