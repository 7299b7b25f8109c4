package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/ph-daily/internal/application/bootstrap"
	"github.com/bryanwahyu/ph-daily/internal/config"
	domain "github.com/bryanwahyu/ph-daily/internal/domain/bootstrap"
	"github.com/bryanwahyu/ph-daily/internal/infra/executor/docker"
	"github.com/bryanwahyu/ph-daily/internal/infra/executor/process"
	"github.com/bryanwahyu/ph-daily/internal/infra/prompt"
	"github.com/bryanwahyu/ph-daily/internal/logging"
)

type bootstrapFlags struct {
	yes, noVenv, dryRun bool
	image               string
}

func (f bootstrapFlags) apply(b config.Bootstrap) config.Bootstrap {
	if f.yes {
		b.AssumeYes = true
	}
	if f.noVenv {
		b.Venv.Enabled = false
	}
	if f.image != "" {
		b.ContainerImage = f.image
	}
	return b
}

func bindBootstrapFlags(cmd *cobra.Command, f *bootstrapFlags) {
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "create the virtual environment without asking")
	cmd.Flags().BoolVar(&f.noVenv, "no-venv", false, "install into the current environment")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "print commands instead of running them")
	cmd.Flags().StringVar(&f.image, "container", "", "run gate commands inside this docker image")
}

func newBootstrapCmd(rf *rootFlags) *cobra.Command {
	var bf bootstrapFlags
	cmd := &cobra.Command{
		Use:   "phdaily",
		Short: "Bootstrap and run the Product Hunt daily analysis",
		Long: `Runs the bootstrap gates in order: validate the toolchain, install
dependencies, prepare output directories, run the self-test, run the analyzer
and preview its report, then print automation advice. The first failing gate
stops the run with a non-zero exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rf)
			if err != nil {
				return err
			}
			// The log file belongs to the analyzer; the bootstrap only names it.
			logger, closer, err := logging.New(logLevel(rf, cfg), "")
			if err != nil {
				return err
			}
			defer closer.Close()

			b := bf.apply(cfg.Bootstrap)
			out := cmd.OutOrStdout()
			runner := process.NewRunner(out, cmd.ErrOrStderr(), logger)
			runner.DryRun = bf.dryRun
			proc := bootstrap.New(b, newExecutor(b, runner, logger), newPrompter(cmd.InOrStdin(), out, logger), out, logger)
			_, err = proc.Run(cmd.Context())
			return err
		},
	}
	bindBootstrapFlags(cmd, &bf)
	return cmd
}

func newExecutor(b config.Bootstrap, runner *process.Runner, logger *log.Logger) domain.Executor {
	if b.ContainerImage == "" {
		return runner
	}
	logger.WithField("image", b.ContainerImage).Info("running gate commands in a container")
	return docker.NewRunner(b.ContainerImage, runner)
}

// newPrompter asks on the terminal when there is one; otherwise every
// question is answered no so unattended runs never block.
func newPrompter(in io.Reader, out io.Writer, logger *log.Logger) domain.Prompter {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return prompt.Terminal{In: in, Out: out}
	}
	logger.Debug("stdin is not a terminal, prompts answer no")
	return prompt.Static{Answer: false}
}

func loadConfig(rf *rootFlags) (*config.Config, error) {
	path := rf.configPath
	if path == "" {
		path = config.PathFromEnv()
	}
	return config.Load(path)
}

func logPath(cfg *config.Config) string {
	if cfg.Bootstrap.LogFile == "" {
		return ""
	}
	return filepath.Join(cfg.Bootstrap.WorkDir, cfg.Bootstrap.LogFile)
}

func logLevel(rf *rootFlags, cfg *config.Config) string {
	if rf.verbose {
		return "debug"
	}
	return cfg.Log.Level
}
