package bootstrap

import "context"

// Executor port (subprocess execution)
type Executor interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, cmd Command) (RunResult, error)
}

// Prompter asks the operator a yes/no question.
type Prompter interface {
	Confirm(question string, defaultYes bool) (bool, error)
}
