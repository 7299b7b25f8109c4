package bootstrap

import "time"

// Command describes one subprocess invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Timeout time.Duration // 0 = no deadline
}

// RunResult from Executor
type RunResult struct {
	ExitCode   int
	DurationMS int64
}

// Environment is the resolved runtime toolchain. Creating an isolated
// environment swaps these paths instead of touching process env vars.
type Environment struct {
	Runtime        string
	PackageManager string
	Isolated       bool
}
