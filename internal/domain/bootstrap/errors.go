package bootstrap

import "errors"

var (
	// ErrMissingExecutable is a missing precondition: a required binary is not on PATH.
	ErrMissingExecutable = errors.New("executable not found")
	// ErrMissingFile means a collaborator file (manifest, entry point) is absent.
	ErrMissingFile = errors.New("required file not found")
	// ErrCommandFailed means a subprocess exited non-zero.
	ErrCommandFailed = errors.New("command failed")
)
