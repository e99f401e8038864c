package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/alessio/shellescape"
	"go.uber.org/zap"
)

// NoExitCode is reported in Result.ExitCode when the process ended without
// one, for example after being killed by a signal.
const NoExitCode = -1

// Command is a single external process invocation. Arguments are passed to
// the executable directly and never interpreted by a shell.
type Command struct {
	Path string
	Args []string
}

// String renders the command shell-quoted, for logs and user messages.
func (c Command) String() string {
	return shellescape.QuoteCommand(append([]string{c.Path}, c.Args...))
}

// Name returns the executable's base name.
func (c Command) Name() string {
	return filepath.Base(c.Path)
}

// Result is the outcome of a process that was started successfully.
type Result struct {
	ExitCode int
}

// Success reports a zero exit code.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner runs external processes. The error return is reserved for processes
// that could not be started at all; a nonzero exit is reported in Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec. Streaming output goes to Stdout and
// Stderr, which default to the process' own.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Log    *zap.Logger
}

// NewExecRunner creates a runner writing child output to the terminal.
func NewExecRunner(log *zap.Logger) *ExecRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    log,
	}
}

// Run starts cmd and blocks until it exits or ctx is cancelled.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	r.Log.Debug("executing command", zap.String("cmd", cmd.String()))

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	err := c.Run()
	var res Result

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitCode = 0
	case errors.As(err, &exitErr):
		// ExitCode is -1 when the process was terminated by a signal
		res.ExitCode = exitErr.ExitCode()
	default:
		return res, fmt.Errorf("failed to execute %s: %w", cmd.Name(), err)
	}

	r.Log.Debug("command finished",
		zap.String("name", cmd.Name()),
		zap.Int("exit_code", res.ExitCode))
	return res, nil
}
