package typeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"github.com/alnah/go-finmemo/internal/process"
)

// RunResult is the outcome of a compiler process that ran to completion.
type RunResult struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

// Runner executes the compiler inside dir. A non-zero exit is reported in
// RunResult, not as an error; errors mean the process could not run or was
// cancelled.
type Runner interface {
	Run(ctx context.Context, dir, bin string, args []string) (RunResult, error)
}

// ExecRunner runs the compiler as a child process in its own process group.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, bin string, args []string) (RunResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, bin, args...) // #nosec G204 -- binary comes from trusted configuration
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	process.Isolate(cmd)

	err := cmd.Run()
	result := RunResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return result, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("%w: %w", ErrTypesetFailed, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("%w: %s", ErrTypesetterNotFound, bin)
	}
	return result, fmt.Errorf("%w: starting %s: %v", ErrTypesetFailed, bin, err)
}

// Compile-time interface check.
var _ Runner = ExecRunner{}
