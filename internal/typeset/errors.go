package typeset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for cover typesetting.
var (
	ErrTypesetFailed      = errors.New("cover typesetting failed")
	ErrTypesetterNotFound = errors.New("typesetter binary not found")
	ErrWorkspace          = errors.New("cover workspace setup failed")
)

// CompileError reports a compiler run that exited non-zero. It carries the
// captured output so operators can diagnose the failure.
type CompileError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CompileError) Error() string {
	msg := fmt.Sprintf("typesetter exited with status %d", e.ExitCode)
	if line := lastLine(e.Stderr); line != "" {
		msg += ": " + line
	} else if line := lastLine(e.Stdout); line != "" {
		msg += ": " + line
	}
	return msg
}

// Unwrap lets errors.Is match ErrTypesetFailed.
func (e *CompileError) Unwrap() error { return ErrTypesetFailed }

// Diagnostics returns the full captured compiler output.
func (e *CompileError) Diagnostics() string {
	var b strings.Builder
	if s := strings.TrimSpace(e.Stdout); s != "" {
		b.WriteString("stdout:\n")
		b.WriteString(s)
		b.WriteString("\n")
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		b.WriteString("stderr:\n")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(s)
}
