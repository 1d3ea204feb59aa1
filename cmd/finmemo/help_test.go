package main

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args     []string
		wantCode int
		want     string
	}{
		{nil, ExitSuccess, "Run 'finmemo help <command>'"},
		{[]string{"serve"}, ExitSuccess, "--port <n>"},
		{[]string{"render"}, ExitSuccess, "--property-image"},
		{[]string{"doctor"}, ExitSuccess, "finmemo doctor [--json]"},
		{[]string{"version"}, ExitSuccess, "Show version information."},
		{[]string{"help"}, ExitSuccess, "finmemo help [command]"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(nil)
			if code := runHelp(tt.args, te.Environment); code != tt.wantCode {
				t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if !strings.Contains(te.stdout.String(), tt.want) {
				t.Errorf("stdout = %q, want it to contain %q", te.stdout.String(), tt.want)
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	te := newTestEnv(nil)
	if code := runHelp([]string{"convert"}, te.Environment); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(te.stderr.String(), "Unknown command: convert") {
		t.Errorf("stderr = %q", te.stderr.String())
	}
}
