package main

// Notes:
// - runDoctorCmd checks real system state; JSON tests assert structure and
//   the status/exit code contract, not which binaries are installed.
// - printDoctorResult is tested with hand-built results so every branch is
//   deterministic. fatih/color disables escapes when stdout is not a
//   terminal, as under go test.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - JSON structure and exit code
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	te := newTestEnv(map[string]string{"FINMEMO_CONTAINER": "1", "ROD_NO_SANDBOX": "1"})
	code := runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, te.stdout.String())
	}

	if result.Env.OS != runtime.GOOS || result.Env.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", result.Env.OS, result.Env.Arch, runtime.GOOS, runtime.GOARCH)
	}
	if !result.Env.Container || result.Env.ContainerHint != "FINMEMO_CONTAINER=1" {
		t.Errorf("container = %v (%q), want detected via FINMEMO_CONTAINER", result.Env.Container, result.Env.ContainerHint)
	}
	if result.Env.NoSandbox != "1" {
		t.Errorf("rod_no_sandbox = %q, want 1", result.Env.NoSandbox)
	}

	switch result.Status {
	case statusErrors:
		if code != ExitGeneral {
			t.Errorf("exit code = %d for errors status, want %d", code, ExitGeneral)
		}
	case statusReady, statusWarnings:
		if code != ExitSuccess {
			t.Errorf("exit code = %d for %s status, want %d", code, result.Status, ExitSuccess)
		}
	default:
		t.Errorf("unexpected status %q", result.Status)
	}
}

func TestRunDoctorCmd_MissingTectonic(t *testing.T) {
	t.Parallel()

	te := newTestEnv(map[string]string{"FINMEMO_TECTONIC_BIN": "finmemo-no-such-tectonic"})
	code := runDoctorCmd([]string{"--json"}, te.Environment)

	var result doctorResult
	if err := json.Unmarshal(te.stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if result.Tectonic.Found {
		t.Error("tectonic should not be found")
	}
	if result.Status != statusErrors || code != ExitGeneral {
		t.Errorf("status = %q, code = %d; want errors, %d", result.Status, code, ExitGeneral)
	}

	found := false
	for _, msg := range result.Errors {
		if strings.Contains(msg, "finmemo-no-such-tectonic") {
			found = true
		}
	}
	if !found {
		t.Errorf("errors should name the missing binary, got %v", result.Errors)
	}
}

func TestCheckEnvironment_SandboxWarning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantWarn bool
	}{
		{"CI without sandbox override", map[string]string{"CI": "true"}, true},
		{"CI with sandbox override", map[string]string{"CI": "true", "ROD_NO_SANDBOX": "1"}, false},
		{"container without override", map[string]string{"FINMEMO_CONTAINER": "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			getenv := mapGetenv(tt.vars)
			result := &doctorResult{Env: envInfo{NoSandbox: getenv("ROD_NO_SANDBOX")}}
			checkEnvironment(result, getenv)

			gotWarn := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "ROD_NO_SANDBOX") {
					gotWarn = true
				}
			}
			if gotWarn != tt.wantWarn {
				t.Errorf("sandbox warning = %v, want %v (warnings: %v)", gotWarn, tt.wantWarn, result.Warnings)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	noSandbox := false
	tests := []struct {
		name   string
		result *doctorResult
		want   []string
	}{
		{
			name: "ready",
			result: &doctorResult{
				Status:   statusReady,
				Chrome:   binaryInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 131", Sandbox: &noSandbox},
				Tectonic: binaryInfo{Found: true, Path: "/usr/bin/tectonic", Version: "Tectonic 0.15.0"},
				Env:      envInfo{OS: "linux", Arch: "amd64", Container: true, ContainerHint: "/.dockerenv"},
				System:   systemInfo{TempWritable: true},
			},
			want: []string{
				"Found at /usr/bin/chromium",
				"Version: Chromium 131",
				"Sandbox: disabled",
				"Found at /usr/bin/tectonic",
				"Platform: linux/amd64",
				"Container: detected (/.dockerenv)",
				"Temp directory: writable",
				"Status: Ready to generate",
			},
		},
		{
			name: "errors",
			result: &doctorResult{
				Status:   statusErrors,
				Env:      envInfo{OS: "darwin", Arch: "arm64"},
				Warnings: []string{"Could not get Chrome version"},
				Errors:   []string{"Tectonic not found"},
			},
			want: []string{
				"Not found",
				"Temp directory: not writable",
				"Warnings:",
				"Could not get Chrome version",
				"Errors:",
				"Tectonic not found",
				"Status: Not ready (see errors above)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printDoctorResult(&buf, tt.result)
			out := buf.String()

			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}
