package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/goccy/go-json"

	"github.com/alnah/go-finmemo/internal/hints"
	"github.com/alnah/go-finmemo/internal/typeset"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// versionProbeTimeout bounds each "--version" call.
const versionProbeTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   binaryInfo `json:"chrome"`
	Tectonic binaryInfo `json:"tectonic"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// binaryInfo holds detection results for an external program.
type binaryInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox *bool  `json:"sandbox,omitempty"` // Chrome only
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
	TectonicBin   string `json:"finmemo_tectonic_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env.Getenv)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:          runtime.GOOS,
			Arch:        runtime.GOARCH,
			NoSandbox:   getenv("ROD_NO_SANDBOX"),
			BrowserBin:  getenv("ROD_BROWSER_BIN"),
			TectonicBin: getenv("FINMEMO_TECTONIC_BIN"),
		},
	}

	checkChrome(result)
	checkTectonic(result)
	checkEnvironment(result, getenv)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkChrome detects Chrome/Chromium the way the rod engine does.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath
	if v, err := binaryVersion(chromePath); err == nil {
		result.Chrome.Version = v
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	sandbox := result.Env.NoSandbox != "1"
	result.Chrome.Sandbox = &sandbox
}

// checkTectonic looks up the cover compiler on PATH.
func checkTectonic(result *doctorResult) {
	bin := result.Env.TectonicBin
	if bin == "" {
		bin = typeset.DefaultBinary
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Tectonic not found (%s): %s", bin,
				strings.TrimPrefix(hints.ForTypesetterNotFound(bin), "\n  hint: ")))
		return
	}

	result.Tectonic.Found = true
	result.Tectonic.Path = path
	if v, err := binaryVersion(path); err == nil {
		result.Tectonic.Version = v
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Tectonic version: %v", err))
	}
}

func binaryVersion(bin string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), versionProbeTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, bin, "--version").Output() // #nosec G204 -- binary found on PATH or set by the operator
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI", "RENDER"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("FINMEMO_CONTAINER") == "1" {
		return true, "FINMEMO_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for workspaces is writable.
func checkSystem(result *doctorResult) {
	dir, err := os.MkdirTemp("", "finmemo-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, "write-check"), []byte("ok"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	ok := color.New(color.FgGreen).Sprint("[OK]")
	warn := color.New(color.FgYellow).Sprint("[WARN]")
	fail := color.New(color.FgRed, color.Bold).Sprint("[ERROR]")
	heading := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(w, heading("finmemo doctor"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, heading("Chrome/Chromium"))
	if r.Chrome.Found {
		fmt.Fprintf(w, "  %s Found at %s\n", ok, r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  %s Version: %s\n", ok, r.Chrome.Version)
		}
		if r.Chrome.Sandbox != nil && !*r.Chrome.Sandbox {
			fmt.Fprintf(w, "  %s Sandbox: disabled (ROD_NO_SANDBOX=1)\n", ok)
		} else {
			fmt.Fprintf(w, "  %s Sandbox: enabled\n", ok)
		}
	} else {
		fmt.Fprintf(w, "  %s Not found\n", fail)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, heading("Tectonic"))
	if r.Tectonic.Found {
		fmt.Fprintf(w, "  %s Found at %s\n", ok, r.Tectonic.Path)
		if r.Tectonic.Version != "" {
			fmt.Fprintf(w, "  %s Version: %s\n", ok, r.Tectonic.Version)
		}
	} else {
		fmt.Fprintf(w, "  %s Not found\n", fail)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, heading("Environment"))
	fmt.Fprintf(w, "  %s Platform: %s/%s\n", ok, r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  %s Container: detected (%s)\n", ok, r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintf(w, "  %s CI: detected\n", ok)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, heading("System"))
	if r.System.TempWritable {
		fmt.Fprintf(w, "  %s Temp directory: writable\n", ok)
	} else {
		fmt.Fprintf(w, "  %s Temp directory: not writable\n", fail)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, heading("Warnings:"))
		for _, msg := range r.Warnings {
			fmt.Fprintf(w, "  %s %s\n", warn, msg)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, heading("Errors:"))
		for _, msg := range r.Errors {
			fmt.Fprintf(w, "  %s %s\n", fail, msg)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to generate")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
