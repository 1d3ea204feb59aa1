package main

import (
	"errors"
	"os"

	finmemo "github.com/alnah/go-finmemo"
	"github.com/alnah/go-finmemo/internal/config"
	"github.com/alnah/go-finmemo/internal/typeset"
)

// Exit codes for the finmemo CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful run
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or payload
	ExitIO         = 3 // File not found, permission denied
	ExitBrowser    = 4 // Browser/Chrome errors
	ExitTypesetter = 5 // Tectonic missing or failing
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Cover compiler errors (exit 5)
	if errors.Is(err, finmemo.ErrCoverRender) ||
		errors.Is(err, typeset.ErrTypesetterNotFound) ||
		errors.Is(err, typeset.ErrTypesetFailed) {
		return ExitTypesetter
	}

	// Browser errors (exit 4)
	if errors.Is(err, finmemo.ErrBrowserConnect) ||
		errors.Is(err, finmemo.ErrPageCreate) ||
		errors.Is(err, finmemo.ErrPageLoad) ||
		errors.Is(err, finmemo.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, finmemo.ErrInvalidPayload) ||
		errors.Is(err, finmemo.ErrPayloadTooLarge) ||
		errors.Is(err, finmemo.ErrInvalidPageSize) ||
		errors.Is(err, finmemo.ErrUnknownEngine) ||
		errors.Is(err, finmemo.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadUpload) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
