package main

import (
	"context"
	"errors"

	finmemo "github.com/alnah/go-finmemo"
	"github.com/alnah/go-finmemo/internal/config"
	"github.com/alnah/go-finmemo/internal/hints"
	"github.com/alnah/go-finmemo/internal/typeset"
)

// hintFor returns an actionable suggestion for err, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, typeset.ErrTypesetterNotFound):
		return hints.ForTypesetterNotFound(typeset.DefaultBinary)
	case errors.Is(err, typeset.ErrTypesetFailed):
		return hints.ForTypesetFailed()
	case errors.Is(err, finmemo.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(nil)
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	case errors.Is(err, finmemo.ErrInvalidPayload):
		return hints.ForPayload()
	default:
		return ""
	}
}
