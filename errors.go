package finmemo

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidPayload  = errors.New("invalid payload")
	ErrPayloadTooLarge = errors.New("payload exceeds maximum size")
	ErrNilPayload      = errors.New("payload cannot be nil")

	// Body rendering errors.
	ErrBodyTemplate   = errors.New("body template rendering failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Cover and assembly errors.
	ErrCoverRender = errors.New("cover typesetting failed")
	ErrMerge       = errors.New("document merge failed")

	// Configuration errors.
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrUnknownEngine    = errors.New("unknown rendering engine")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrPoolClosed       = errors.New("generator pool closed")

	// ErrInternal reports a recovered panic.
	ErrInternal = errors.New("internal error")
)
