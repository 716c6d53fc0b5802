package main

import (
	"errors"
	"os"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/assets"
	"github.com/evanhalley/fig/internal/config"
	"github.com/evanhalley/fig/internal/dateutil"
	"github.com/evanhalley/fig/internal/metadata"
	"github.com/evanhalley/fig/internal/publish"
)

// Exit codes for the fig CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Image generated
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or metadata
	ExitIO      = 3 // Resource, workspace or output errors
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, fig.ErrBrowserLaunch) ||
		errors.Is(err, fig.ErrPageLoad) ||
		errors.Is(err, fig.ErrScreenshot) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, fig.ErrResourceMissing) ||
		errors.Is(err, fig.ErrWorkspaceIO) ||
		errors.Is(err, fig.ErrWriteImage) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/metadata errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, metadata.ErrMetadataInvalid) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, fig.ErrInvalidRequest) ||
		errors.Is(err, fig.ErrInvalidOption) ||
		errors.Is(err, publish.ErrMissingCredentials) ||
		errors.Is(err, publish.ErrInvalidTarget) {
		return ExitUsage
	}

	return ExitGeneral
}
