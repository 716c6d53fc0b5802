package fig

import (
	"errors"

	"github.com/evanhalley/fig/internal/browser"
)

// Sentinel errors for library operations.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrInvalidOption   = errors.New("invalid option")
	ErrResourceMissing = errors.New("resource missing")
	ErrWorkspaceIO     = errors.New("workspace I/O failed")
	ErrRenderFailure   = errors.New("render failed")
	ErrInternal        = errors.New("internal error")
	ErrPoolClosed      = errors.New("generator pool is closed")
)

// Render failure causes. They are always returned wrapped in ErrRenderFailure.
var (
	ErrBrowserLaunch = browser.ErrBrowserLaunch
	ErrPageLoad      = browser.ErrPageLoad
	ErrScreenshot    = browser.ErrScreenshot
	ErrWriteImage    = browser.ErrWriteImage
)

// StageError reports the pipeline stage a failed run stopped in.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage.String() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}
