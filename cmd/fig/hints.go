package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/config"
	"github.com/evanhalley/fig/internal/hints"
	"github.com/evanhalley/fig/internal/publish"
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, req fig.Request) string {
	switch {
	case errors.Is(err, fig.ErrBrowserLaunch):
		return hints.ForBrowserConnect()
	case errors.Is(err, fig.ErrRenderFailure) && errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, fig.ErrResourceMissing):
		return hints.ForResourceMissing(missingPath(err, req))
	case errors.Is(err, fig.ErrWorkspaceIO) && req.Output != "":
		return hints.ForOutputDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(configSearchPaths())
	case errors.Is(err, publish.ErrMissingCredentials):
		return hints.ForUploadCredentials()
	}
	return ""
}

// missingPath returns the explicit resource named in err, or "" when the
// failing resource was a default.
func missingPath(err error, req fig.Request) string {
	msg := err.Error()
	for _, res := range []fig.Resource{req.Template, req.CSS, req.AuthorImage} {
		if !res.IsDefault() && strings.Contains(msg, res.Path()) {
			return res.Path()
		}
	}
	return ""
}

// configSearchPaths lists the user-level config locations.
func configSearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "fig", "config.yaml")}
}
