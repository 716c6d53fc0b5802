package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-logr/logr"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/config"
)

// app carries what the generating commands share once settings are resolved.
type app struct {
	env      *Environment
	cfg      *config.Config
	log      logr.Logger
	gen      *fig.Generator
	uploader Uploader
	quiet    bool

	mu sync.Mutex // serializes result lines from concurrent runs
}

// reportedError marks an error whose failure line was already printed.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// newApp resolves settings and builds the generator and uploader.
func newApp(flags *commonFlags, env *Environment) (*app, error) {
	cfg, err := loadSettings(flags, env)
	if err != nil {
		return nil, err
	}

	log := newLogger(flags, env)
	log.V(1).Info("Settings resolved",
		"templateDir", cfg.Template.Dir, "outputDir", cfg.Output.Dir,
		"timeout", cfg.Render.Timeout.String(), "upload", cfg.Upload.Enabled)

	gen, err := newGenerator(cfg, log, env)
	if err != nil {
		return nil, err
	}
	uploader, err := newUploader(cfg, env)
	if err != nil {
		return nil, err
	}

	return &app{
		env:      env,
		cfg:      cfg,
		log:      log,
		gen:      gen,
		uploader: uploader,
		quiet:    flags.quiet,
	}, nil
}

// finish reports one generated image: the success line on stdout, or the
// failure line on stderr. The detailed error has already been logged.
func (a *app) finish(ctx context.Context, req fig.Request, path string, err error) error {
	if err != nil {
		a.printf(a.env.Stderr, "Failed to create image for %q, check the logs above%s\n",
			req.Title, hintFor(err, req))
		return &reportedError{err: err}
	}

	if !a.quiet {
		a.printf(a.env.Stdout, "Created %s\n", path)
	}

	if a.uploader == nil {
		return nil
	}
	url, err := a.uploader.Publish(ctx, path)
	if err != nil {
		a.log.Error(err, "Upload failed", "path", path)
		a.printf(a.env.Stderr, "Failed to upload %s%s\n", path, hintFor(err, req))
		return &reportedError{err: err}
	}
	if !a.quiet {
		a.printf(a.env.Stdout, "Uploaded %s\n", url)
	}
	return nil
}

// printf writes one line without interleaving with other runs.
func (a *app) printf(w io.Writer, format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(w, format, args...)
}
