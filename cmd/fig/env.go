package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/publish"
)

// Uploader publishes a generated image and returns its URL.
type Uploader interface {
	Publish(ctx context.Context, localPath string) (string, error)
}

// Compile-time interface implementation check.
var _ Uploader = (*publish.Publisher)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, the renderer and the upload backend.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Renderer replaces headless Chrome when set.
	Renderer fig.Renderer

	// NewUploader builds the upload backend from resolved settings.
	NewUploader func(publish.Config) (Uploader, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewUploader: func(cfg publish.Config) (Uploader, error) {
			return publish.New(cfg)
		},
	}
}
