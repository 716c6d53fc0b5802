package assets

import (
	"embed"
	"fmt"
)

//go:embed bundle/*
var bundle embed.FS

// EmbeddedLoader loads resources from the bundle compiled into the binary.
// Implements Loader interface.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// Load returns an embedded resource by filename.
func (e *EmbeddedLoader) Load(name string) ([]byte, error) {
	if err := ValidateResourceName(name); err != nil {
		return nil, err
	}

	content, err := bundle.ReadFile("bundle/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrResourceNotFound, name)
	}
	return content, nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
