package assets

import (
	"errors"
	"os"
	"path/filepath"
)

// Resolver combines the user's bundle directory with the embedded bundle.
// A resource present in the user's directory wins; a missing one falls back
// to the embedded copy.
type Resolver struct {
	custom   Loader // nil when the bundle directory does not exist
	embedded Loader
}

// NewResolver creates a Resolver for the given bundle directory.
// An empty or nonexistent directory means embedded resources only. A path
// that exists but cannot serve as a bundle returns ErrInvalidBasePath.
func NewResolver(bundleDir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if bundleDir == "" {
		return r, nil
	}

	if _, err := os.Stat(bundleDir); errors.Is(err, os.ErrNotExist) {
		return r, nil
	}

	fsLoader, err := NewFilesystemLoader(bundleDir)
	if err != nil {
		return nil, err
	}
	r.custom = fsLoader
	return r, nil
}

// Load returns a resource, trying the bundle directory first.
func (r *Resolver) Load(name string) ([]byte, error) {
	content, _, err := r.LoadWithOrigin(name)
	return content, err
}

// LoadWithOrigin is Load that also reports where the content came from:
// the bundle file path, or "embedded".
func (r *Resolver) LoadWithOrigin(name string) ([]byte, string, error) {
	if r.custom == nil {
		content, err := r.embedded.Load(name)
		return content, OriginEmbedded, err
	}

	content, err := r.custom.Load(name)
	if err == nil {
		origin := name
		if fsl, ok := r.custom.(*FilesystemLoader); ok {
			origin = filepath.Join(fsl.BasePath(), name)
		}
		return content, origin, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors.
	if !errors.Is(err, ErrResourceNotFound) {
		return nil, "", err
	}

	content, err = r.embedded.Load(name)
	return content, OriginEmbedded, err
}

// HasCustomLoader returns true if the bundle directory exists and is used.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ Loader = (*Resolver)(nil)
