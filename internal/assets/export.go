package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanhalley/fig/internal/fileutil"
)

// WriteBundle copies the embedded bundle into dir, creating it if needed.
// Existing files are left untouched unless force is set. Returns the paths
// that were written.
func WriteBundle(dir string, force bool) ([]string, error) {
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}

	embedded := NewEmbeddedLoader()
	var written []string
	for _, name := range BundleFiles {
		dst := filepath.Join(dir, name)
		if !force && fileutil.FileExists(dst) {
			continue
		}

		content, err := embedded.Load(name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, content, fileutil.FilePermissions); err != nil {
			return written, fmt.Errorf("writing %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
