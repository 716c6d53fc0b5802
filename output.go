package fig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanhalley/fig/internal/fileutil"
)

// ResolveOutput derives where an image goes. An explicit path is split into
// its directory and base name (extension kept as given); one that ends in a
// separator or names an existing directory gets <slug>.jpg inside it.
// Otherwise the image is <slug>.jpg in defaultDir, or in the working directory
// when defaultDir is empty. The directory is made absolute and created if
// missing.
func ResolveOutput(slug, explicit, defaultDir string) (OutputTarget, error) {
	var target OutputTarget
	switch {
	case explicit != "" && isDirTarget(explicit):
		target = OutputTarget{Dir: explicit, Filename: slug + "." + DefaultOutputFormat}
	case explicit != "":
		target = OutputTarget{Dir: filepath.Dir(explicit), Filename: filepath.Base(explicit)}
	default:
		dir := defaultDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return OutputTarget{}, fmt.Errorf("%w: resolving working directory: %v", ErrWorkspaceIO, err)
			}
			dir = wd
		}
		target = OutputTarget{Dir: dir, Filename: slug + "." + DefaultOutputFormat}
	}

	abs, err := filepath.Abs(target.Dir)
	if err != nil {
		return OutputTarget{}, fmt.Errorf("%w: resolving output directory: %v", ErrWorkspaceIO, err)
	}
	target.Dir = abs

	if err := fileutil.EnsureDir(target.Dir); err != nil {
		return OutputTarget{}, fmt.Errorf("%w: creating output directory: %v", ErrWorkspaceIO, err)
	}
	return target, nil
}

// isDirTarget reports whether an explicit output names a directory.
func isDirTarget(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
