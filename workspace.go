package fig

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// workspacePrefix names run directories under the workspace root.
const workspacePrefix = "fig-"

// workspace is the private scratch directory of one run.
type workspace struct {
	id        string
	dir       string
	removeAll func(string) error

	once      sync.Once
	removeErr error
}

// newWorkspace creates <root>/fig-<uuid>. The root is created if missing.
func newWorkspace(root string) (*workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("%w: creating workspace root: %v", ErrWorkspaceIO, err)
	}

	id := uuid.NewString()
	dir := filepath.Join(root, workspacePrefix+id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating workspace: %v", ErrWorkspaceIO, err)
	}
	return &workspace{id: id, dir: dir, removeAll: os.RemoveAll}, nil
}

// Path returns name inside the workspace.
func (w *workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Remove deletes the workspace. Only the first call does any work.
func (w *workspace) Remove() error {
	w.once.Do(func() {
		if err := w.removeAll(w.dir); err != nil {
			w.removeErr = fmt.Errorf("%w: removing workspace: %v", ErrWorkspaceIO, err)
		}
	})
	return w.removeErr
}
