package fig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/evanhalley/fig/internal/assets"
	"github.com/evanhalley/fig/internal/fileutil"
)

// Resource is either an explicit file or the packaged default.
// The zero value is the default.
type Resource struct {
	path string
}

// ExplicitResource selects the file at path. An empty path selects the default.
func ExplicitResource(path string) Resource {
	return Resource{path: path}
}

// DefaultResource selects the packaged default.
func DefaultResource() Resource {
	return Resource{}
}

// IsDefault reports whether r selects the packaged default.
func (r Resource) IsDefault() bool {
	return r.path == ""
}

// Path returns the explicit path, or "" for the default.
func (r Resource) Path() string {
	return r.path
}

// Resolve returns the path in effect: the explicit path, else defaultPath.
func (r Resource) Resolve(defaultPath string) string {
	if r.IsDefault() {
		return defaultPath
	}
	return r.path
}

func (r Resource) String() string {
	if r.IsDefault() {
		return "default"
	}
	return r.path
}

// ResourceKind identifies the three staged resources.
type ResourceKind int

// Resource kinds.
const (
	KindTemplate ResourceKind = iota
	KindCSS
	KindAuthorImage
)

// Filename is the canonical name the resource is staged under. The default
// template references the other two by these names.
func (k ResourceKind) Filename() string {
	switch k {
	case KindCSS:
		return assets.StyleFile
	case KindAuthorImage:
		return assets.AuthorImageFile
	default:
		return assets.TemplateFile
	}
}

func (k ResourceKind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindAuthorImage:
		return "author image"
	default:
		return "template"
	}
}

// stageResource copies the resource into the workspace under kind's canonical
// filename and returns the staged path.
func (g *Generator) stageResource(ws *workspace, kind ResourceKind, res Resource) (string, string, error) {
	dst := ws.Path(kind.Filename())

	if res.IsDefault() {
		content, origin, err := g.defaults.LoadWithOrigin(kind.Filename())
		if err != nil {
			return "", "", fmt.Errorf("%w: default %s: %v", ErrResourceMissing, kind, err)
		}
		if origin == assets.OriginEmbedded && g.defaults.HasCustomLoader() {
			g.log.V(1).Info("Bundle file missing, using embedded copy",
				"kind", kind.String(), "file", kind.Filename(), "bundleDir", g.cfg.templateDir)
		}
		if err := os.WriteFile(dst, content, fileutil.FilePermissions); err != nil {
			return "", "", fmt.Errorf("%w: staging %s: %v", ErrWorkspaceIO, kind, err)
		}
		return dst, origin, nil
	}

	src := res.Path()
	info, err := os.Stat(src)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s %s: %v", ErrResourceMissing, kind, src, err)
	}
	if !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("%w: %s %s is not a regular file", ErrResourceMissing, kind, src)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return "", "", fmt.Errorf("%w: staging %s: %v", ErrWorkspaceIO, kind, err)
	}

	origin, err := filepath.Abs(src)
	if err != nil {
		origin = src
	}
	return dst, origin, nil
}
