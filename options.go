package fig

import (
	"time"

	"github.com/go-logr/logr"
)

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	timeout      time.Duration
	templateDir  string
	outputDir    string
	workspaceDir string
	dateFormat   string
	browserBin   string
	noSandbox    bool
	jpegQuality  int
}

// Defaults used when no option overrides them.
const (
	defaultTimeout     = 30 * time.Second
	defaultTemplateDir = "~/.fig/template"
	defaultDateFormat  = "MMM Do"
)

// WithTimeout bounds each render call. Staging and composing are not bounded.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("fig: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithLogger sets the logger. Debug detail is logged at V(1).
func WithLogger(logger logr.Logger) Option {
	return func(g *Generator) {
		g.log = logger
	}
}

// WithTemplateDir sets the default bundle directory ("~" is expanded).
// Files missing from it fall back to the embedded bundle.
func WithTemplateDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.templateDir = dir
	}
}

// WithOutputDir sets where images without an explicit output path are written.
// Empty means the working directory at generation time.
func WithOutputDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.outputDir = dir
	}
}

// WithWorkspaceDir sets the parent of per-run workspaces (default: os.TempDir()).
func WithWorkspaceDir(dir string) Option {
	return func(g *Generator) {
		g.cfg.workspaceDir = dir
	}
}

// WithDateFormat sets the [[DATE]] format, e.g. "MMMM D, YYYY" (default "MMM Do").
func WithDateFormat(format string) Option {
	return func(g *Generator) {
		g.cfg.dateFormat = format
	}
}

// WithRenderer replaces the headless Chrome renderer.
// Panics if r is nil.
func WithRenderer(r Renderer) Option {
	if r == nil {
		panic("fig: WithRenderer renderer must not be nil")
	}
	return func(g *Generator) {
		g.renderer = r
	}
}

// WithBrowserBin sets the Chrome executable used by the default renderer.
func WithBrowserBin(path string) Option {
	return func(g *Generator) {
		g.cfg.browserBin = path
	}
}

// WithNoSandbox disables Chrome's sandbox in the default renderer.
func WithNoSandbox(noSandbox bool) Option {
	return func(g *Generator) {
		g.cfg.noSandbox = noSandbox
	}
}

// WithJPEGQuality sets the 1-100 JPEG quality of the default renderer.
func WithJPEGQuality(quality int) Option {
	return func(g *Generator) {
		g.cfg.jpegQuality = quality
	}
}

// WithClock sets the time source used to resolve "auto" dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}
