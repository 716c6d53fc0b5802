package fig

import (
	"context"

	"github.com/evanhalley/fig/internal/browser"
)

// Renderer rasterizes a local HTML file into an image file at the given
// viewport. Implementations must release any browser they start before
// returning, and must be safe for concurrent use.
type Renderer interface {
	Render(ctx context.Context, htmlPath, outputPath string, vp Viewport) error
}

// newBrowserRenderer returns the headless Chrome renderer.
func newBrowserRenderer(cfg generatorConfig) Renderer {
	return browser.New(browser.Options{
		BrowserBin:  cfg.browserBin,
		NoSandbox:   cfg.noSandbox,
		JPEGQuality: cfg.jpegQuality,
	})
}

// Compile-time interface check.
var _ Renderer = (*browser.Renderer)(nil)
