// Package browser rasterizes local HTML files with headless Chrome via rod.
//
// Every Render call launches its own browser and releases it before
// returning, so concurrent calls never share a browser or a page.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/evanhalley/fig/internal/fileutil"
	"github.com/evanhalley/fig/internal/process"
)

// Sentinel errors for render operations.
var (
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrPageLoad      = errors.New("failed to load page")
	ErrScreenshot    = errors.New("failed to capture screenshot")
	ErrWriteImage    = errors.New("failed to write image")
)

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 90

// Viewport is the logical page size a document is captured at.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

// Options configures the browser launch.
type Options struct {
	// BrowserBin is the Chrome executable. Empty falls back to ROD_BROWSER_BIN,
	// then to rod's lookup (and download) logic.
	BrowserBin string
	// NoSandbox disables Chrome's sandbox, required in most containers.
	// Also enabled by ROD_NO_SANDBOX=1 or CI=true.
	NoSandbox bool
	// JPEGQuality is the 1-100 quality for JPEG output.
	JPEGQuality int
}

// Renderer captures HTML files as images.
type Renderer struct {
	opts Options
}

// New creates a Renderer. No browser is started until Render is called.
func New(opts Options) *Renderer {
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	return &Renderer{opts: opts}
}

// Render loads htmlPath in a fresh headless browser sized to vp, captures the
// viewport and writes the image to outputPath. The image format follows the
// output extension (see FormatFor). The browser is released on every return.
func (r *Renderer) Render(ctx context.Context, htmlPath, outputPath string, vp Viewport) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	l := r.newLauncher().Context(ctx)
	var (
		launched bool
		b        *rod.Browser
	)
	defer func() { release(b, l, launched) }()

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	launched = true

	b = rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		b = nil
		return fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	data, err := capture(b, htmlPath, vp, r.screenshotRequest(outputPath))
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteImage, err)
	}
	return nil
}

// capture opens the file in a new page and screenshots the viewport.
func capture(b *rod.Browser, htmlPath string, vp Viewport, req *proto.PageCaptureScreenshot) ([]byte, error) {
	fileURL, err := FileURL(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = page.Close() }()

	// Size the viewport before navigation so the first layout is final.
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: vp.Scale,
	}); err != nil {
		return nil, fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}

	if err := page.Navigate(fileURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	data, err := page.Screenshot(false, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return data, nil
}

// release closes the browser and kills its process tree. Each step is
// skipped when the matching handle was never acquired.
func release(b *rod.Browser, l *launcher.Launcher, launched bool) {
	if b != nil {
		_ = b.Close()
	}
	pid := l.PID()
	if pid > 0 {
		process.KillProcessGroup(pid)
		l.Kill()
	}
	// Cleanup waits for the process to exit; only safe after a launch.
	if launched {
		l.Cleanup()
	}
}

func (r *Renderer) newLauncher() *launcher.Launcher {
	l := launcher.New().Headless(true)

	bin := r.opts.BrowserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	if r.opts.NoSandbox || os.Getenv("ROD_NO_SANDBOX") == "1" || os.Getenv("CI") == "true" {
		l = l.NoSandbox(true)
	}
	return l
}

func (r *Renderer) screenshotRequest(outputPath string) *proto.PageCaptureScreenshot {
	format := FormatFor(outputPath)
	req := &proto.PageCaptureScreenshot{Format: format}
	if format != proto.PageCaptureScreenshotFormatPng {
		quality := r.opts.JPEGQuality
		req.Quality = &quality
	}
	return req
}

// FormatFor picks the screenshot encoding from the output extension:
// .png is PNG, .webp is WebP, anything else is JPEG.
func FormatFor(outputPath string) proto.PageCaptureScreenshotFormat {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".png":
		return proto.PageCaptureScreenshotFormatPng
	case ".webp":
		return proto.PageCaptureScreenshotFormatWebp
	default:
		return proto.PageCaptureScreenshotFormatJpeg
	}
}

// FileURL converts a filesystem path to an absolute file:// URL.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed // C:/x on Windows
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return u.String(), nil
}
