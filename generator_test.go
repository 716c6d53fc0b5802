package fig

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// renderCall captures what the renderer saw, including the workspace contents
// at render time.
type renderCall struct {
	htmlPath   string
	outputPath string
	viewport   Viewport
	html       string
	staged     map[string]string
}

// mockRenderer writes a fake image instead of starting a browser.
type mockRenderer struct {
	err      error
	panicMsg string
	delay    time.Duration

	mu        sync.Mutex
	calls     []renderCall
	active    int
	maxActive int
}

func (m *mockRenderer) Render(ctx context.Context, htmlPath, outputPath string, vp Viewport) error {
	m.mu.Lock()
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	call := renderCall{htmlPath: htmlPath, outputPath: outputPath, viewport: vp, staged: map[string]string{}}
	if content, err := os.ReadFile(htmlPath); err == nil {
		call.html = string(content)
	}
	entries, _ := os.ReadDir(filepath.Dir(htmlPath))
	for _, e := range entries {
		e := e
		content, _ := os.ReadFile(filepath.Join(filepath.Dir(htmlPath), e.Name()))
		call.staged[e.Name()] = string(content)
	}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(outputPath, []byte("fake image"), 0o644)
}

func (m *mockRenderer) Calls() []renderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]renderCall(nil), m.calls...)
}

// testDirs are the isolated directories a test generator works in.
type testDirs struct {
	templates string
	output    string
	workspace string
}

// newTestGenerator returns a Generator that uses the embedded bundle and
// writes only inside per-test temporary directories.
func newTestGenerator(t *testing.T, r Renderer, opts ...Option) *Generator {
	t.Helper()
	g, _ := newTestGeneratorDirs(t, r, opts...)
	return g
}

func newTestGeneratorDirs(t *testing.T, r Renderer, opts ...Option) (*Generator, testDirs) {
	t.Helper()

	dirs := testDirs{
		templates: filepath.Join(t.TempDir(), "missing-bundle"),
		output:    t.TempDir(),
		workspace: t.TempDir(),
	}
	base := []Option{
		WithRenderer(r),
		WithTemplateDir(dirs.templates),
		WithOutputDir(dirs.output),
		WithWorkspaceDir(dirs.workspace),
	}
	g, err := NewGenerator(append(base, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g, dirs
}

func validRequest() Request {
	return Request{Title: "My First Post", Date: "2024-01-02", Author: "Evan"}
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func assertWorkspaceClean(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("reading workspace root: %v", err)
	}
	for _, e := range entries {
		e := e
		t.Errorf("workspace left behind: %s", e.Name())
	}
}

func assertStage(t *testing.T, err error, want State) {
	t.Helper()
	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("error %v is not a *StageError", err)
	}
	if stageErr.Stage != want {
		t.Errorf("stage = %s, want %s", stageErr.Stage, want)
	}
}

// ---------------------------------------------------------------------------
// TestNewGenerator - Construction and option validation
// ---------------------------------------------------------------------------

func TestNewGenerator(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		g := newTestGenerator(t, &mockRenderer{})
		if g.cfg.timeout != defaultTimeout {
			t.Errorf("timeout = %v, want %v", g.cfg.timeout, defaultTimeout)
		}
		if g.cfg.dateFormat != defaultDateFormat {
			t.Errorf("dateFormat = %q, want %q", g.cfg.dateFormat, defaultDateFormat)
		}
		if g.defaults.HasCustomLoader() {
			t.Error("missing template dir should use the embedded bundle only")
		}
	})

	t.Run("invalid date format", func(t *testing.T) {
		t.Parallel()

		_, err := NewGenerator(WithRenderer(&mockRenderer{}), WithDateFormat("[MMM"))
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("error = %v, want ErrInvalidOption", err)
		}
	})

	t.Run("template dir is a file", func(t *testing.T) {
		t.Parallel()

		file := writeFile(t, filepath.Join(t.TempDir(), "not-a-dir"), "x")
		_, err := NewGenerator(WithRenderer(&mockRenderer{}), WithTemplateDir(file))
		if !errors.Is(err, ErrInvalidOption) {
			t.Errorf("error = %v, want ErrInvalidOption", err)
		}
	})

	t.Run("existing template dir", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		g, err := NewGenerator(WithRenderer(&mockRenderer{}), WithTemplateDir(dir))
		if err != nil {
			t.Fatalf("NewGenerator() error = %v", err)
		}
		if !g.defaults.HasCustomLoader() {
			t.Error("existing template dir should be used")
		}
	})
}

func TestOptions_Panics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		fn   func()
	}{
		{"WithTimeout zero", func() { WithTimeout(0) }},
		{"WithTimeout negative", func() { WithTimeout(-time.Second) }},
		{"WithRenderer nil", func() { WithRenderer(nil) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

// ---------------------------------------------------------------------------
// TestGenerateImage - Successful runs
// ---------------------------------------------------------------------------

func TestGenerateImage_Defaults(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	g, dirs := newTestGeneratorDirs(t, r)

	path, err := g.GenerateImage(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	want := filepath.Join(dirs.output, "my_first_post.jpg")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("path %q is not absolute", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("image not written: %v", err)
	}

	calls := r.Calls()
	if len(calls) != 1 {
		t.Fatalf("renderer calls = %d, want 1", len(calls))
	}
	call := calls[0]
	if call.viewport != DefaultViewport {
		t.Errorf("viewport = %+v, want %+v", call.viewport, DefaultViewport)
	}
	if filepath.Base(call.htmlPath) != "my_first_post.html" {
		t.Errorf("html file = %q, want my_first_post.html", filepath.Base(call.htmlPath))
	}
	for _, name := range []string{"template.html", "style.css", "author.jpg", "my_first_post.html"} {
		if _, ok := call.staged[name]; !ok {
			t.Errorf("%s not staged next to the document", name)
		}
	}
	for _, want := range []string{"My First Post", "Evan", "Jan 2nd"} {
		if !strings.Contains(call.html, want) {
			t.Errorf("composed document missing %q", want)
		}
	}
	for _, token := range []string{TitleToken, AuthorToken, DateToken} {
		if strings.Contains(call.html, token) {
			t.Errorf("composed document still contains %s", token)
		}
	}

	assertWorkspaceClean(t, dirs.workspace)
}

func TestGenerateImage_ExplicitResources(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	tmpl := writeFile(t, filepath.Join(src, "card.html"), "<p>[[TITLE]]|[[AUTHOR]]|[[DATE]]</p>")
	css := writeFile(t, filepath.Join(src, "theme.css"), "body { color: red; }")
	img := writeFile(t, filepath.Join(src, "me.png"), "portrait")

	r := &mockRenderer{}
	g, dirs := newTestGeneratorDirs(t, r)

	req := validRequest()
	req.Template = ExplicitResource(tmpl)
	req.CSS = ExplicitResource(css)
	req.AuthorImage = ExplicitResource(img)

	if _, err := g.GenerateImage(context.Background(), req); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	call := r.Calls()[0]
	if call.html != "<p>My First Post|Evan|Jan 2nd</p>" {
		t.Errorf("html = %q", call.html)
	}
	if call.staged["style.css"] != "body { color: red; }" {
		t.Errorf("style.css = %q", call.staged["style.css"])
	}
	if call.staged["author.jpg"] != "portrait" {
		t.Errorf("author.jpg = %q", call.staged["author.jpg"])
	}

	// Sources are never modified.
	if got, _ := os.ReadFile(tmpl); string(got) != "<p>[[TITLE]]|[[AUTHOR]]|[[DATE]]</p>" {
		t.Errorf("template source modified: %q", got)
	}
	assertWorkspaceClean(t, dirs.workspace)
}

func TestGenerateImage_TemplateRelativeAssets(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	tmpl := writeFile(t, filepath.Join(src, "card.html"),
		`<link rel="stylesheet" href="style.css"><img src="img/bg.png"><h1>[[TITLE]]</h1>`)

	r := &mockRenderer{}
	g := newTestGenerator(t, r)

	req := validRequest()
	req.Template = ExplicitResource(tmpl)

	if _, err := g.GenerateImage(context.Background(), req); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	html := r.Calls()[0].html
	if !strings.Contains(html, `href="style.css"`) {
		t.Errorf("staged stylesheet reference should stay relative: %q", html)
	}
	bg := (&url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(src, "img", "bg.png"))}).String()
	if !strings.Contains(html, `src="`+bg+`"`) {
		t.Errorf("html = %q, want image resolved to %s", html, bg)
	}
}

func TestGenerateImage_ExplicitOutput(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	g := newTestGenerator(t, r)

	out := filepath.Join(t.TempDir(), "nested", "custom.png")
	req := validRequest()
	req.Output = out

	path, err := g.GenerateImage(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if path != out {
		t.Errorf("path = %q, want %q", path, out)
	}
	if r.Calls()[0].outputPath != out {
		t.Errorf("renderer output = %q, want %q", r.Calls()[0].outputPath, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("image not written: %v", err)
	}
}

func TestGenerateImage_TemplateDirOverride(t *testing.T) {
	t.Parallel()

	bundle := t.TempDir()
	writeFile(t, filepath.Join(bundle, "template.html"), "custom [[TITLE]]")

	r := &mockRenderer{}
	g := newTestGenerator(t, r, WithTemplateDir(bundle))

	if _, err := g.GenerateImage(context.Background(), validRequest()); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	call := r.Calls()[0]
	if call.html != "custom My First Post" {
		t.Errorf("html = %q, want bundle template", call.html)
	}
	if call.staged["style.css"] == "" {
		t.Error("style.css should fall back to the embedded bundle")
	}
}

func TestGenerateImage_Dates(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC) }

	tests := []struct {
		name   string
		date   string
		format string
		want   string
	}{
		{"default format", "2024-01-02", "", "Jan 2nd"},
		{"custom format", "2024-01-02", "MMMM D, YYYY", "January 2, 2024"},
		{"auto", "auto", "", "Mar 4th"},
		{"unparseable kept verbatim", "sometime soon", "", "sometime soon"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []Option{WithClock(clock)}
			if tt.format != "" {
				opts = append(opts, WithDateFormat(tt.format))
			}
			r := &mockRenderer{}
			g := newTestGenerator(t, r, opts...)

			tmpl := writeFile(t, filepath.Join(t.TempDir(), "t.html"), "[[DATE]]")
			req := validRequest()
			req.Date = tt.date
			req.Template = ExplicitResource(tmpl)

			if _, err := g.GenerateImage(context.Background(), req); err != nil {
				t.Fatalf("GenerateImage() error = %v", err)
			}
			if got := r.Calls()[0].html; got != tt.want {
				t.Errorf("date = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateImage_EscapesValues(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	g, dirs := newTestGeneratorDirs(t, r)

	req := validRequest()
	req.Title = "Tips & <Tricks>"

	path, err := g.GenerateImage(context.Background(), req)
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if path != filepath.Join(dirs.output, "tips_and_less_tricks_greater.jpg") {
		t.Errorf("path = %q", path)
	}
	if !strings.Contains(r.Calls()[0].html, "Tips &amp; &lt;Tricks&gt;") {
		t.Error("title not HTML-escaped in composed document")
	}
}

func TestGenerateImage_SequentialRunsIsolated(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	g, dirs := newTestGeneratorDirs(t, r)

	first, err := g.GenerateImage(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second, err := g.GenerateImage(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("second run error = %v", err)
	}

	if first != second {
		t.Errorf("same title produced %q and %q", first, second)
	}
	calls := r.Calls()
	if filepath.Dir(calls[0].htmlPath) == filepath.Dir(calls[1].htmlPath) {
		t.Error("runs shared a workspace")
	}
	assertWorkspaceClean(t, dirs.workspace)
}

func TestGenerateImage_Concurrent(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	g, dirs := newTestGeneratorDirs(t, r)

	const n = 8
	paths := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.Title = fmt.Sprintf("Post %d", i)
			paths[i], errs[i] = g.GenerateImage(context.Background(), req)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Errorf("run %d error = %v", i, errs[i])
			continue
		}
		if want := filepath.Join(dirs.output, fmt.Sprintf("post_%d.jpg", i)); paths[i] != want {
			t.Errorf("run %d path = %q, want %q", i, paths[i], want)
		}
	}
	assertWorkspaceClean(t, dirs.workspace)
}

// ---------------------------------------------------------------------------
// TestGenerateImage - Failures
// ---------------------------------------------------------------------------

func TestGenerateImage_InvalidRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  Request
	}{
		{"missing title", Request{Author: "Evan"}},
		{"missing author", Request{Title: "Post"}},
		{"blank title", Request{Title: "   ", Author: "Evan"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &mockRenderer{}
			g, dirs := newTestGeneratorDirs(t, r)

			path, err := g.GenerateImage(context.Background(), tt.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("error = %v, want ErrInvalidRequest", err)
			}
			if path != "" {
				t.Errorf("path = %q, want empty", path)
			}
			assertStage(t, err, StateIdle)
			if len(r.Calls()) != 0 {
				t.Error("renderer should not be called")
			}
			assertWorkspaceClean(t, dirs.workspace)
		})
	}
}

func TestGenerateImage_MissingResource(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "does-not-exist")

	tests := []struct {
		name  string
		setup func(*Request)
	}{
		{"template", func(r *Request) { r.Template = ExplicitResource(missing + ".html") }},
		{"css", func(r *Request) { r.CSS = ExplicitResource(missing + ".css") }},
		{"author image", func(r *Request) { r.AuthorImage = ExplicitResource(missing + ".jpg") }},
		{"directory as template", func(r *Request) { r.Template = ExplicitResource(t.TempDir()) }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &mockRenderer{}
			g, dirs := newTestGeneratorDirs(t, r)

			req := validRequest()
			tt.setup(&req)

			path, err := g.GenerateImage(context.Background(), req)
			if !errors.Is(err, ErrResourceMissing) {
				t.Fatalf("error = %v, want ErrResourceMissing", err)
			}
			if path != "" {
				t.Errorf("path = %q, want empty", path)
			}
			assertStage(t, err, StateStaging)
			if len(r.Calls()) != 0 {
				t.Error("renderer should not be called")
			}
			if _, err := os.Stat(filepath.Join(dirs.output, "my_first_post.jpg")); !os.IsNotExist(err) {
				t.Error("no image should be written")
			}
			assertWorkspaceClean(t, dirs.workspace)
		})
	}
}

func TestGenerateImage_RenderFailure(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		wantErr []error
	}{
		{"plain error", errBoom, []error{ErrRenderFailure, errBoom}},
		{"screenshot error", fmt.Errorf("%w: capture", ErrScreenshot), []error{ErrRenderFailure, ErrScreenshot}},
		{"launch error", fmt.Errorf("%w: no chrome", ErrBrowserLaunch), []error{ErrRenderFailure, ErrBrowserLaunch}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, dirs := newTestGeneratorDirs(t, &mockRenderer{err: tt.err})

			path, err := g.GenerateImage(context.Background(), validRequest())
			for _, want := range tt.wantErr {
				want := want
				if !errors.Is(err, want) {
					t.Errorf("error = %v, want %v in chain", err, want)
				}
			}
			if path != "" {
				t.Errorf("path = %q, want empty", path)
			}
			assertStage(t, err, StateRendering)
			assertWorkspaceClean(t, dirs.workspace)
		})
	}
}

func TestGenerateImage_Timeout(t *testing.T) {
	t.Parallel()

	g, dirs := newTestGeneratorDirs(t, &mockRenderer{delay: 5 * time.Second}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := g.GenerateImage(context.Background(), validRequest())
	if !errors.Is(err, ErrRenderFailure) {
		t.Fatalf("error = %v, want ErrRenderFailure", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error %q should mention the timeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
	assertWorkspaceClean(t, dirs.workspace)
}

func TestGenerateImage_CancelledContext(t *testing.T) {
	t.Parallel()

	r := &mockRenderer{}
	g, dirs := newTestGeneratorDirs(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateImage(ctx, validRequest())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	assertStage(t, err, StateStaging)
	if len(r.Calls()) != 0 {
		t.Error("renderer should not be called")
	}
	assertWorkspaceClean(t, dirs.workspace)
}

func TestGenerateImage_PanicRecovered(t *testing.T) {
	t.Parallel()

	g, dirs := newTestGeneratorDirs(t, &mockRenderer{panicMsg: "renderer exploded"})

	path, err := g.GenerateImage(context.Background(), validRequest())
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("error = %v, want ErrInternal", err)
	}
	if !strings.Contains(err.Error(), "renderer exploded") {
		t.Errorf("error %q should carry the panic value", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	assertStage(t, err, StateRendering)
	assertWorkspaceClean(t, dirs.workspace)
}

func TestGenerateImage_LogsFailure(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		lines []string
	)
	logger := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})

	g := newTestGenerator(t, &mockRenderer{err: errors.New("boom")}, WithLogger(logger))
	if _, err := g.GenerateImage(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error")
	}

	mu.Lock()
	defer mu.Unlock()
	all := strings.Join(lines, "\n")
	for _, want := range []string{"Image generation failed", `"stage"="rendering"`, "Workspace removed"} {
		if !strings.Contains(all, want) {
			t.Errorf("log missing %q:\n%s", want, all)
		}
	}
}

// captureLogs returns a verbose logger and a function that joins what it logged.
func captureLogs() (logr.Logger, func() string) {
	var (
		mu    sync.Mutex
		lines []string
	)
	logger := funcr.New(func(prefix, args string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})
	return logger, func() string {
		mu.Lock()
		defer mu.Unlock()
		return strings.Join(lines, "\n")
	}
}

func TestGenerateImage_WorkspaceRemovalFailure(t *testing.T) {
	t.Parallel()

	logger, logs := captureLogs()
	g, dirs := newTestGeneratorDirs(t, &mockRenderer{}, WithLogger(logger))
	g.removeAll = func(string) error { return errors.New("device busy") }

	path, err := g.GenerateImage(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("GenerateImage() error = %v, want nil", err)
	}
	want := filepath.Join(dirs.output, "my_first_post.jpg")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("image should be kept: %v", err)
	}

	all := logs()
	for _, want := range []string{"Workspace removal failed", "device busy"} {
		if !strings.Contains(all, want) {
			t.Errorf("log missing %q:\n%s", want, all)
		}
	}
}

func TestGenerateImage_LogsEmbeddedFallback(t *testing.T) {
	t.Parallel()

	bundle := t.TempDir()
	writeFile(t, filepath.Join(bundle, "template.html"), "<h1>[[TITLE]]</h1><p>[[AUTHOR]]</p>")

	logger, logs := captureLogs()
	r := &mockRenderer{}
	g := newTestGenerator(t, r, WithTemplateDir(bundle), WithLogger(logger))

	if _, err := g.GenerateImage(context.Background(), validRequest()); err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}

	all := logs()
	for _, want := range []string{"Bundle file missing, using embedded copy", `"file"="style.css"`, `"file"="author.jpg"`} {
		if !strings.Contains(all, want) {
			t.Errorf("log missing %q:\n%s", want, all)
		}
	}
	if strings.Contains(all, `"file"="template.html"`) {
		t.Errorf("template came from the bundle and should not be reported:\n%s", all)
	}
}

// ---------------------------------------------------------------------------
// TestStageError / TestState
// ---------------------------------------------------------------------------

func TestStageError(t *testing.T) {
	t.Parallel()

	err := &StageError{Stage: StateComposing, Err: fmt.Errorf("%w: disk full", ErrWorkspaceIO)}
	if got := err.Error(); got != "composing: workspace I/O failed: disk full" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrWorkspaceIO) {
		t.Error("StageError should unwrap to its cause")
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateStaging, "staging"},
		{StateComposing, "composing"},
		{StateRendering, "rendering"},
		{StateDone, "done"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		tt := tt
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}
