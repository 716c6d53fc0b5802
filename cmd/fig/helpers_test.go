package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/publish"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fakes shared by the command tests
// ---------------------------------------------------------------------------

// syncBuffer is a bytes.Buffer safe for the concurrent writes of pool runs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// mockRenderer writes a placeholder image instead of starting Chrome.
type mockRenderer struct {
	err error
}

func (m *mockRenderer) Render(_ context.Context, _, outputPath string, _ fig.Viewport) error {
	if m.err != nil {
		return m.err
	}
	return os.WriteFile(outputPath, []byte("image"), 0o644)
}

// mockUploader records published paths.
type mockUploader struct {
	mu    sync.Mutex
	cfg   publish.Config
	paths []string
	err   error
}

func (m *mockUploader) Publish(_ context.Context, localPath string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.paths = append(m.paths, localPath)
	return "https://cdn.example.com/" + filepath.Base(localPath), nil
}

// testEnv bundles an Environment with its captured output.
type testEnv struct {
	env      *Environment
	stdout   *syncBuffer
	stderr   *syncBuffer
	uploader *mockUploader
}

// newTestEnv returns an environment with a fixed clock, fake renderer and
// fake uploader.
func newTestEnv(r fig.Renderer) *testEnv {
	te := &testEnv{
		stdout:   &syncBuffer{},
		stderr:   &syncBuffer{},
		uploader: &mockUploader{},
	}
	te.env = &Environment{
		Now:      func() time.Time { return time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC) },
		Stdout:   te.stdout,
		Stderr:   te.stderr,
		Renderer: r,
		NewUploader: func(cfg publish.Config) (Uploader, error) {
			if cfg.AccessKey == "" || cfg.SecretKey == "" {
				return nil, publish.ErrMissingCredentials
			}
			te.uploader.cfg = cfg
			return te.uploader, nil
		},
	}
	return te
}

// missingBundle returns a template dir that does not exist, so runs use the
// embedded bundle regardless of the user's home directory.
func missingBundle(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "no-bundle")
}

// writeFile creates path with content, including parent directories.
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

// post returns Markdown with frontmatter.
func post(title, date, author string) string {
	var b strings.Builder
	b.WriteString("---\n")
	if title != "" {
		b.WriteString("title: " + title + "\n")
	}
	if date != "" {
		b.WriteString("date: " + date + "\n")
	}
	if author != "" {
		b.WriteString("author: " + author + "\n")
	}
	b.WriteString("---\n\nBody text.\n")
	return b.String()
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}
