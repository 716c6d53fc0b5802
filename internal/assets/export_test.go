package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteBundle(t *testing.T) {
	t.Parallel()

	t.Run("writes every file into a new directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), ".fig", "template")

		written, err := WriteBundle(dir, false)
		if err != nil {
			t.Fatalf("WriteBundle() error = %v", err)
		}
		if len(written) != len(BundleFiles) {
			t.Fatalf("WriteBundle() wrote %d files, want %d", len(written), len(BundleFiles))
		}
		for _, name := range BundleFiles {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("%s not written: %v", name, err)
			}
		}
	})

	t.Run("keeps existing files without force", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		custom := filepath.Join(dir, StyleFile)
		if err := os.WriteFile(custom, []byte("mine"), 0o644); err != nil {
			t.Fatal(err)
		}

		written, err := WriteBundle(dir, false)
		if err != nil {
			t.Fatalf("WriteBundle() error = %v", err)
		}
		if len(written) != len(BundleFiles)-1 {
			t.Errorf("WriteBundle() wrote %d files, want %d", len(written), len(BundleFiles)-1)
		}
		got, _ := os.ReadFile(custom)
		if string(got) != "mine" {
			t.Errorf("existing file overwritten: %q", got)
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		custom := filepath.Join(dir, StyleFile)
		if err := os.WriteFile(custom, []byte("mine"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := WriteBundle(dir, true); err != nil {
			t.Fatalf("WriteBundle() error = %v", err)
		}
		got, _ := os.ReadFile(custom)
		if string(got) == "mine" {
			t.Error("force did not overwrite existing file")
		}
	})
}
