package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"error", LevelError, false, false},
		{"info", LevelInfo, false, true},
		{"debug", LevelDebug, true, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, tt.level)

			logger.V(1).Info("debug message", "key", "value")
			logger.Info("info message")
			logger.Error(errors.New("boom"), "error message")

			out := buf.String()
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("debug emitted = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info message"); got != tt.wantInfo {
				t.Errorf("info emitted = %v, want %v\n%s", got, tt.wantInfo, out)
			}
			if !strings.Contains(out, "error message") || !strings.Contains(out, "boom") {
				t.Errorf("error not emitted with cause:\n%s", out)
			}
		})
	}
}

func TestNew_KeyValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, LevelInfo).WithValues("run", "abc").Info("Staged resource", "kind", "template")

	out := buf.String()
	for _, want := range []string{"Staged resource", "abc", "template"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verbose, quiet bool
		want           Level
	}{
		{false, false, LevelInfo},
		{true, false, LevelDebug},
		{false, true, LevelError},
		{true, true, LevelDebug},
	}
	for _, tt := range tests {
		tt := tt
		if got := LevelFor(tt.verbose, tt.quiet); got != tt.want {
			t.Errorf("LevelFor(%v, %v) = %v, want %v", tt.verbose, tt.quiet, got, tt.want)
		}
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Info("dropped")
	if logger.Enabled() {
		t.Error("Discard() logger reports enabled")
	}
}
