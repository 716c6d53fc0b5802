package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/evanhalley/fig/internal/config"
)

// envPrefix marks the environment variables fig reads.
const envPrefix = "FIG_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // FIG_CONFIG: config file name or path
	TemplateDir string        // FIG_TEMPLATE_DIR: default bundle directory
	OutputDir   string        // FIG_OUTPUT_DIR: default output directory
	Timeout     time.Duration // FIG_TIMEOUT: render timeout
	Workers     int           // FIG_WORKERS: parallel renders

	// Credentials are kept out of config files where possible.
	UploadAccessKey string // FIG_UPLOAD_ACCESS_KEY
	UploadSecretKey string // FIG_UPLOAD_SECRET_KEY
}

// knownEnvVars lists valid FIG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FIG_CONFIG":            true,
	"FIG_TEMPLATE_DIR":      true,
	"FIG_OUTPUT_DIR":        true,
	"FIG_TIMEOUT":           true,
	"FIG_WORKERS":           true,
	"FIG_UPLOAD_ACCESS_KEY": true,
	"FIG_UPLOAD_SECRET_KEY": true,
	"FIG_CONTAINER":         true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Invalid numeric values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:      os.Getenv("FIG_CONFIG"),
		TemplateDir:     os.Getenv("FIG_TEMPLATE_DIR"),
		OutputDir:       os.Getenv("FIG_OUTPUT_DIR"),
		UploadAccessKey: os.Getenv("FIG_UPLOAD_ACCESS_KEY"),
		UploadSecretKey: os.Getenv("FIG_UPLOAD_SECRET_KEY"),
	}

	if timeout := os.Getenv("FIG_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("FIG_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized FIG_* variables.
// Helps catch typos like FIG_OUTPUTDIR instead of FIG_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Environment values override the config file; flags are applied afterwards,
// giving: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.TemplateDir != "" {
		cfg.Template.Dir = env.TemplateDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Timeout > 0 {
		cfg.Render.Timeout = config.Duration(env.Timeout)
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.UploadAccessKey != "" {
		cfg.Upload.AccessKey = env.UploadAccessKey
	}
	if env.UploadSecretKey != "" {
		cfg.Upload.SecretKey = env.UploadSecretKey
	}
}
