// Package config loads fig's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanhalley/fig/internal/dateutil"
	"github.com/evanhalley/fig/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096 // PATH_MAX on Linux
	MaxEndpointLength = 253  // DNS name plus port fits well below this
	MaxBucketLength   = 63   // S3 bucket naming rules
	MaxKeyLength      = 128  // Access and secret keys
	MaxPrefixLength   = 512  // Object key prefix
	MaxURLLength      = 2048 // Browser limit
)

// Value bounds.
const (
	DefaultTimeout  = 30 * time.Second
	MaxTimeout      = 10 * time.Minute
	DefaultDebounce = 500 * time.Millisecond
	MaxDebounce     = time.Minute
	MaxWorkers      = 32
)

// DefaultTemplateDir is the bundle directory used when none is configured.
const DefaultTemplateDir = "~/.fig/template"

// appDirName is the directory under the user config dir searched for configs.
const appDirName = "fig"

// Config holds all configuration for image generation.
type Config struct {
	Template  TemplateConfig  `yaml:"template"`
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Upload    UploadConfig    `yaml:"upload"`
	Watch     WatchConfig     `yaml:"watch"`
	Workers   int             `yaml:"workers"` // 0 = auto
}

// TemplateConfig defines where default resources come from and how dates render.
type TemplateConfig struct {
	Dir        string `yaml:"dir"`        // Bundle directory (default: ~/.fig/template)
	DateFormat string `yaml:"dateFormat"` // Default: "MMM Do"
}

// OutputConfig defines the output destination.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Empty = current working directory
}

// RenderConfig defines headless browser options.
type RenderConfig struct {
	Timeout    Duration `yaml:"timeout"`    // Bounds one render call (default: 30s)
	BrowserBin string   `yaml:"browserBin"` // Empty = rod's browser lookup
	NoSandbox  bool     `yaml:"noSandbox"`
}

// WorkspaceConfig defines where per-run scratch directories are created.
type WorkspaceConfig struct {
	Dir string `yaml:"dir"` // Empty = system temp directory
}

// UploadConfig defines S3-compatible publishing of generated images.
type UploadConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"` // host[:port], no scheme
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"useSSL"`
	PublicURL string `yaml:"publicURL"` // Base URL printed after upload (default: endpoint/bucket)
}

// WatchConfig defines watch mode options.
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"` // Default: 500ms
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"template.dir", c.Template.Dir, MaxPathLength},
		{"template.dateFormat", c.Template.DateFormat, dateutil.MaxDateFormatLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"render.browserBin", c.Render.BrowserBin, MaxPathLength},
		{"workspace.dir", c.Workspace.Dir, MaxPathLength},
		{"upload.endpoint", c.Upload.Endpoint, MaxEndpointLength},
		{"upload.accessKey", c.Upload.AccessKey, MaxKeyLength},
		{"upload.secretKey", c.Upload.SecretKey, MaxKeyLength},
		{"upload.bucket", c.Upload.Bucket, MaxBucketLength},
		{"upload.prefix", c.Upload.Prefix, MaxPrefixLength},
		{"upload.publicURL", c.Upload.PublicURL, MaxURLLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Template.DateFormat != "" {
		if err := dateutil.ValidateFormat(c.Template.DateFormat); err != nil {
			return fmt.Errorf("template.dateFormat: %w", err)
		}
	}

	if t := c.Render.Timeout.Std(); t < 0 || t > MaxTimeout {
		return fmt.Errorf("%w: render.timeout must be between 0 and %s, got %s", ErrInvalidValue, MaxTimeout, t)
	}
	if d := c.Watch.Debounce.Std(); d < 0 || d > MaxDebounce {
		return fmt.Errorf("%w: watch.debounce must be between 0 and %s, got %s", ErrInvalidValue, MaxDebounce, d)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	if c.Upload.Enabled {
		if c.Upload.Endpoint == "" {
			return fmt.Errorf("%w: upload.endpoint required when upload is enabled", ErrInvalidValue)
		}
		if c.Upload.Bucket == "" {
			return fmt.Errorf("%w: upload.bucket required when upload is enabled", ErrInvalidValue)
		}
	}
	if strings.Contains(c.Upload.Endpoint, "://") {
		return fmt.Errorf("%w: upload.endpoint must be host[:port] without scheme, got %q", ErrInvalidValue, c.Upload.Endpoint)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills fields left empty by the config file.
func (c *Config) applyDefaults() {
	if c.Template.Dir == "" {
		c.Template.Dir = DefaultTemplateDir
	}
	if c.Template.DateFormat == "" {
		c.Template.DateFormat = dateutil.DefaultDisplayFormat
	}
	if c.Render.Timeout == 0 {
		c.Render.Timeout = Duration(DefaultTimeout)
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/fig/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
