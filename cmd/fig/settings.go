package main

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/evanhalley/fig"
	"github.com/evanhalley/fig/internal/config"
	"github.com/evanhalley/fig/internal/fileutil"
	"github.com/evanhalley/fig/internal/logging"
	"github.com/evanhalley/fig/internal/publish"
)

// loadSettings resolves configuration with the precedence
// CLI flags > env vars > config file > defaults.
func loadSettings(flags *commonFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	name := flags.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)

	if flags.templateDir != "" {
		cfg.Template.Dir = flags.templateDir
	}
	if flags.upload {
		cfg.Upload.Enabled = true
	}
	timeout, err := resolveTimeout(flags.timeout, cfg.Render.Timeout.Std())
	if err != nil {
		return nil, err
	}
	cfg.Render.Timeout = config.Duration(timeout)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveTimeout parses the --timeout flag, falling back to current.
func resolveTimeout(flagValue string, current time.Duration) (time.Duration, error) {
	if flagValue == "" {
		if current <= 0 {
			return config.DefaultTimeout, nil
		}
		return current, nil
	}

	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid timeout %q: %v", ErrUsage, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: timeout must be positive, got %s", ErrUsage, d)
	}
	if d > config.MaxTimeout {
		return 0, fmt.Errorf("%w: timeout must be at most %s, got %s", ErrUsage, config.MaxTimeout, d)
	}
	return d, nil
}

// newLogger builds the CLI logger from the verbosity flags.
func newLogger(flags *commonFlags, env *Environment) logr.Logger {
	return logging.New(env.Stderr, logging.LevelFor(flags.verbose, flags.quiet))
}

// newGenerator creates a Generator from resolved settings.
func newGenerator(cfg *config.Config, log logr.Logger, env *Environment) (*fig.Generator, error) {
	outputDir, err := fileutil.ExpandHome(cfg.Output.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: output.dir: %v", fig.ErrInvalidOption, err)
	}
	workspaceDir, err := fileutil.ExpandHome(cfg.Workspace.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: workspace.dir: %v", fig.ErrInvalidOption, err)
	}

	timeout := cfg.Render.Timeout.Std()
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	opts := []fig.Option{
		fig.WithLogger(log),
		fig.WithTimeout(timeout),
		fig.WithTemplateDir(cfg.Template.Dir),
		fig.WithOutputDir(outputDir),
		fig.WithWorkspaceDir(workspaceDir),
		fig.WithDateFormat(cfg.Template.DateFormat),
		fig.WithBrowserBin(cfg.Render.BrowserBin),
		fig.WithNoSandbox(cfg.Render.NoSandbox),
		fig.WithClock(env.Now),
	}
	if env.Renderer != nil {
		opts = append(opts, fig.WithRenderer(env.Renderer))
	}
	return fig.NewGenerator(opts...)
}

// newUploader returns nil when uploading is disabled.
func newUploader(cfg *config.Config, env *Environment) (Uploader, error) {
	if !cfg.Upload.Enabled {
		return nil, nil
	}
	return env.NewUploader(publish.Config{
		Endpoint:  cfg.Upload.Endpoint,
		AccessKey: cfg.Upload.AccessKey,
		SecretKey: cfg.Upload.SecretKey,
		Bucket:    cfg.Upload.Bucket,
		Prefix:    cfg.Upload.Prefix,
		UseSSL:    cfg.Upload.UseSSL,
		PublicURL: cfg.Upload.PublicURL,
	})
}
