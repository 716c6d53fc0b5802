package main

import (
	"fmt"
	"os"

	"github.com/evanhalley/fig/internal/assets"
	"github.com/evanhalley/fig/internal/config"
	"github.com/evanhalley/fig/internal/fileutil"
	"github.com/evanhalley/fig/internal/yamlutil"
)

// runInit writes the embedded template bundle to the bundle directory, or
// prints a default config file with --print-config.
func runInit(args []string, env *Environment) error {
	flags, positional, err := parseInitFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, positional[0])
	}

	if flags.printConfig {
		out, err := yamlutil.Marshal(config.DefaultConfig())
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(out)
		return err
	}

	dir, err := resolveBundleDir(flags)
	if err != nil {
		return err
	}

	written, err := assets.WriteBundle(dir, flags.force)
	if err != nil {
		return err
	}

	if len(written) == 0 {
		fmt.Fprintf(env.Stdout, "Template bundle already present in %s (use --force to overwrite)\n", dir)
		return nil
	}
	for _, path := range written {
		fmt.Fprintf(env.Stdout, "Wrote %s\n", path)
	}
	return nil
}

// resolveBundleDir picks the bundle directory: --dir, then FIG_TEMPLATE_DIR,
// then the config file, then the default. "~" is expanded.
func resolveBundleDir(flags *initFlags) (string, error) {
	dir := flags.dir
	if dir == "" {
		dir = os.Getenv("FIG_TEMPLATE_DIR")
	}
	if dir == "" && flags.config != "" {
		cfg, err := config.LoadConfig(flags.config)
		if err != nil {
			return "", fmt.Errorf("loading config: %w", err)
		}
		dir = cfg.Template.Dir
	}
	if dir == "" {
		dir = config.DefaultTemplateDir
	}
	return fileutil.ExpandHome(dir)
}
