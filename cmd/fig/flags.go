package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared by the generating commands.
type commonFlags struct {
	config      string
	quiet       bool
	verbose     bool
	timeout     string
	templateDir string
	upload      bool
}

// argsFlags holds flags for the args command.
type argsFlags struct {
	common      commonFlags
	title       string
	date        string
	author      string
	template    string
	authorImage string
	css         string
	output      string
}

// fmFlags holds flags for the fm command.
type fmFlags struct {
	common  commonFlags
	output  string
	workers int
}

// watchFlags holds flags for the watch command.
type watchFlags struct {
	common  commonFlags
	output  string
	workers int
}

// initFlags holds flags for the init command.
type initFlags struct {
	config      string
	dir         string
	force       bool
	printConfig bool
}

// addCommonFlags adds common flags to a FlagSet.
// --config has no shorthand: -c selects the stylesheet in the args command.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show inputs and intermediate state")
	fs.StringVar(&f.timeout, "timeout", "", "render timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.templateDir, "template-dir", "", "default template bundle directory")
	fs.BoolVar(&f.upload, "upload", false, "upload images to the configured bucket")
}

// newFlagSet returns a FlagSet that reports errors instead of exiting.
// pflag's own usage output is silenced; callers print command help.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseArgsFlags parses args command flags and returns positional args.
func parseArgsFlags(args []string) (*argsFlags, []string, error) {
	fs := newFlagSet("args")
	f := &argsFlags{}

	fs.StringVarP(&f.title, "title", "t", "", "image title")
	fs.StringVarP(&f.date, "date", "d", "", "date (\"auto\" = today)")
	fs.StringVarP(&f.author, "author", "a", "", "author name")
	fs.StringVarP(&f.template, "template", "h", "", "HTML template file")
	fs.StringVarP(&f.authorImage, "author-image", "i", "", "author image file")
	fs.StringVarP(&f.css, "css", "c", "", "stylesheet file")
	fs.StringVarP(&f.output, "output", "o", "", "output image file")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseFmFlags parses fm command flags and returns positional args.
func parseFmFlags(args []string) (*fmFlags, []string, error) {
	fs := newFlagSet("fm")
	f := &fmFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file (single input) or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseWatchFlags parses watch command flags and returns positional args.
func parseWatchFlags(args []string) (*watchFlags, []string, error) {
	fs := newFlagSet("watch")
	f := &watchFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renders (0 = auto)")
	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseInitFlags parses init command flags and returns positional args.
func parseInitFlags(args []string) (*initFlags, []string, error) {
	fs := newFlagSet("init")
	f := &initFlags{}

	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.StringVar(&f.dir, "dir", "", "bundle directory (default: template.dir)")
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite existing files")
	fs.BoolVar(&f.printConfig, "print-config", false, "print a default config file and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// doctorFlags holds doctor command flags.
type doctorFlags struct {
	config string
	json   bool
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (*doctorFlags, []string, error) {
	fs := newFlagSet("doctor")
	f := &doctorFlags{}

	fs.StringVar(&f.config, "config", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
