package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fig <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate 1200x600 feature images for blog posts from an HTML template.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  args       Generate an image from title, date and author flags")
	fmt.Fprintln(w, "  fm         Generate images from Markdown frontmatter")
	fmt.Fprintln(w, "  watch      Regenerate images when Markdown files change")
	fmt.Fprintln(w, "  init       Write the default template bundle")
	fmt.Fprintln(w, "  doctor     Check the browser and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'fig help <command>' for details on a specific command.")
}

// printCommonFlags prints flags shared by args, fm and watch.
func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --template-dir <dir>  Default template bundle (default: ~/.fig/template)")
	fmt.Fprintln(w, "      --timeout <d>         Render timeout (default: 30s)")
	fmt.Fprintln(w, "      --upload              Upload images to the configured bucket")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show inputs and intermediate state")
}

// printArgsUsage prints usage for the args command.
func printArgsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fig args -t <title> -d <date> -a <author> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate one image from explicit values.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Metadata:")
	fmt.Fprintln(w, "  -t, --title <s>           Title (required)")
	fmt.Fprintln(w, "  -d, --date <s>            Date, e.g. 2024-01-02, or \"auto\" for today (required)")
	fmt.Fprintln(w, "  -a, --author <s>          Author name (required)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resources (default: template bundle):")
	fmt.Fprintln(w, "  -h, --template <path>     HTML template with [[TITLE]], [[AUTHOR]], [[DATE]]")
	fmt.Fprintln(w, "  -c, --css <path>          Stylesheet, staged as style.css")
	fmt.Fprintln(w, "  -i, --author-image <path> Author picture, staged as author.jpg")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Image file; .png and .webp select the format")
	fmt.Fprintln(w, "                            (default: <slug>.jpg in output.dir)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printFmUsage prints usage for the fm command.
func printFmUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fig fm <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate images from the title, date and author frontmatter of Markdown files.")
	fmt.Fprintln(w, "A missing title falls back to the first level-1 heading.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Image file for one input, otherwise a directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renders (0 = auto)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printWatchUsage prints usage for the watch command.
func printWatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fig watch <dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Regenerate images when Markdown files in <dir> are created or saved.")
	fmt.Fprintln(w, "Stop with Ctrl+C.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel renders (0 = auto)")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fig init [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the built-in template.html, style.css and author.jpg to the")
	fmt.Fprintln(w, "template bundle directory so they can be customized.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --dir <dir>           Bundle directory (default: template.dir)")
	fmt.Fprintln(w, "      --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -f, --force               Overwrite existing files")
	fmt.Fprintln(w, "      --print-config        Print a default config file and exit")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: fig doctor [--config <name>] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome, the template bundle, the workspace directory and the")
	fmt.Fprintln(w, "upload settings resolved from config and FIG_* variables are usable.")
}

// printCommandUsage prints usage for cmd, reporting whether cmd is known.
func printCommandUsage(w io.Writer, cmd string) bool {
	switch cmd {
	case "args":
		printArgsUsage(w)
	case "fm":
		printFmUsage(w)
	case "watch":
		printWatchUsage(w)
	case "init":
		printInitUsage(w)
	case "doctor":
		printDoctorUsage(w)
	case "version":
		fmt.Fprintln(w, "Usage: fig version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: fig help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		return false
	}
	return true
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	if !printCommandUsage(env.Stdout, args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
