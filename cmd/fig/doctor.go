package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/evanhalley/fig/internal/assets"
	"github.com/evanhalley/fig/internal/config"
	"github.com/evanhalley/fig/internal/fileutil"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"`
	Config    string        `json:"config,omitempty"` // config file in effect
	Chrome    chromeInfo    `json:"chrome"`
	Template  templateInfo  `json:"template"`
	Workspace workspaceInfo `json:"workspace"`
	Upload    uploadInfo    `json:"upload"`
	Env       envInfo       `json:"environment"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Source  string `json:"source,omitempty"` // config, ROD_BROWSER_BIN or lookup
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// templateInfo describes where default resources come from.
type templateInfo struct {
	Dir     string   `json:"dir"`
	Custom  bool     `json:"custom"`
	Missing []string `json:"missing,omitempty"` // files served from the embedded bundle
}

// workspaceInfo describes where per-run directories are created.
type workspaceInfo struct {
	Dir      string `json:"dir"`
	Writable bool   `json:"writable"`
}

// uploadInfo summarizes the upload settings. Secrets are never reported.
type uploadInfo struct {
	Enabled     bool   `json:"enabled"`
	Endpoint    string `json:"endpoint,omitempty"`
	Bucket      string `json:"bucket,omitempty"`
	Credentials bool   `json:"credentials"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

func (r *doctorResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *doctorResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Warnings still exit 0; any error exits 1.
func runDoctorCmd(args []string, env *Environment) int {
	flags, positional, err := parseDoctorFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}
	if err == nil && len(positional) > 0 {
		err = fmt.Errorf("unexpected argument %q", positional[0])
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\nRun 'fig help doctor' for usage.\n", err)
		return ExitUsage
	}

	result := runDoctor(flags.config)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor resolves settings the way generating commands do, then checks
// each dependency of a run against them.
func runDoctor(configName string) *doctorResult {
	result := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := doctorConfig(result, configName)

	checkChrome(result, cfg.Render)
	checkTemplate(result, cfg.Template.Dir)
	checkWorkspace(result, cfg.Workspace.Dir)
	checkUpload(result, cfg.Upload)
	checkEnvironment(result)

	switch {
	case len(result.Errors) > 0:
		result.Status = statusErrors
	case len(result.Warnings) > 0:
		result.Status = statusWarnings
	default:
		result.Status = statusReady
	}
	return result
}

// doctorConfig loads the config file and FIG_* overrides. A broken config is
// reported and the defaults are checked instead.
func doctorConfig(result *doctorResult, name string) *config.Config {
	envCfg := loadEnvConfig()
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			result.fail("Config %s: %v", name, err)
		} else {
			cfg = loaded
			result.Config = name
		}
	}
	applyEnvConfig(envCfg, cfg)
	return cfg
}

// checkChrome finds the browser a run would launch: render.browserBin, then
// ROD_BROWSER_BIN, then rod's lookup.
func checkChrome(result *doctorResult, render config.RenderConfig) {
	path, source := render.BrowserBin, "config"
	if path == "" {
		path, source = result.Env.BrowserBin, "ROD_BROWSER_BIN"
	}
	if path == "" {
		var found bool
		path, found = launcher.LookPath()
		if !found {
			result.fail("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
		source = "lookup"
	}

	if _, err := os.Stat(path); err != nil {
		result.fail("Chrome not found at %s (from %s)", path, source)
		return
	}

	result.Chrome = chromeInfo{
		Found:   true,
		Path:    path,
		Source:  source,
		Sandbox: result.Env.NoSandbox != "1" && !render.NoSandbox,
	}

	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path from config, ROD_BROWSER_BIN or rod lookup
	if err != nil {
		result.warn("Could not get Chrome version: %v", err)
		return
	}
	result.Chrome.Version = strings.TrimSpace(string(out))
}

// checkTemplate reports whether the bundle directory overrides the embedded
// defaults, and which files still come from the embedded bundle.
func checkTemplate(result *doctorResult, dir string) {
	if dir == "" {
		dir = config.DefaultTemplateDir
	}
	expanded, err := fileutil.ExpandHome(dir)
	if err != nil {
		result.warn("Cannot resolve template dir %s: %v", dir, err)
		return
	}
	result.Template.Dir = expanded

	resolver, err := assets.NewResolver(expanded)
	if err != nil {
		result.fail("Template dir unusable: %v", err)
		return
	}
	result.Template.Custom = resolver.HasCustomLoader()
	if !result.Template.Custom {
		return
	}

	for _, name := range assets.BundleFiles {
		if _, origin, err := resolver.LoadWithOrigin(name); err != nil || origin == assets.OriginEmbedded {
			result.Template.Missing = append(result.Template.Missing, name)
		}
	}
}

// checkWorkspace verifies run workspaces can be created where configured.
func checkWorkspace(result *doctorResult, dir string) {
	expanded, err := fileutil.ExpandHome(dir)
	if err != nil {
		result.fail("Cannot resolve workspace dir %s: %v", dir, err)
		return
	}
	if expanded == "" {
		expanded = os.TempDir()
	}
	result.Workspace.Dir = expanded

	probe, err := os.MkdirTemp(expanded, "fig-doctor-")
	if err != nil {
		result.fail("Workspace directory not writable: %s", expanded)
		return
	}
	_ = os.RemoveAll(probe)
	result.Workspace.Writable = true
}

// checkUpload validates upload settings without contacting the endpoint.
func checkUpload(result *doctorResult, up config.UploadConfig) {
	result.Upload = uploadInfo{
		Enabled:     up.Enabled,
		Endpoint:    up.Endpoint,
		Bucket:      up.Bucket,
		Credentials: up.AccessKey != "" && up.SecretKey != "",
	}
	if up.Endpoint == "" && up.Bucket == "" {
		return
	}
	if !result.Upload.Credentials {
		result.warn("Upload configured but credentials missing. Set FIG_UPLOAD_ACCESS_KEY and FIG_UPLOAD_SECRET_KEY")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.warn("Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// dockerEnvPath is the marker file Docker creates in every container.
var dockerEnvPath = "/.dockerenv"

// isContainer reports whether fig runs in a container, and which signal
// said so. FIG_CONTAINER=1 forces detection.
func isContainer() (bool, string) {
	if os.Getenv("FIG_CONTAINER") == "1" {
		return true, "FIG_CONTAINER=1"
	}
	if fileutil.FileExists(dockerEnvPath) {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "fig doctor")
	if r.Config != "" {
		fmt.Fprintf(w, "Config: %s\n", r.Config)
	}

	section(w, "Chrome/Chromium")
	if r.Chrome.Found {
		check(w, true, "Found at %s (%s)", r.Chrome.Path, r.Chrome.Source)
		if r.Chrome.Version != "" {
			check(w, true, "Version: %s", r.Chrome.Version)
		}
		check(w, true, "Sandbox: %s", onOff(r.Chrome.Sandbox))
	} else {
		check(w, false, "Not found")
	}

	section(w, "Template")
	switch {
	case !r.Template.Custom:
		check(w, true, "Built-in bundle (%s not found, run 'fig init' to customize)", r.Template.Dir)
	case len(r.Template.Missing) > 0:
		check(w, true, "%s (built-in: %s)", r.Template.Dir, strings.Join(r.Template.Missing, ", "))
	default:
		check(w, true, "%s", r.Template.Dir)
	}

	section(w, "Workspace")
	check(w, r.Workspace.Writable, "%s", r.Workspace.Dir)

	section(w, "Upload")
	if r.Upload.Endpoint == "" && r.Upload.Bucket == "" {
		check(w, true, "Not configured")
	} else {
		check(w, true, "%s/%s (%s by default)", r.Upload.Endpoint, r.Upload.Bucket, onOff(r.Upload.Enabled))
		if r.Upload.Credentials {
			check(w, true, "Credentials: set")
		} else {
			check(w, false, "Credentials: missing")
		}
	}

	section(w, "Environment")
	check(w, true, "Platform: %s/%s", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		check(w, true, "Container: detected (%s)", r.Env.ContainerHint)
	}
	if r.Env.CI {
		check(w, true, "CI: detected")
	}

	listed(w, "Warnings:", "WARN", r.Warnings)
	listed(w, "Errors:", "ERROR", r.Errors)

	fmt.Fprintln(w)
	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to generate")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
}

func check(w io.Writer, ok bool, format string, args ...any) {
	tag := "[OK]"
	if !ok {
		tag = "[ERROR]"
	}
	fmt.Fprintf(w, "  %s %s\n", tag, fmt.Sprintf(format, args...))
}

func listed(w io.Writer, title, tag string, items []string) {
	if len(items) == 0 {
		return
	}
	section(w, title)
	for _, item := range items {
		fmt.Fprintf(w, "  [%s] %s\n", tag, item)
	}
}

func onOff(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
