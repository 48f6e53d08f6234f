// Package health provides the project health checks behind 'devsetup doctor'.
// It reports whether the interpreter, Poetry, the manifest, the virtualenv and
// the git hooks are in the state a bootstrap run leaves them in.
package health

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/devsetup/internal/config"
	"github.com/ariel-frischer/devsetup/internal/git"
	"github.com/ariel-frischer/devsetup/internal/manifest"
	"github.com/ariel-frischer/devsetup/internal/poetry"
	"github.com/ariel-frischer/devsetup/internal/prereqs"
	"github.com/ariel-frischer/devsetup/internal/shell"
	"github.com/ariel-frischer/devsetup/internal/state"
)

// Check names, in report order.
const (
	CheckInterpreter = "Interpreter"
	CheckPoetry      = "Poetry"
	CheckManifest    = "Manifest"
	CheckVenvConfig  = "In-project virtualenv"
	CheckVirtualenv  = "Virtualenv"
	CheckHooks       = "Git hooks"
	CheckLastRun     = "Last run"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Required checks fail the report; the rest are advisory.
	Required bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	// Passed is false when any required check failed.
	Passed bool
}

// Options describes the project to check.
type Options struct {
	ProjectDir string
	Config     *config.Configuration
	Poetry     poetry.Paths
	Runner     shell.Runner
	GOOS       string
}

type check struct {
	name     string
	required bool
	run      func(ctx context.Context, opts Options) (bool, string)
}

var checks = []check{
	{CheckInterpreter, true, checkInterpreter},
	{CheckPoetry, true, checkPoetry},
	{CheckManifest, true, checkManifest},
	{CheckVenvConfig, false, checkVenvConfig},
	{CheckVirtualenv, false, checkVirtualenv},
	{CheckHooks, false, checkHooks},
	{CheckLastRun, false, checkLastRun},
}

// RunHealthChecks runs every check concurrently and returns the results in
// a fixed order.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	results := make([]CheckResult, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			passed, msg := c.run(ctx, opts)
			results[i] = CheckResult{Name: c.name, Passed: passed, Message: msg, Required: c.required}
			return nil
		})
	}
	_ = g.Wait()

	report := &HealthReport{Checks: results, Passed: true}
	for _, r := range results {
		if r.Required && !r.Passed {
			report.Passed = false
		}
	}
	return report
}

// checkInterpreter resolves the interpreter and the configured
// required_commands, the same list the bootstrap refuses to start without.
func checkInterpreter(_ context.Context, opts Options) (bool, string) {
	names := prereqs.Commands(opts.Config.Interpreter, opts.Config.RequiredCommands)
	var found, missing []string
	for _, st := range prereqs.Check(opts.Runner.LookPath, names...) {
		if !st.Found {
			missing = append(missing, st.Name)
			continue
		}
		found = append(found, fmt.Sprintf("%s found at %s", st.Name, st.Path))
	}
	if len(missing) > 0 {
		return false, fmt.Sprintf("%s not found in PATH", strings.Join(missing, ", "))
	}
	return true, strings.Join(found, "; ")
}

func checkPoetry(ctx context.Context, opts Options) (bool, string) {
	if !fileExists(opts.Poetry.Executable) {
		return false, fmt.Sprintf("not installed at %s", opts.Poetry.Executable)
	}
	client := poetry.Client{Executable: opts.Poetry.Executable, Dir: opts.ProjectDir, Runner: opts.Runner}
	version, err := client.Version(ctx)
	if err != nil || version == "" {
		return true, fmt.Sprintf("installed at %s", opts.Poetry.Executable)
	}
	return true, fmt.Sprintf("installed at %s (v%s)", opts.Poetry.Executable, version)
}

func checkManifest(_ context.Context, opts Options) (bool, string) {
	st := manifest.Stat(filepath.Join(opts.ProjectDir, opts.Config.ManifestFile))
	if !st.Exists {
		return false, fmt.Sprintf("%s not found", opts.Config.ManifestFile)
	}
	return true, fmt.Sprintf("%s found", opts.Config.ManifestFile)
}

type poetryTOML struct {
	Virtualenvs struct {
		InProject *bool `toml:"in-project"`
	} `toml:"virtualenvs"`
}

func checkVenvConfig(_ context.Context, opts Options) (bool, string) {
	data, err := os.ReadFile(filepath.Join(opts.ProjectDir, "poetry.toml"))
	if err != nil {
		return false, "poetry.toml not found"
	}
	var doc poetryTOML
	if err := toml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Sprintf("poetry.toml is invalid: %v", err)
	}
	if doc.Virtualenvs.InProject == nil {
		return false, "virtualenvs.in-project is not set"
	}
	if !*doc.Virtualenvs.InProject {
		return false, "virtualenvs.in-project is false"
	}
	return true, "virtualenvs.in-project is true"
}

func checkVirtualenv(ctx context.Context, opts Options) (bool, string) {
	if !fileExists(opts.Poetry.Executable) {
		return false, "poetry is not installed"
	}
	client := poetry.Client{Executable: opts.Poetry.Executable, Dir: opts.ProjectDir, Runner: opts.Runner}
	venv, err := client.EnvPath(ctx)
	if err != nil || venv == "" {
		return false, "no virtualenv for this project"
	}
	script := poetry.ActivationScript(opts.GOOS, venv)
	if !fileExists(script) {
		return false, fmt.Sprintf("activation script missing: %s", script)
	}
	return true, venv
}

// checkHooks passes when every source hook has an identical copy in the
// hooks directory.
func checkHooks(_ context.Context, opts Options) (bool, string) {
	targetDir, err := git.HooksDir(opts.ProjectDir)
	if errors.Is(err, git.ErrNotRepository) {
		return false, "not a git repository"
	}
	if err != nil {
		return false, err.Error()
	}

	sourceDir := opts.Config.HooksDir
	if !filepath.IsAbs(sourceDir) {
		sourceDir = filepath.Join(opts.ProjectDir, sourceDir)
	}
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return false, fmt.Sprintf("hooks directory not found: %s", opts.Config.HooksDir)
	}

	var names, stale []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
		if !sameContent(filepath.Join(sourceDir, e.Name()), filepath.Join(targetDir, e.Name())) {
			stale = append(stale, e.Name())
		}
	}
	if len(stale) > 0 {
		return false, fmt.Sprintf("not installed: %s", strings.Join(stale, ", "))
	}
	if len(names) == 0 {
		return true, "no hooks to install"
	}
	return true, fmt.Sprintf("%d installed in %s", len(names), targetDir)
}

func checkLastRun(_ context.Context, opts Options) (bool, string) {
	rec, err := state.LoadFrom(state.PathFor(opts.ProjectDir))
	if errors.Is(err, os.ErrNotExist) {
		return false, "devsetup has not completed in this project"
	}
	if err != nil {
		return false, err.Error()
	}
	return true, fmt.Sprintf("%s by %s (%d runs)",
		rec.CompletedAt.Local().Format("2006-01-02 15:04:05"), rec.DevsetupVersion, rec.Runs)
}

func sameContent(a, b string) bool {
	da, err := os.ReadFile(a)
	if err != nil {
		return false
	}
	db, err := os.ReadFile(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

var (
	passMark     = color.New(color.FgGreen).SprintFunc()
	failMark     = color.New(color.FgRed).SprintFunc()
	advisoryMark = color.New(color.FgYellow).SprintFunc()
)

// FormatReport formats the health report for console output. Failed
// advisory checks are marked with ○ instead of ✗.
func FormatReport(report *HealthReport) string {
	var output string

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			output += fmt.Sprintf("%s %s: %s\n", passMark("✓"), check.Name, check.Message)
		case check.Required:
			output += fmt.Sprintf("%s %s: %s\n", failMark("✗"), check.Name, check.Message)
		default:
			output += fmt.Sprintf("%s %s: %s\n", advisoryMark("○"), check.Name, check.Message)
		}
	}

	return output
}
