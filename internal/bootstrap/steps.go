package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/hooks"
	"github.com/ariel-frischer/devsetup/internal/invocation"
	"github.com/ariel-frischer/devsetup/internal/manifest"
	"github.com/ariel-frischer/devsetup/internal/poetry"
	"github.com/ariel-frischer/devsetup/internal/prereqs"
	"github.com/ariel-frischer/devsetup/internal/requirements"
	"github.com/ariel-frischer/devsetup/internal/state"
)

func checkDependencies(_ context.Context, e *Env, _ *state.Record) error {
	names := prereqs.Commands(e.Config.Interpreter, e.Config.RequiredCommands)
	if err := prereqs.RequireCommands(e.Runner.LookPath, names...); err != nil {
		return err
	}
	e.Logger.Infof("required commands found: %s", strings.Join(names, ", "))
	return nil
}

func ensurePoetry(ctx context.Context, e *Env, rec *state.Record) error {
	b := &poetry.Bootstrapper{
		Paths:        e.Poetry,
		Interpreter:  e.Config.Interpreter,
		InstallerURL: e.Config.InstallerURL,
		HTTPClient:   e.HTTPClient,
		Runner:       e.Runner,
		Env:          e.PathEnv,
		Exporter:     e.Session,
		Progress:     e.Progress,
		Logger:       e.Logger,
	}
	st, err := b.Ensure(ctx)
	if err != nil {
		return err
	}
	rec.PoetryExecutable = e.Poetry.Executable
	rec.PoetryState = st.String()
	return nil
}

func ensureManifest(ctx context.Context, e *Env, _ *state.Record) error {
	name := e.Config.ManifestFile
	if manifest.Stat(e.path(name)).Exists {
		e.Logger.Infof("%s found", name)
		return nil
	}

	e.Logger.Warnf("%s not found", name)
	if !e.confirm(fmt.Sprintf("%s not found. Create it now? [s/N]", name)) {
		return clierrors.ManifestCreationCancelled(name)
	}
	if err := e.poetry().Init(ctx); err != nil {
		return err
	}
	e.Logger.Infof("%s created", name)
	return nil
}

func configureManifest(ctx context.Context, e *Env, _ *state.Record) error {
	if e.Config.InProjectVenv {
		if err := e.poetry().ConfigLocal(ctx, "virtualenvs.in-project", "true"); err != nil {
			return err
		}
		e.Logger.Infof("virtualenv will be created inside the project")
	}

	if e.Config.DisablePackageMode {
		changed, err := manifest.EnsurePackageModeDisabled(e.path(e.Config.ManifestFile))
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime,
				fmt.Sprintf("disabling package mode in %s", e.Config.ManifestFile))
		}
		if changed {
			e.Logger.Infof("set package-mode = false in %s", e.Config.ManifestFile)
		}
	}
	return nil
}

func installDependencies(ctx context.Context, e *Env, rec *state.Record) error {
	client := e.poetry()
	if err := client.Install(ctx); err != nil {
		return err
	}
	e.Logger.Infof("dependencies installed")

	name := e.Config.RequirementsFile
	entries, ok, err := requirements.ParseFile(e.path(name))
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, fmt.Sprintf("reading %s", name))
	}
	if !ok {
		e.Logger.Debugf("no %s, skipping import", name)
		return nil
	}

	e.Logger.Infof("importing %d requirement(s) from %s", len(entries), name)
	res, err := requirements.Import(ctx, entries, client.Add, func(f requirements.Failure) {
		e.Logger.Errorf("could not add %s (%s line %d): %v", f.Entry.Spec, name, f.Entry.Line, f.Err)
	})
	rec.Requirements = len(res.Added)
	if err != nil {
		return err
	}
	if failed := res.Err(); failed != nil {
		return clierrors.RequirementsImportFailed(name, len(res.Failed), failed)
	}
	return nil
}

// activateVirtualenv is advisory: a missing virtualenv or activation script
// is logged and the run continues.
func activateVirtualenv(ctx context.Context, e *Env, rec *state.Record) error {
	venv, err := e.poetry().EnvPath(ctx)
	if err != nil || venv == "" {
		e.Logger.Errorf("virtualenv not found for %s", e.ProjectDir)
		return nil
	}
	script := poetry.ActivationScript(e.GOOS, venv)
	if _, err := os.Stat(script); err != nil {
		e.Logger.Errorf("activation script not found: %s", script)
		return nil
	}
	rec.VenvPath = venv

	if e.Session.IsSourced() {
		e.Session.Source(script)
		e.Logger.Infof("virtualenv activated: %s", venv)
		return nil
	}
	if e.Session.Shell() == invocation.PowerShell || e.GOOS == "windows" {
		e.Logger.Infof("to activate the virtualenv run: . %s", script)
	} else {
		e.Logger.Infof("to activate the virtualenv run: source %s", script)
	}
	e.Logger.Infof("or let devsetup do it: eval \"$(devsetup shell-init)\" and run devsetup again")
	return nil
}

func installHooks(_ context.Context, e *Env, rec *state.Record) error {
	res, err := hooks.Install(hooks.Options{
		Root:      e.ProjectDir,
		SourceDir: e.Config.HooksDir,
		GOOS:      e.GOOS,
		Logger:    e.Logger,
	})
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "installing git hooks")
	}
	if res.Skipped {
		return nil
	}
	rec.HooksDir = res.TargetDir
	for _, f := range res.Files {
		rec.Hooks = append(rec.Hooks, f.Name)
	}
	return nil
}
