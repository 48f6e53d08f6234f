package poetry

import (
	"bytes"
	"context"
	"net/http"
	"os"

	"github.com/ariel-frischer/devsetup/internal/envpath"
	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
	"github.com/ariel-frischer/devsetup/internal/logging"
	"github.com/ariel-frischer/devsetup/internal/shell"
)

// State is the outcome of Ensure.
type State int

const (
	NotInstalled State = iota
	Installed
	AlreadyInstalled
)

func (s State) String() string {
	switch s {
	case Installed:
		return "installed"
	case AlreadyInstalled:
		return "already installed"
	default:
		return "not installed"
	}
}

// PathExporter receives PATH additions that must reach the calling shell.
type PathExporter interface {
	ExportPath(dir string)
}

// Progress is shown while the installer downloads.
type Progress interface {
	Start(message string)
	Stop(ok bool)
}

// Bootstrapper makes sure a Poetry executable exists and is on PATH.
type Bootstrapper struct {
	Paths        Paths
	Interpreter  string
	InstallerURL string
	HTTPClient   *http.Client
	Runner       shell.Runner
	Env          envpath.Env
	Exporter     PathExporter
	Progress     Progress
	Logger       *logging.Logger
}

// Ensure installs Poetry when its executable is missing, then exposes its bin
// directory on PATH exactly once. A failed installation is fatal and is not
// retried.
func (b *Bootstrapper) Ensure(ctx context.Context) (State, error) {
	state := AlreadyInstalled
	if exists(b.Paths.Executable) {
		b.Logger.Infof("poetry found at %s", b.Paths.Executable)
	} else {
		b.Logger.Warnf("poetry not found at %s, installing", b.Paths.Executable)
		if err := b.install(ctx); err != nil {
			return NotInstalled, err
		}
		if !exists(b.Paths.Executable) {
			return NotInstalled, clierrors.PoetryInstallFailed(b.Paths.Executable)
		}
		b.Logger.Infof("poetry installed at %s", b.Paths.Executable)
		state = Installed
	}

	added, err := envpath.Ensure(b.Env, b.Paths.BinDir)
	if err != nil {
		return state, clierrors.WrapWithMessage(err, clierrors.Runtime, "updating PATH")
	}
	if added {
		b.Logger.Infof("added %s to PATH", b.Paths.BinDir)
	}
	if b.Exporter != nil && added {
		b.Exporter.ExportPath(b.Paths.BinDir)
	}
	return state, nil
}

func (b *Bootstrapper) install(ctx context.Context) error {
	if b.Progress != nil {
		b.Progress.Start("downloading poetry installer")
	}
	script, err := FetchInstaller(ctx, b.HTTPClient, b.InstallerURL)
	if b.Progress != nil {
		b.Progress.Stop(err == nil)
	}
	if err != nil {
		return err
	}

	return b.Runner.Run(ctx, shell.Command{
		Name:  b.Interpreter,
		Args:  []string{"-"},
		Stdin: bytes.NewReader(script),
	})
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
