// Package bootstrap runs the devsetup pipeline: check prerequisites, make sure
// Poetry is installed, create and configure the manifest, install
// dependencies, activate the virtualenv and install git hooks.
//
// Every step receives the same *Env. It is the only place the pipeline reads
// configuration or touches the outside world, so tests swap in fakes for the
// runner, the PATH and the terminal.
package bootstrap

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ariel-frischer/devsetup/internal/config"
	"github.com/ariel-frischer/devsetup/internal/envpath"
	"github.com/ariel-frischer/devsetup/internal/invocation"
	"github.com/ariel-frischer/devsetup/internal/logging"
	"github.com/ariel-frischer/devsetup/internal/poetry"
	"github.com/ariel-frischer/devsetup/internal/shell"
)

// Env is the context shared by all steps of one run.
type Env struct {
	ProjectDir string
	Config     *config.Configuration
	Session    *invocation.Session
	Runner     shell.Runner
	Logger     *logging.Logger

	// In and Out carry the manifest prompt.
	In  io.Reader
	Out io.Writer

	HTTPClient *http.Client
	// PathEnv is the environment whose PATH receives the Poetry bin directory.
	PathEnv envpath.Env
	Poetry  poetry.Paths
	// Progress is shown while the installer downloads. Optional.
	Progress poetry.Progress

	GOOS string
	// Version is recorded in the state file.
	Version string
	Now     func() time.Time
}

// fill sets defaults for the optional fields.
func (e *Env) fill() {
	if e.Logger == nil {
		e.Logger = logging.Nop()
	}
	if e.Session == nil {
		e.Session = invocation.NewSession(func(string) string { return "" })
	}
	if e.In == nil {
		e.In = os.Stdin
	}
	if e.Out == nil {
		e.Out = os.Stdout
	}
	if e.HTTPClient == nil {
		e.HTTPClient = http.DefaultClient
	}
	if e.PathEnv == nil {
		e.PathEnv = envpath.OS{}
	}
	if e.GOOS == "" {
		e.GOOS = runtime.GOOS
	}
	if e.Now == nil {
		e.Now = time.Now
	}
}

func (e *Env) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(e.ProjectDir, rel)
}

func (e *Env) poetry() *poetry.Client {
	return &poetry.Client{Executable: e.Poetry.Executable, Dir: e.ProjectDir, Runner: e.Runner}
}

// confirm asks question on Out and reads one answer from In. EOF and read
// errors count as no.
func (e *Env) confirm(question string) bool {
	if e.Config.AssumeYes {
		e.Logger.Infof("%s yes (assume_yes)", question)
		return true
	}
	fmt.Fprint(e.Out, question+" ")
	answer, err := bufio.NewReader(e.In).ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(e.Out)
		return false
	}
	return e.Config.IsAffirmative(strings.TrimSpace(answer))
}
