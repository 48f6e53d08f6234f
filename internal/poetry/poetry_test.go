package poetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/devsetup/internal/envpath"
	"github.com/ariel-frischer/devsetup/internal/logging"
	"github.com/ariel-frischer/devsetup/internal/shell"
	"github.com/ariel-frischer/devsetup/internal/testutil"
)

func TestResolvePaths(t *testing.T) {
	tests := map[string]struct {
		goos    string
		env     map[string]string
		home    string
		wantBin string
		wantExe string
	}{
		"linux default": {
			goos:    "linux",
			home:    "/home/dev",
			wantBin: filepath.Join("/home/dev", ".local", "bin"),
			wantExe: filepath.Join("/home/dev", ".local", "bin", "poetry"),
		},
		"darwin default": {
			goos:    "darwin",
			home:    "/Users/dev",
			wantBin: filepath.Join("/Users/dev", ".local", "bin"),
			wantExe: filepath.Join("/Users/dev", ".local", "bin", "poetry"),
		},
		"poetry home wins": {
			goos:    "linux",
			env:     map[string]string{"POETRY_HOME": "/opt/poetry"},
			home:    "/home/dev",
			wantBin: filepath.Join("/opt/poetry", "bin"),
			wantExe: filepath.Join("/opt/poetry", "bin", "poetry"),
		},
		"windows appdata": {
			goos:    "windows",
			env:     map[string]string{"APPDATA": "C:/Users/dev/AppData/Roaming"},
			home:    "C:/Users/dev",
			wantBin: filepath.Join("C:/Users/dev/AppData/Roaming", "Python", "Scripts"),
			wantExe: filepath.Join("C:/Users/dev/AppData/Roaming", "Python", "Scripts", "poetry.exe"),
		},
		"windows without appdata": {
			goos:    "windows",
			home:    "C:/Users/dev",
			wantBin: filepath.Join("C:/Users/dev", "AppData", "Roaming", "Python", "Scripts"),
			wantExe: filepath.Join("C:/Users/dev", "AppData", "Roaming", "Python", "Scripts", "poetry.exe"),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := ResolvePaths(tt.goos, func(k string) string { return tt.env[k] }, tt.home)
			assert.Equal(t, tt.wantBin, got.BinDir)
			assert.Equal(t, tt.wantExe, got.Executable)
		})
	}
}

func TestActivationScript(t *testing.T) {
	assert.Equal(t, filepath.Join("/p/.venv", "bin", "activate"), ActivationScript("linux", "/p/.venv"))
	assert.Equal(t, filepath.Join("/p/.venv", "Scripts", "Activate.ps1"), ActivationScript("windows", "/p/.venv"))
}

func TestFetchInstaller(t *testing.T) {
	tests := map[string]struct {
		status  int
		body    string
		wantErr bool
	}{
		"ok":          {status: http.StatusOK, body: "print('install poetry')"},
		"not found":   {status: http.StatusNotFound, body: "missing", wantErr: true},
		"server down": {status: http.StatusBadGateway, wantErr: true},
		"empty body":  {status: http.StatusOK, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			body, err := FetchInstaller(context.Background(), srv.Client(), srv.URL)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), srv.URL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

type recordingExporter struct{ dirs []string }

func (r *recordingExporter) ExportPath(dir string) { r.dirs = append(r.dirs, dir) }

type recordingProgress struct{ started, stopped int }

func (r *recordingProgress) Start(string) { r.started++ }
func (r *recordingProgress) Stop(bool)    { r.stopped++ }

func newTestBootstrapper(t *testing.T, runner shell.Runner, url string) (*Bootstrapper, envpath.Map, *recordingExporter) {
	t.Helper()
	home := t.TempDir()
	env := envpath.Map{"PATH": "/usr/bin"}
	exporter := &recordingExporter{}
	return &Bootstrapper{
		Paths:        ResolvePaths("linux", func(string) string { return "" }, home),
		Interpreter:  "python3",
		InstallerURL: url,
		Runner:       runner,
		Env:          env,
		Exporter:     exporter,
		Progress:     &recordingProgress{},
		Logger:       logging.Nop(),
	}, env, exporter
}

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
}

func TestEnsureAlreadyInstalled(t *testing.T) {
	runner := testutil.NewFakeRunnerBuilder(t).Build()
	b, env, exporter := newTestBootstrapper(t, runner, "http://unused.invalid")
	writeExecutable(t, b.Paths.Executable)

	state, err := b.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AlreadyInstalled, state)
	assert.Empty(t, runner.Calls(), "installer must not run")
	assert.True(t, envpath.Contains(env["PATH"], b.Paths.BinDir))
	assert.Equal(t, []string{b.Paths.BinDir}, exporter.dirs)

	state, err = b.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, AlreadyInstalled, state)
	assert.Equal(t, 1, strings.Count(env["PATH"], b.Paths.BinDir), "PATH is extended once")
	assert.Len(t, exporter.dirs, 1)
}

func TestEnsureInstallsFromInstallerScript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("print('installing')"))
	}))
	defer srv.Close()

	var b *Bootstrapper
	runner := testutil.NewFakeRunnerBuilder(t).
		WithHandler("python3 -", func(shell.Command) (string, int) {
			writeExecutable(t, b.Paths.Executable)
			return "", 0
		}).
		Build()
	b, _, _ = newTestBootstrapper(t, runner, srv.URL)
	b.HTTPClient = srv.Client()

	state, err := b.Ensure(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Installed, state)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "python3 -", calls[0].Line())
	assert.Equal(t, "print('installing')", calls[0].Stdin, "script is piped to the interpreter")

	progress := b.Progress.(*recordingProgress)
	assert.Equal(t, 1, progress.started)
	assert.Equal(t, 1, progress.stopped)
}

func TestEnsureFailsWhenExecutableStillMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("print('noop')"))
	}))
	defer srv.Close()

	runner := testutil.NewFakeRunnerBuilder(t).Build()
	b, env, exporter := newTestBootstrapper(t, runner, srv.URL)
	b.HTTPClient = srv.Client()

	state, err := b.Ensure(context.Background())
	require.Error(t, err)
	assert.Equal(t, NotInstalled, state)
	assert.Contains(t, err.Error(), "poetry installation failed")
	assert.Len(t, runner.Calls(), 1, "no retry")
	assert.Equal(t, "/usr/bin", env["PATH"])
	assert.Empty(t, exporter.dirs)
}

func TestEnsureInstallerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("raise SystemExit(1)"))
	}))
	defer srv.Close()

	runner := testutil.NewFakeRunnerBuilder(t).WithFailure("python3 -", 1).Build()
	b, _, _ := newTestBootstrapper(t, runner, srv.URL)
	b.HTTPClient = srv.Client()

	_, err := b.Ensure(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "python3 -")
}

func TestClientCommands(t *testing.T) {
	runner := testutil.NewFakeRunnerBuilder(t).
		WithOutput("/bin/poetry env info", "/p/.venv").
		WithOutput("/bin/poetry --version", "Poetry (version 1.8.3)").
		Build()
	c := &Client{Executable: "/bin/poetry", Dir: "/p", Runner: runner}
	ctx := context.Background()

	require.NoError(t, c.Init(ctx))
	require.NoError(t, c.ConfigLocal(ctx, "virtualenvs.in-project", "true"))
	require.NoError(t, c.Install(ctx))
	require.NoError(t, c.Add(ctx, "requests>=2,<3"))

	venv, err := c.EnvPath(ctx)
	require.NoError(t, err)
	assert.Equal(t, "/p/.venv", venv)

	version, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.8.3", version)

	assert.Equal(t, []string{
		"/bin/poetry init --no-interaction",
		"/bin/poetry config virtualenvs.in-project true --local",
		"/bin/poetry install",
		"/bin/poetry add requests>=2,<3",
		"/bin/poetry env info --path",
		"/bin/poetry --version",
	}, runner.CallLines())
	for _, call := range runner.Calls() {
		assert.Equal(t, "/p", call.Dir)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "installed", Installed.String())
	assert.Equal(t, "already installed", AlreadyInstalled.String())
	assert.Equal(t, "not installed", NotInstalled.String())
}
