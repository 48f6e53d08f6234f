// Package testutil provides test doubles and helpers for devsetup tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/ariel-frischer/devsetup/internal/shell"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// EchoStdin copies stdin to stdout after Stdout is written.
	EchoStdin bool `json:"echo_stdin"`
	// EchoArgs prints the original arguments, one per line, to stdout.
	EchoArgs bool `json:"echo_args"`
}

const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
	// EnvHelperProcessArgs contains the original command-line arguments (JSON array).
	EnvHelperProcessArgs = "GO_HELPER_PROCESS_ARGS"
)

// TestHelperProcess turns the test binary into a scripted subprocess when
// GO_WANT_HELPER_PROCESS=1 is set, and returns immediately otherwise.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}
	runHelperProcess(parseHelperConfig())
}

// parseHelperConfig parses HelperProcessConfig from environment variable.
func parseHelperConfig() HelperProcessConfig {
	config := HelperProcessConfig{}
	if configJSON := os.Getenv(EnvHelperProcessConfig); configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}
	return config
}

// runHelperProcess executes the helper process behavior and always exits.
func runHelperProcess(config HelperProcessConfig) {
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.EchoArgs {
		args, _ := GetHelperProcessArgs()
		for _, a := range args {
			fmt.Fprintln(os.Stdout, a)
		}
	}
	if config.EchoStdin {
		_, _ = io.Copy(os.Stdout, os.Stdin)
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}
	os.Exit(config.ExitCode)
}

// HelperCommand returns a shell.Command that re-runs the test binary as a
// helper process. testName must name a test that calls TestHelperProcess.
// args are recorded for GetHelperProcessArgs, not passed on the command line.
func HelperCommand(t *testing.T, testName string, config HelperProcessConfig, args ...string) shell.Command {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}

	return shell.Command{
		Name: testBinary,
		Args: []string{"-test.run=^" + testName + "$"},
		Env:  helperEnv(t, config, args),
	}
}

// helperEnv builds the extra environment for a helper process.
func helperEnv(t *testing.T, config HelperProcessConfig, args []string) []string {
	t.Helper()

	env := []string{EnvWantHelperProcess + "=1"}
	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}
	env = append(env, EnvHelperProcessConfig+"="+string(configJSON))

	if args == nil {
		args = []string{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("encoding helper args: %v", err)
	}
	return append(env, EnvHelperProcessArgs+"="+string(argsJSON))
}

// GetHelperProcessArgs retrieves the original arguments passed to the helper process.
func GetHelperProcessArgs() ([]string, error) {
	argsJSON := os.Getenv(EnvHelperProcessArgs)
	if argsJSON == "" {
		return nil, nil
	}

	var args []string
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return nil, fmt.Errorf("parsing helper process args: %w", err)
	}
	return args, nil
}
