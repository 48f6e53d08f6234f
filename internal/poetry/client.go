package poetry

import (
	"context"
	"strings"

	"github.com/ariel-frischer/devsetup/internal/shell"
)

// Client runs Poetry subcommands inside a project directory.
type Client struct {
	Executable string
	Dir        string
	Runner     shell.Runner
}

func (c *Client) command(args ...string) shell.Command {
	return shell.Command{Name: c.Executable, Args: args, Dir: c.Dir}
}

// Init creates pyproject.toml without prompting.
func (c *Client) Init(ctx context.Context) error {
	return c.Runner.Run(ctx, c.command("init", "--no-interaction"))
}

// ConfigLocal sets a project-local setting in poetry.toml.
func (c *Client) ConfigLocal(ctx context.Context, key, value string) error {
	return c.Runner.Run(ctx, c.command("config", key, value, "--local"))
}

// Install installs the locked dependency set.
func (c *Client) Install(ctx context.Context) error {
	return c.Runner.Run(ctx, c.command("install"))
}

// Add adds one dependency spec, passed through verbatim.
func (c *Client) Add(ctx context.Context, spec string) error {
	return c.Runner.Run(ctx, c.command("add", spec))
}

// EnvPath returns the root of the project virtualenv, or "" when none exists.
func (c *Client) EnvPath(ctx context.Context) (string, error) {
	return c.Runner.Output(ctx, c.command("env", "info", "--path"))
}

// Version returns the version string reported by poetry --version.
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.Runner.Output(ctx, c.command("--version"))
	if err != nil {
		return "", err
	}
	// "Poetry (version 1.8.3)"
	out = strings.TrimSuffix(strings.TrimPrefix(out, "Poetry (version "), ")")
	return out, nil
}
