// Package git provides Git repository helpers for devsetup: repository root
// and current branch detection, and resolution of the hooks directory. It uses
// the go-git library so no git binary is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository containing path, walking up the directory
// tree. If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// CurrentBranch returns the branch HEAD points at for the repository
// containing dir. It works before the first commit. Returns "" on a
// detached HEAD.
func CurrentBranch(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("reading HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference {
		if target := head.Target(); target.IsBranch() {
			logDebug("[git] CurrentBranch: %s", target.Short())
			return target.Short(), nil
		}
	}

	logDebug("[git] CurrentBranch: detached HEAD state")
	return "", nil
}

// RepositoryRoot returns the absolute worktree root of the repository
// containing dir.
func RepositoryRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	root := worktree.Filesystem.Root()
	logDebug("[git] RepositoryRoot: %s", root)
	return root, nil
}

// IsRepository reports whether dir is inside a git repository.
func IsRepository(dir string) bool {
	_, err := openRepo(dir)
	return err == nil
}

// ErrNotRepository is returned when dir has no .git directory of its own.
var ErrNotRepository = errors.New("not a git repository")

// HooksDir returns the directory git runs hooks from for the repository
// rooted at root: the repository's own core.hooksPath when configured, else
// <root>/.git/hooks. A global core.hooksPath is ignored; it is shared by every
// repository on the machine. Relative hooksPath values are resolved against root.
func HooksDir(root string) (string, error) {
	if info, err := os.Stat(filepath.Join(root, ".git")); err != nil || !info.IsDir() {
		return "", ErrNotRepository
	}
	defaultDir := filepath.Join(root, ".git", "hooks")

	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", fmt.Errorf("opening repository at %s: %w", root, err)
	}

	hooksPath := ""
	if cfg, err := repo.Config(); err == nil {
		hooksPath = cfg.Raw.Section("core").Option("hooksPath")
	} else {
		logDebug("[git] reading local config: %v", err)
	}
	hooksPath = strings.TrimSpace(hooksPath)
	if hooksPath == "" {
		return defaultDir, nil
	}

	if strings.HasPrefix(hooksPath, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			hooksPath = filepath.Join(home, hooksPath[2:])
		}
	}
	if !filepath.IsAbs(hooksPath) {
		hooksPath = filepath.Join(root, hooksPath)
	}
	logDebug("[git] HooksDir: core.hooksPath=%s", hooksPath)
	return hooksPath, nil
}
