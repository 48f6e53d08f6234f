// Package hooks copies project git hooks into the repository's hooks
// directory.
package hooks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/ariel-frischer/devsetup/internal/git"
	"github.com/ariel-frischer/devsetup/internal/logging"
)

// File is one installed hook.
type File struct {
	Name       string
	SourcePath string
	TargetPath string
}

// Options configures Install.
type Options struct {
	// Root is the project root that must contain .git.
	Root string
	// SourceDir holds the hook files, relative to Root unless absolute.
	SourceDir string
	// GOOS selects the permission behavior (default: runtime.GOOS).
	GOOS   string
	Logger *logging.Logger
}

// Result describes what Install did.
type Result struct {
	// Skipped is set when a precondition was not met; Reason says which.
	Skipped   bool
	Reason    string
	TargetDir string
	Files     []File
}

// Install copies every regular file in the source directory into the git
// hooks directory, overwriting files of the same name. A missing .git or
// source directory is not an error: the result is marked Skipped and a
// warning is logged.
func Install(opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	targetDir, err := git.HooksDir(opts.Root)
	if errors.Is(err, git.ErrNotRepository) {
		reason := fmt.Sprintf("no .git directory in %s", opts.Root)
		log.Warnf("%s, skipping hook installation", reason)
		return Result{Skipped: true, Reason: reason}, nil
	}
	if err != nil {
		return Result{}, err
	}

	sourceDir := opts.SourceDir
	if !filepath.IsAbs(sourceDir) {
		sourceDir = filepath.Join(opts.Root, sourceDir)
	}
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		reason := fmt.Sprintf("hooks directory %s not found", sourceDir)
		log.Warnf("%s, skipping hook installation", reason)
		return Result{Skipped: true, Reason: reason, TargetDir: targetDir}, nil
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating hooks directory: %w", err)
	}

	files, err := collect(sourceDir, targetDir)
	if err != nil {
		return Result{}, err
	}

	for _, f := range files {
		if err := copyFile(f.SourcePath, f.TargetPath); err != nil {
			return Result{}, fmt.Errorf("installing hook %s: %w", f.Name, err)
		}
		if err := markExecutable(f.TargetPath, goos, log); err != nil {
			return Result{}, fmt.Errorf("making hook %s executable: %w", f.Name, err)
		}
		log.Infof("installed hook %s", f.Name)
	}

	return Result{TargetDir: targetDir, Files: files}, nil
}

// collect lists the regular files of sourceDir, sorted by name. Symlinks to
// regular files count.
func collect(sourceDir, targetDir string) ([]File, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading hooks directory: %w", err)
	}

	var files []File
	for _, e := range entries {
		src := filepath.Join(sourceDir, e.Name())
		info, err := os.Stat(src)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{
			Name:       e.Name(),
			SourcePath: src,
			TargetPath: filepath.Join(targetDir, e.Name()),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// copyFile replaces dst with the content of src.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// markExecutable sets 0755 on dst. Windows has no exec bit, so the step is
// logged and skipped there.
func markExecutable(dst, goos string, log *logging.Logger) error {
	if goos == "windows" {
		log.Infof("skipping chmod for %s on windows", filepath.Base(dst))
		return nil
	}
	return os.Chmod(dst, 0o755)
}
