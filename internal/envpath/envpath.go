// Package envpath edits the PATH variable of the current process. It is the
// only place devsetup mutates its own environment.
package envpath

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Env is the environment being edited.
type Env interface {
	Getenv(key string) string
	Setenv(key, value string) error
}

// OS is the real process environment.
type OS struct{}

// Getenv implements Env.
func (OS) Getenv(key string) string { return os.Getenv(key) }

// Setenv implements Env.
func (OS) Setenv(key, value string) error { return os.Setenv(key, value) }

// Map is an in-memory Env.
type Map map[string]string

// Getenv implements Env.
func (m Map) Getenv(key string) string { return m[key] }

// Setenv implements Env.
func (m Map) Setenv(key, value string) error {
	m[key] = value
	return nil
}

// Contains reports whether dir is already an entry of pathList. Entries are
// compared after cleaning; on Windows the comparison ignores case.
func Contains(pathList, dir string) bool {
	want := normalize(dir)
	for _, entry := range filepath.SplitList(pathList) {
		if entry == "" {
			continue
		}
		if normalize(entry) == want {
			return true
		}
	}
	return false
}

// Ensure appends dir to PATH unless it is already present. It reports
// whether PATH changed. Calling it repeatedly with the same dir is a no-op
// after the first call.
func Ensure(env Env, dir string) (bool, error) {
	current := env.Getenv("PATH")
	if Contains(current, dir) {
		return false, nil
	}

	updated := dir
	if current != "" {
		updated = current + string(os.PathListSeparator) + dir
	}
	if err := env.Setenv("PATH", updated); err != nil {
		return false, err
	}
	return true, nil
}

func normalize(p string) string {
	p = filepath.Clean(p)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}
