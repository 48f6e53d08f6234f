// Package requirements reads flat requirements files and imports each entry
// into the manifest one at a time.
package requirements

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	clierrors "github.com/ariel-frischer/devsetup/internal/errors"
)

// Entry is one dependency spec. Line is 1-based.
type Entry struct {
	Line int
	Spec string
}

// Parse returns the entries of r in file order. Blank lines and lines whose
// first non-space character is '#' are skipped; the rest is trimmed and
// otherwise passed through verbatim.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		entries = append(entries, Entry{Line: line, Spec: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requirements: %w", err)
	}
	return entries, nil
}

// ParseFile parses the file at path. ok is false when the file does not exist.
func ParseFile(path string) (entries []Entry, ok bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	entries, err = Parse(f)
	return entries, true, err
}

// AddFunc adds a single dependency spec.
type AddFunc func(ctx context.Context, spec string) error

// Failure is an entry whose add failed.
type Failure struct {
	Entry Entry
	Err   error
}

// Result summarizes an import.
type Result struct {
	Added  []Entry
	Failed []Failure
}

// Err joins every failure, or returns nil.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("line %d %q: %w", f.Entry.Line, f.Entry.Spec, f.Err))
	}
	return errors.Join(errs...)
}

// Import calls add once per entry, sequentially and in order. A failed entry
// does not stop the rest; a cancelled context does.
func Import(ctx context.Context, entries []Entry, add AddFunc, onFailure func(Failure)) (Result, error) {
	var res Result
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, clierrors.WrapWithMessage(err, clierrors.Runtime,
				fmt.Sprintf("importing requirements (stopped before line %d)", e.Line))
		}
		if err := add(ctx, e.Spec); err != nil {
			f := Failure{Entry: e, Err: err}
			res.Failed = append(res.Failed, f)
			if onFailure != nil {
				onFailure(f)
			}
			continue
		}
		res.Added = append(res.Added, e)
	}
	return res, nil
}
