package errors

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const maxFrames = 32

// Frame is one active call at the point an error was raised.
type Frame struct {
	Function string
	File     string
	Line     int
}

// String renders the frame as "function (file:line)".
func (f Frame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.Function, filepath.Base(f.File), f.Line)
}

var packagePrefix = thisPackage()

// thisPackage returns the qualified name prefix of this package's functions,
// such as "github.com/x/devsetup/internal/errors.".
func thisPackage() string {
	pc, _, _, _ := runtime.Caller(0)
	name := runtime.FuncForPC(pc).Name()
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	return name[:slash+1+dot+1]
}

// callers captures the stack above skip frames, innermost first.
// Runtime and testing frames are dropped, as are the constructors of this
// package above the raising site.
func callers(skip int) []Frame {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	var out []Frame
	for {
		frame, more := frames.Next()
		if len(out) == 0 && isConstructor(frame) {
			if !more {
				break
			}
			continue
		}
		if !strings.HasPrefix(frame.Function, "runtime.") && !strings.HasPrefix(frame.Function, "testing.") {
			out = append(out, Frame{
				Function: shortFunction(frame.Function),
				File:     frame.File,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return out
}

func isConstructor(frame runtime.Frame) bool {
	return strings.HasPrefix(frame.Function, packagePrefix) && !strings.HasSuffix(frame.File, "_test.go")
}

// shortFunction trims the module path from a fully qualified function name.
// "github.com/x/devsetup/internal/poetry.(*Bootstrapper).Ensure" becomes
// "poetry.(*Bootstrapper).Ensure".
func shortFunction(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
