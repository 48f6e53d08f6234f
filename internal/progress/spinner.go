package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator wraps a spinner that is only animated on a TTY. On other
// outputs Start and Stop print nothing, so logs stay line-oriented.
type Indicator struct {
	mu      sync.Mutex
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	sp      *spinner.Spinner
	message string
}

// NewIndicator creates an Indicator writing to out.
func NewIndicator(out io.Writer, caps TerminalCapabilities) *Indicator {
	return &Indicator{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins animating with message. A running spinner is replaced.
func (i *Indicator) Start(message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.message = message
	if !i.caps.IsTTY {
		return
	}
	if i.sp != nil {
		i.sp.Stop()
	}
	i.sp = spinner.New(spinner.CharSets[i.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(i.out))
	i.sp.Suffix = " " + message
	i.sp.Start()
}

// Stop ends the animation and prints the result line.
func (i *Indicator) Stop(ok bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.sp == nil {
		return
	}
	i.sp.Stop()
	i.sp = nil

	symbol := i.symbols.Checkmark
	if !ok {
		symbol = i.symbols.Failure
	}
	fmt.Fprintf(i.out, "%s %s\n", symbol, i.message)
}

// Active reports whether a spinner is running.
func (i *Indicator) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sp != nil
}
