package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
)

// Spinner animates a progress message while a model call is running
type Spinner struct {
	out     io.Writer
	enabled bool

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner creates a spinner writing to out. It only animates when out is a
// terminal.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out, enabled: IsTerminal(out)}
}

// Start displays msg with a spinner, replacing any running one
func (s *Spinner) Start(msg string) {
	s.Stop()
	if !s.enabled {
		fmt.Fprintf(s.out, "%s%s...%s\n", colorCyan, msg, colorReset)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.done = make(chan struct{})
	s.wg.Add(1)

	go func(done chan struct{}) {
		defer s.wg.Done()
		spinnerChars := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i = (i + 1) % len(spinnerChars) {
			fmt.Fprintf(s.out, "\r%s%s %s...%s", colorCyan, spinnerChars[i], msg, colorReset)
			select {
			case <-done:
				// Clear the spinner line
				fmt.Fprint(s.out, "\r\033[2K\r")
				return
			case <-ticker.C:
			}
		}
	}(s.done)
}

// Stop stops the running spinner, if any, and waits for the line to clear
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// IsTerminal checks if w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the terminal width of w, or fallback when it has none
func Width(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return fallback
}
