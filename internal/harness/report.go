package harness

import (
	"fmt"
	"io"
	"time"
)

// ANSI escape sequences for color mode.
const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// Reporter renders the human-readable transcript of a suite run.
//
// Output is line-oriented text with fixed prefixes so transcripts are
// stable enough for golden comparison. Silent mode suppresses every line
// without altering counters or exit codes; color mode wraps the prefix
// words in ANSI escapes and has no semantic effect.
type Reporter struct {
	w      io.Writer
	silent bool
	color  bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, silent, color bool) *Reporter {
	return &Reporter{w: w, silent: silent, color: color}
}

func (r *Reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

func (r *Reporter) printf(format string, args ...any) {
	if r.silent {
		return
	}
	fmt.Fprintf(r.w, format, args...)
}

// Banner prints the suite opening lines.
func (r *Reporter) Banner(name string, at time.Time) {
	r.printf("%s\n%s\nbegin:\n\n", r.paint(ansiYellow, name+" unit tests"), at.Format(time.ANSIC))
}

// Note prints a phase heading.
func (r *Reporter) Note(label string) {
	r.printf("%s\n", r.paint(ansiYellow, label))
}

// State prints the traceability line preceding a setup statement.
func (r *Reporter) State(label string) {
	r.printf("   %s:\t%s\n", r.paint(ansiBlue, "state"), label)
}

// Must prints the line preceding a fatal-capable assertion.
func (r *Reporter) Must(expr string) {
	r.printf("    %s:\t%s\n", r.paint(ansiBlue, "must"), expr)
}

// OK prints a passing assertion line.
func (r *Reporter) OK(expr string) {
	r.printf("      %s:\t%s\n", r.paint(ansiGreen, "ok"), expr)
}

// Failed prints a failing assertion line with its source location.
func (r *Reporter) Failed(expr string, line int) {
	r.printf("  %s:\t%s (line %d)\n", r.paint(ansiRed, "FAILED"), expr, line)
}

// Caught prints the diagnostic for a signal absorbed inside an armed
// window. It precedes the FAILED line for the interrupted assertion.
func (r *Reporter) Caught(name string, num int) {
	r.printf("caught %s (signal number %d)\n", name, num)
}

// Summary prints the closing tally and elapsed wall-clock duration.
func (r *Reporter) Summary(name string, passed, total int, elapsed time.Duration) {
	r.printf("\n\n%s\npassed %d/%d\ntime %fs\n", r.paint(ansiYellow, name+" unit tests"), passed, total, elapsed.Seconds())
}
