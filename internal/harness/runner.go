package harness

import (
	"fmt"
	"runtime"

	"github.com/forthkit/unit/internal/sigtrap"
)

// FatalError is the distinguished result of a failed Must assertion.
// RunPhases converts it into an immediate stop; the CLI maps it to the
// fatal exit status.
type FatalError struct {
	Expr string
	Line int
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	return fmt.Sprintf("must failed: %s (line %d)", e.Expr, e.Line)
}

// Test evaluates one assertion inside the guarded signal window.
//
// If the evaluation is interrupted by a caught abort-class signal, the
// outcome is forced to failure and the signal's name is reported before
// the FAILED line. The tally is updated exactly once either way. The
// boolean outcome is returned so dependent assertions can branch on it.
func (h *Harness) Test(expr string, eval func() bool) bool {
	return h.test(expr, callerLine(2), eval)
}

// Must evaluates a precondition the rest of the suite is meaningless
// without. It behaves like Test, but a failing outcome raises a
// FatalError that stops the run; no further assertions are recorded.
func (h *Harness) Must(expr string, eval func() bool) {
	line := callerLine(2)
	h.reporter.Must(expr)
	if !h.test(expr, line, eval) {
		panic(&FatalError{Expr: expr, Line: line})
	}
}

// Statement executes a side-effecting setup action, printing a
// traceability line first. It is deliberately not signal-guarded: a
// crash here propagates with default disposition and is outside the
// harness's recovery contract.
func (h *Harness) Statement(label string, action func()) {
	h.reporter.State(label)
	action()
}

func (h *Harness) test(expr string, line int, eval func() bool) bool {
	ok, sig, caught := h.trap.Run(eval)
	if caught {
		h.reporter.Caught(sigtrap.SignalName(sig), int(sig))
	}
	h.tally.Record(ok)
	if ok {
		h.reporter.OK(expr)
	} else {
		h.reporter.Failed(expr, line)
	}
	h.logger.Debug("assertion evaluated",
		"expr", expr,
		"line", line,
		"ok", ok,
		"caught", caught,
	)
	return ok
}

// callerLine returns the source line of the assertion call site, the Go
// stand-in for the preprocessor line macro the transcript format wants.
func callerLine(skip int) int {
	_, _, line, ok := runtime.Caller(skip)
	if !ok {
		return 0
	}
	return line
}
