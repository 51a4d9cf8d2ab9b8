// Package sigtrap makes abort-class failures inside the component under
// test recoverable for the duration of a single guarded evaluation.
//
// The engine's internal consistency checks call Raise, which aborts the
// process unless a Trap window is armed around the call. A Trap converts
// a fault delivered inside its armed window into an ordinary return value;
// a fault delivered outside any armed window propagates and terminates the
// process with default signal disposition. This scope boundary is
// deliberate: only code running inside Trap.Run is protected.
//
// Exactly one recovery window is live at a time. Arming while already
// armed replaces the previous window (last writer wins); windows never
// stack.
package sigtrap

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// Fault is an abort-class failure raised by an internal consistency check.
// It carries the signal number that would have been delivered to the
// process by the equivalent native abort.
type Fault struct {
	Sig syscall.Signal
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("caught %s (signal number %d)", SignalName(f.Sig), int(f.Sig))
}

// Raise aborts the current evaluation with the given signal.
//
// Inside an armed Trap window the fault is caught and converted into a
// failed evaluation. Outside a window the panic propagates to the top of
// the goroutine and crashes the process, matching default disposition for
// the signal.
func Raise(sig syscall.Signal) {
	panic(&Fault{Sig: sig})
}

// Abort is shorthand for Raise(SIGABRT), the abort-class failure used by
// consistency checks in the engine.
func Abort() {
	Raise(syscall.SIGABRT)
}

// watched is the set of fatal signals the trap recognizes while armed.
// Anything else keeps its default disposition even inside a window.
var watched = []os.Signal{
	syscall.SIGABRT,
	syscall.SIGFPE,
	syscall.SIGILL,
	syscall.SIGINT,
	syscall.SIGSEGV,
	syscall.SIGTERM,
}

// Trap owns process-wide abort-signal disposition and the single shared
// recovery window. The zero value is not usable; call New.
//
// Trap is strictly single-threaded: the harness arms, evaluates, and
// disarms on one goroutine, so no locking is required. Correctness depends
// on disciplined Arm/Disarm pairing, which Run enforces.
type Trap struct {
	ch        chan os.Signal
	armed     bool
	installed bool
	last      syscall.Signal
	caught    bool
}

// New creates an uninstalled trap.
func New() *Trap {
	return &Trap{
		// Buffered so an asynchronous delivery during an armed window is
		// never dropped between evaluation and the post-check in Run.
		ch: make(chan os.Signal, 1),
	}
}

// Install prepares the trap for use. It must be called once, before any
// guarded evaluation runs; installing twice is a harness setup failure.
func (t *Trap) Install() error {
	if t.installed {
		return fmt.Errorf("sigtrap: handler already installed")
	}
	t.installed = true
	return nil
}

// Arm opens the guarded window: watched signals are redirected to the
// trap instead of terminating the process. Arming while armed replaces
// the previous window deterministically; it does not stack.
func (t *Trap) Arm() {
	t.drain()
	signal.Notify(t.ch, watched...)
	t.armed = true
}

// Disarm closes the guarded window and restores default disposition for
// the watched signals. Idempotent: disarming an unarmed trap is a no-op.
func (t *Trap) Disarm() {
	if !t.armed {
		return
	}
	signal.Reset(watched...)
	t.drain()
	t.armed = false
}

// Armed reports whether a recovery window is currently live.
func (t *Trap) Armed() bool {
	return t.armed
}

// LastSignal returns the most recently caught signal and whether any
// signal has been caught since the trap was created.
func (t *Trap) LastSignal() (syscall.Signal, bool) {
	return t.last, t.caught
}

// Run evaluates eval inside an armed window and reports the outcome.
//
// If eval completes normally, ok is its result and caught is false. If an
// abort-class fault is raised during evaluation, or a watched OS signal is
// delivered while the window is armed, the fault is absorbed: ok is false,
// caught is true, and sig identifies the signal. The window is always
// closed before Run returns, so a signal arriving after Run is fatal —
// subsequent Run calls re-arm from scratch.
//
// Non-fault panics are not intercepted; they propagate to the caller.
func (t *Trap) Run(eval func() bool) (ok bool, sig syscall.Signal, caught bool) {
	if !t.installed {
		// Unprotected evaluation; the caller skipped Install.
		return eval(), 0, false
	}

	t.Arm()
	defer t.Disarm()

	ok, sig, caught = t.eval(eval)
	if caught {
		t.record(sig)
		return false, sig, true
	}

	// An asynchronous watched signal delivered mid-evaluation lands in the
	// channel rather than raising a fault; pick it up before the window
	// closes so the evaluation is still counted as interrupted.
	select {
	case s := <-t.ch:
		ssig, isSys := s.(syscall.Signal)
		if !isSys {
			ssig = syscall.SIGABRT
		}
		t.record(ssig)
		return false, ssig, true
	default:
	}
	return ok, 0, false
}

// eval runs the evaluation under a recover boundary that intercepts only
// *Fault panics raised while the window is armed.
func (t *Trap) eval(eval func() bool) (ok bool, sig syscall.Signal, caught bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		f, isFault := r.(*Fault)
		if !isFault || !t.armed {
			panic(r)
		}
		ok, sig, caught = false, f.Sig, true
	}()
	return eval(), 0, false
}

func (t *Trap) record(sig syscall.Signal) {
	t.last = sig
	t.caught = true
}

// drain empties any stale signal left over from a previous window.
func (t *Trap) drain() {
	for {
		select {
		case <-t.ch:
		default:
			return
		}
	}
}
